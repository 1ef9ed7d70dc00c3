package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/typeid"
)

// Handler upgrades GET /ws/board requests. Every connection gets a fresh
// board; boards are not shared or persisted.
type Handler struct {
	registry       *Registry
	originPatterns []string
	sendBuffer     int
}

func NewHandler(registry *Registry, originPatterns []string, sendBuffer int) *Handler {
	return &Handler{registry: registry, originPatterns: originPatterns, sendBuffer: sendBuffer}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	eng := engine.NewEngine()
	if r.URL.Query().Get("sample") == "1" {
		eng.LoadSampleBoard()
	}

	s := NewSession(h.registry, conn, eng, typeid.NewSessionID(), uuid.New().String(), h.sendBuffer)
	if !h.registry.Register(s) {
		conn.Close(websocket.StatusTryAgainLater, "server shutting down")
		return
	}

	s.sendPayload(TypeWelcome, WelcomePayload{SessionID: s.ID, ClientID: s.ClientID})
	s.sendFrame()

	ctx := r.Context()
	flushed := make(chan struct{})
	go func() {
		s.WritePump(ctx)
		close(flushed)
	}()
	s.ReadPump(ctx)

	select {
	case <-flushed:
	case <-time.After(writeWait):
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// Count handles GET /sessions.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"active": h.registry.Count()})
}

// Lookup handles GET /sessions/{id}.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := typeid.Validate(id, typeid.PrefixSession); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s, ok := h.registry.Session(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": s.ID, "clientId": s.ClientID})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
