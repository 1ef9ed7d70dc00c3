package session

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/typeid"
)

func startServer(t *testing.T) (*Registry, *httptest.Server) {
	t.Helper()
	reg := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	go reg.Run(ctx)

	h := NewHandler(reg, nil, 16)
	r := mux.NewRouter()
	r.Handle("/ws/board", h).Methods("GET")
	r.HandleFunc("/sessions", h.Count).Methods("GET")
	r.HandleFunc("/sessions/{id}", h.Lookup).Methods("GET")
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return reg, srv
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) Message {
	t.Helper()
	var msg Message
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// frameView is the part of a frame the tests look at.
type frameView struct {
	Elements  []json.RawMessage `json:"elements"`
	Selection []string          `json:"selection"`
	Zoom      float64           `json:"zoom"`
}

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) frameView {
	t.Helper()
	msg := readMessage(t, ctx, conn)
	if msg.Type != TypeFrame {
		t.Fatalf("got %s message %s, want frame", msg.Type, msg.Payload)
	}
	var f frameView
	if err := json.Unmarshal(msg.Payload, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func TestBoardSession(t *testing.T) {
	reg, srv := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL+"/ws/board", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	welcome := readMessage(t, ctx, conn)
	if welcome.Type != TypeWelcome {
		t.Fatalf("first message = %s, want welcome", welcome.Type)
	}
	var wp WelcomePayload
	if err := json.Unmarshal(welcome.Payload, &wp); err != nil || wp.SessionID == "" || wp.ClientID == "" {
		t.Fatalf("welcome payload = %s (%v)", welcome.Payload, err)
	}
	if f := readFrame(t, ctx, conn); len(f.Elements) != 0 || f.Zoom != 1 {
		t.Errorf("initial frame: %d elements zoom %v", len(f.Elements), f.Zoom)
	}
	waitFor(t, "registration", func() bool { return reg.Count() == 1 })

	send := func(typ string, payload string) {
		t.Helper()
		msg := Message{Type: typ}
		if payload != "" {
			msg.Payload = json.RawMessage(payload)
		}
		if err := wsjson.Write(ctx, conn, msg); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	send(TypeEvent, `{"type":"shape.add","shapeType":"star"}`)
	if f := readFrame(t, ctx, conn); len(f.Elements) != 1 {
		t.Errorf("after add: %d elements, want 1", len(f.Elements))
	}

	send(TypeEvent, `{"type":"pointer.down","x":150,"y":150}`)
	if f := readFrame(t, ctx, conn); len(f.Selection) != 1 {
		t.Errorf("selection = %v, want one id", f.Selection)
	}

	send(TypeEvent, `{"type":"explode"}`)
	if msg := readMessage(t, ctx, conn); msg.Type != TypeError {
		t.Errorf("unknown event answered with %s", msg.Type)
	}

	send("presence.update", "")
	if msg := readMessage(t, ctx, conn); msg.Type != TypeError {
		t.Errorf("unknown message answered with %s", msg.Type)
	}

	send(TypeSample, "")
	if f := readFrame(t, ctx, conn); len(f.Elements) == 0 {
		t.Error("sample board is empty")
	}

	resp, err := http.Get(srv.URL + "/sessions")
	if err != nil {
		t.Fatalf("GET /sessions: %v", err)
	}
	var count map[string]int
	json.NewDecoder(resp.Body).Decode(&count)
	resp.Body.Close()
	if count["active"] != 1 {
		t.Errorf("active = %d, want 1", count["active"])
	}

	conn.Close(websocket.StatusNormalClosure, "")
	waitFor(t, "unregistration", func() bool { return reg.Count() == 0 })
}

func TestSessionsAreIsolated(t *testing.T) {
	reg, srv := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, _, err := websocket.Dial(ctx, srv.URL+"/ws/board", nil)
	if err != nil {
		t.Fatalf("dial a: %v", err)
	}
	defer a.Close(websocket.StatusNormalClosure, "")
	b, _, err := websocket.Dial(ctx, srv.URL+"/ws/board?sample=1", nil)
	if err != nil {
		t.Fatalf("dial b: %v", err)
	}
	defer b.Close(websocket.StatusNormalClosure, "")

	readMessage(t, ctx, a)
	if f := readFrame(t, ctx, a); len(f.Elements) != 0 {
		t.Errorf("a starts with %d elements", len(f.Elements))
	}
	readMessage(t, ctx, b)
	if f := readFrame(t, ctx, b); len(f.Elements) == 0 {
		t.Error("b should start from the sample board")
	}
	waitFor(t, "both sessions", func() bool { return reg.Count() == 2 })
}

func TestHandleMessageWithoutConnection(t *testing.T) {
	s := NewSession(NewRegistry(), nil, engine.NewEngine(), "sess_test", "client", 4)

	s.handleMessage(&Message{Type: TypeEvent, Payload: json.RawMessage(`{"type":"text.add"}`)})
	s.handleMessage(&Message{Type: TypeEvent})
	s.handleMessage(&Message{Type: TypeSync})

	want := []string{TypeFrame, TypeError, TypeFrame}
	for i, typ := range want {
		var msg Message
		select {
		case data := <-s.send:
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("message %d: %v", i, err)
			}
		default:
			t.Fatalf("message %d missing", i)
		}
		if msg.Type != typ {
			t.Errorf("message %d = %s, want %s", i, msg.Type, typ)
		}
	}
}

func TestSendDropsWhenBufferFull(t *testing.T) {
	s := NewSession(NewRegistry(), nil, engine.NewEngine(), "sess_test", "client", 1)
	s.sendError("one")
	s.sendError("two")
	if n := len(s.send); n != 1 {
		t.Errorf("buffered = %d, want 1", n)
	}
}

func TestRegistryStopped(t *testing.T) {
	reg := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(stopped)
	}()

	s := NewSession(reg, nil, engine.NewEngine(), "sess_1", "client", 1)
	if !reg.Register(s) {
		t.Fatal("Register failed on a running registry")
	}
	waitFor(t, "registration", func() bool { return reg.Count() == 1 })
	if got, ok := reg.Session("sess_1"); !ok || got != s {
		t.Error("Session lookup failed")
	}

	cancel()
	<-stopped
	if reg.Count() != 0 {
		t.Errorf("Count after stop = %d", reg.Count())
	}
	if reg.Register(NewSession(reg, nil, engine.NewEngine(), "sess_2", "client", 1)) {
		t.Error("Register succeeded after stop")
	}
	reg.Unregister(s) // must not block
}

func TestUnencodablePayloadSendsError(t *testing.T) {
	s := NewSession(NewRegistry(), nil, engine.NewEngine(), "sess_test", "client", 4)
	s.sendPayload(TypeFrame, map[string]float64{"zoom": math.Inf(1)})

	var msg Message
	if err := json.Unmarshal(<-s.send, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != TypeError {
		t.Fatalf("type = %s, want error", msg.Type)
	}
	var p ErrorPayload
	json.Unmarshal(msg.Payload, &p)
	if p.Message == "" {
		t.Error("error message is empty")
	}
}

func TestClosedSendQueueKeepsPendingMessages(t *testing.T) {
	reg := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reg.Run(ctx)

	s := NewSession(reg, nil, engine.NewEngine(), "sess_1", "client", 4)
	reg.Register(s)
	s.sendFrame()
	s.sendError("last words")

	// Both the registry and the read loop close the queue on the way out.
	reg.Unregister(s)
	s.closeSend()

	var got []string
	for data := range s.send {
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, msg.Type)
	}
	if len(got) != 2 || got[0] != TypeFrame || got[1] != TypeError {
		t.Errorf("drained %v, want [frame error]", got)
	}
}

func TestSessionLookup(t *testing.T) {
	reg, srv := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL+"/ws/board", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	var wp WelcomePayload
	json.Unmarshal(readMessage(t, ctx, conn).Payload, &wp)
	waitFor(t, "registration", func() bool { return reg.Count() == 1 })

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"open session", wp.SessionID, http.StatusOK},
		{"unknown session", typeid.NewSessionID(), http.StatusNotFound},
		{"element id", typeid.NewElementID(), http.StatusBadRequest},
		{"malformed", "not-an-id", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/sessions/" + tt.id)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if tt.want != http.StatusOK {
				return
			}
			var body map[string]string
			json.NewDecoder(resp.Body).Decode(&body)
			if body["id"] != wp.SessionID || body["clientId"] != wp.ClientID {
				t.Errorf("body = %v, want welcome ids", body)
			}
		})
	}
}
