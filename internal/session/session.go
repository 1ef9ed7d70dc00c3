package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/inamate/whiteboard/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// Session is one WebSocket connection and the board it edits. Events are
// applied by the read loop in arrival order; the write loop only forwards
// serialized messages.
type Session struct {
	registry *Registry
	conn     *websocket.Conn
	send     chan []byte
	engine   *engine.Engine

	closeOnce sync.Once

	ID       string
	ClientID string
}

func NewSession(registry *Registry, conn *websocket.Conn, eng *engine.Engine, id, clientID string, buffer int) *Session {
	if buffer <= 0 {
		buffer = 256
	}
	return &Session{
		registry: registry,
		conn:     conn,
		send:     make(chan []byte, buffer),
		engine:   eng,
		ID:       id,
		ClientID: clientID,
	}
}

// ReadPump applies incoming messages until the peer goes away. On return
// the send queue is closed so WritePump can flush what is left; the caller
// closes the connection.
func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.registry.Unregister(s)
		s.closeSend()
	}()

	s.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "session", s.ID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", s.ID)
			s.sendError("invalid message")
			continue
		}
		s.handleMessage(&msg)
	}
}

func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "session", s.ID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// handleMessage applies one client message to the board and answers with
// a fresh frame or an error.
func (s *Session) handleMessage(msg *Message) {
	switch msg.Type {
	case TypeEvent:
		if _, err := s.engine.DispatchJSON(string(msg.Payload)); err != nil {
			slog.Warn("rejected event", "error", err, "session", s.ID)
			s.sendError(err.Error())
			return
		}
	case TypeSample:
		s.engine.LoadSampleBoard()
		slog.Debug("sample board loaded", "elements", s.engine.Store().Len(), "session", s.ID)
	case TypeSync:
	default:
		slog.Warn("unknown message type", "type", msg.Type, "session", s.ID)
		s.sendError("unknown message type: " + msg.Type)
		return
	}
	s.sendFrame()
}

func (s *Session) sendFrame() {
	s.sendPayload(TypeFrame, s.engine.Frame())
}

// sendPayload queues a typ message. A payload that cannot be encoded is
// reported to the client as an error message.
func (s *Session) sendPayload(typ string, payload any) {
	msg, err := newMessage(typ, payload)
	if err != nil {
		slog.Error("marshal payload", "type", typ, "error", err, "session", s.ID)
		s.sendError(typ + " could not be encoded")
		return
	}
	s.Send(msg)
}

func (s *Session) sendError(text string) {
	msg, _ := newMessage(TypeError, ErrorPayload{Message: text})
	s.Send(msg)
}

// closeSend closes the send queue once; later calls are no-ops.
func (s *Session) closeSend() {
	s.closeOnce.Do(func() { close(s.send) })
}

func (s *Session) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "session", s.ID)
	}
}
