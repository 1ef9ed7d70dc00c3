package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Registry tracks the open sessions. Membership changes are serialized
// through Run; readers take the lock.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*Session // session ID -> session
	register   chan *Session
	unregister chan *Session
	done       chan struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:   make(map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case s := <-r.register:
			r.add(s)
		case s := <-r.unregister:
			r.remove(s)
		case <-ctx.Done():
			r.closeAll()
			return
		}
	}
}

// Register adds s. It reports false once the registry has stopped.
func (r *Registry) Register(s *Session) bool {
	select {
	case r.register <- s:
		return true
	case <-r.done:
		return false
	}
}

func (r *Registry) Unregister(s *Session) {
	select {
	case r.unregister <- s:
	case <-r.done:
	}
}

func (r *Registry) add(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	slog.Info("session opened", "session", s.ID, "client", s.ClientID, "active", n)
}

func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	if _, ok := r.sessions[s.ID]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, s.ID)
	s.closeSend()
	n := len(r.sessions)
	r.mu.Unlock()

	slog.Info("session closed", "session", s.ID, "active", n)
}

// closeAll drops every session and closes its connection; each read loop
// then exits on its own.
func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		sessions = append(sessions, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		if s.conn != nil {
			s.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
	slog.Info("sessions closed", "count", len(sessions))
}

// Count returns the number of open sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Session returns the open session with the given ID.
func (r *Registry) Session(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}
