package session

import "encoding/json"

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WelcomePayload is sent once the connection is registered.
type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	// Client → server
	TypeEvent  = "event"
	TypeSample = "sample.load"
	TypeSync   = "sync"

	// Server → client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeError   = "error"
)

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
