package interact

import "github.com/inamate/whiteboard/internal/geom"

// Button numbers follow the DOM MouseEvent.button convention.
type Button int

const (
	ButtonLeft   Button = 0
	ButtonMiddle Button = 1
	ButtonRight  Button = 2
)

type Modifiers struct {
	Shift bool `json:"shift,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Alt   bool `json:"alt,omitempty"`
	Meta  bool `json:"meta,omitempty"`
}

// command reports whether the platform command key (Ctrl or Meta) is held.
func (m Modifiers) command() bool {
	return m.Ctrl || m.Meta
}

// extendsMarquee reports whether a background press keeps the selection.
func (m Modifiers) extendsMarquee() bool {
	return m.Shift || m.command()
}

// Pointer is a pointer event in screen space.
type Pointer struct {
	Pos    geom.Point
	Button Button
	Mods   Modifiers
}

// Key is a keyboard event. Key is the produced value ("Delete", "a"),
// Code the physical key ("Space").
type Key struct {
	Key    string
	Code   string
	Repeat bool
	Mods   Modifiers
}

// Wheel is a scroll event; Delta is in screen pixels.
type Wheel struct {
	Delta geom.Point
	Mods  Modifiers
}
