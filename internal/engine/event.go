package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/interact"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/store"
)

var (
	// ErrUnknownEvent is returned for an event type the engine does not handle.
	ErrUnknownEvent = errors.New("unknown event type")
	// ErrInvalidEvent is returned when an event names an unknown tool, shape
	// kind or handle, or cannot be decoded.
	ErrInvalidEvent = errors.New("invalid event")
)

// Event types accepted by Dispatch.
const (
	EventPointerDown     = "pointer.down"
	EventPointerMove     = "pointer.move"
	EventPointerUp       = "pointer.up"
	EventPointerLeave    = "pointer.leave"
	EventDoubleClick     = "pointer.dblclick"
	EventKeyDown         = "key.down"
	EventKeyUp           = "key.up"
	EventWheel           = "wheel"
	EventTextEdit        = "text.edit"
	EventTextCommit      = "text.commit"
	EventTextBlur        = "text.blur"
	EventZoomIn          = "zoom.in"
	EventZoomOut         = "zoom.out"
	EventZoomReset       = "zoom.reset"
	EventToolSet         = "tool.set"
	EventShapeAdd        = "shape.add"
	EventTextAdd         = "text.add"
	EventImageAdd        = "image.add"
	EventElementUpdate   = "element.update"
	EventSelectionDelete = "selection.delete"
	EventSelectionClear  = "selection.clear"
	EventResizeBegin     = "resize.begin"
)

// Event is the wire form of every input the engine accepts. Only the
// fields relevant to Type are read.
type Event struct {
	Type string `json:"type"`

	// Pointer position in screen pixels.
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Button int     `json:"button,omitempty"`

	Shift bool `json:"shift,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Alt   bool `json:"alt,omitempty"`
	Meta  bool `json:"meta,omitempty"`

	Key    string `json:"key,omitempty"`
	Code   string `json:"code,omitempty"`
	Repeat bool   `json:"repeat,omitempty"`

	DeltaX float64 `json:"deltaX,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`

	Content   string          `json:"content,omitempty"`
	ShapeType string          `json:"shapeType,omitempty"`
	ID        string          `json:"id,omitempty"`
	Handle    string          `json:"handle,omitempty"`
	Tool      string          `json:"tool,omitempty"`
	Src       string          `json:"src,omitempty"`
	Width     float64         `json:"width,omitempty"`
	Height    float64         `json:"height,omitempty"`
	Patch     *document.Patch `json:"patch,omitempty"`
}

func (ev Event) mods() interact.Modifiers {
	return interact.Modifiers{Shift: ev.Shift, Ctrl: ev.Ctrl, Alt: ev.Alt, Meta: ev.Meta}
}

func (ev Event) pointer() interact.Pointer {
	return interact.Pointer{
		Pos:    geom.Point{X: ev.X, Y: ev.Y},
		Button: interact.Button(ev.Button),
		Mods:   ev.mods(),
	}
}

func (ev Event) key() interact.Key {
	return interact.Key{Key: ev.Key, Code: ev.Code, Repeat: ev.Repeat, Mods: ev.mods()}
}

// DecodeEvent parses the JSON form of an Event.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w: %v", ErrInvalidEvent, err)
	}
	return ev, nil
}

// Dispatch applies one event. handled is false only for keys the engine
// does not bind, so a host can let the browser act on them.
func (e *Engine) Dispatch(ev Event) (handled bool, err error) {
	c := e.controller
	switch ev.Type {
	case EventPointerDown:
		c.PointerDown(ev.pointer())
	case EventPointerMove:
		c.PointerMove(ev.pointer())
	case EventPointerUp:
		c.PointerUp(ev.pointer())
	case EventPointerLeave:
		c.PointerLeave()
	case EventDoubleClick:
		c.DoubleClick(ev.pointer())

	case EventKeyDown:
		return c.KeyDown(ev.key()), nil
	case EventKeyUp:
		return c.KeyUp(ev.key()), nil
	case EventWheel:
		c.Wheel(interact.Wheel{Delta: geom.Point{X: ev.DeltaX, Y: ev.DeltaY}, Mods: ev.mods()})

	case EventTextEdit:
		c.EditText(ev.Content)
	case EventTextCommit:
		c.CommitText()
	case EventTextBlur:
		c.Blur()

	case EventZoomIn:
		c.ZoomIn()
	case EventZoomOut:
		c.ZoomOut()
	case EventZoomReset:
		c.ResetView()

	case EventToolSet:
		t, ok := store.ParseTool(ev.Tool)
		if !ok || !c.SetTool(t) {
			return false, fmt.Errorf("tool %q: %w", ev.Tool, ErrInvalidEvent)
		}
	case EventShapeAdd:
		k := document.ShapeRectangle
		if ev.ShapeType != "" {
			var ok bool
			if k, ok = document.ParseShapeKind(ev.ShapeType); !ok {
				return false, fmt.Errorf("shape type %q: %w", ev.ShapeType, ErrInvalidEvent)
			}
		}
		c.AddShape(k)
	case EventTextAdd:
		c.AddText()
	case EventImageAdd:
		if ev.Src == "" {
			return false, fmt.Errorf("image without src: %w", ErrInvalidEvent)
		}
		c.AddImage(ev.Src, ev.Width, ev.Height)

	case EventElementUpdate:
		if ev.Patch != nil {
			e.store.Update(ev.ID, *ev.Patch)
		}
	case EventSelectionDelete:
		e.store.DeleteSelected()
	case EventSelectionClear:
		e.store.ClearSelection()
	case EventResizeBegin:
		h, ok := render.ParseHandle(ev.Handle)
		if !ok {
			return false, fmt.Errorf("handle %q: %w", ev.Handle, ErrInvalidEvent)
		}
		c.BeginResize(ev.ID, h, geom.Point{X: ev.X, Y: ev.Y})

	default:
		return false, fmt.Errorf("dispatch %q: %w", ev.Type, ErrUnknownEvent)
	}
	return true, nil
}

// DispatchJSON decodes and dispatches a single event.
func (e *Engine) DispatchJSON(data string) (bool, error) {
	ev, err := DecodeEvent([]byte(data))
	if err != nil {
		return false, err
	}
	return e.Dispatch(ev)
}
