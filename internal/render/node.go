package render

import (
	"fmt"
	"strings"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/geom"
)

// Handle identifies one of the four corner resize affordances.
type Handle string

const (
	TopLeft     Handle = "topLeft"
	TopRight    Handle = "topRight"
	BottomLeft  Handle = "bottomLeft"
	BottomRight Handle = "bottomRight"
)

// HandleSize is the side of a handle's square hit region, in document units.
const HandleSize = 8.0

const SelectionColor = "#0078d7"

var handles = []Handle{TopLeft, TopRight, BottomLeft, BottomRight}

func ParseHandle(s string) (Handle, bool) {
	for _, h := range handles {
		if string(h) == s {
			return h, true
		}
	}
	return "", false
}

// Cursor is the pointer cursor shown over the handle.
func (h Handle) Cursor() string {
	switch h {
	case TopRight, BottomLeft:
		return "nesw-resize"
	default:
		return "nwse-resize"
	}
}

// Corner returns the corner of r the handle sits on.
func (h Handle) Corner(r geom.Rect) geom.Point {
	switch h {
	case TopLeft:
		return geom.Point{X: r.Left(), Y: r.Top()}
	case TopRight:
		return geom.Point{X: r.Right(), Y: r.Top()}
	case BottomLeft:
		return geom.Point{X: r.Left(), Y: r.Bottom()}
	default:
		return geom.Point{X: r.Right(), Y: r.Bottom()}
	}
}

// HandleRegion is the hit region of a handle in document space.
type HandleRegion struct {
	Handle Handle    `json:"handle"`
	Rect   geom.Rect `json:"rect"`
	Cursor string    `json:"cursor"`
}

// HandleRegions returns the four handle regions of el, centered on its corners.
func HandleRegions(el document.Element) []HandleRegion {
	regions := make([]HandleRegion, 0, len(handles))
	for _, h := range handles {
		c := h.Corner(el.Bounds())
		regions = append(regions, HandleRegion{
			Handle: h,
			Rect:   geom.Rect{X: c.X - HandleSize/2, Y: c.Y - HandleSize/2, Width: HandleSize, Height: HandleSize},
			Cursor: h.Cursor(),
		})
	}
	return regions
}

// HandleAt returns the handle of el whose region contains p.
func HandleAt(el document.Element, p geom.Point) (Handle, bool) {
	for _, r := range HandleRegions(el) {
		if r.Rect.Contains(p) {
			return r.Handle, true
		}
	}
	return "", false
}

// Style is the resolved paint style of a node.
type Style struct {
	Fill           string  `json:"fill,omitempty"`
	Stroke         string  `json:"stroke,omitempty"`
	StrokeWidth    float64 `json:"strokeWidth,omitempty"`
	FontFamily     string  `json:"fontFamily,omitempty"`
	FontSize       float64 `json:"fontSize,omitempty"`
	FontWeight     string  `json:"fontWeight,omitempty"`
	FontStyle      string  `json:"fontStyle,omitempty"`
	TextDecoration string  `json:"textDecoration,omitempty"`
	Color          string  `json:"color,omitempty"`
}

// Node is the paint payload for one element: where it sits, how it looks
// and, when selected, where its resize handles are.
type Node struct {
	ID       string         `json:"id"`
	Kind     document.Kind  `json:"kind"`
	Bounds   geom.Rect      `json:"bounds"`
	Path     []PathCommand  `json:"path,omitempty"`
	Style    Style          `json:"style"`
	Text     string         `json:"text,omitempty"`
	Src      string         `json:"src,omitempty"`
	Cursor   string         `json:"cursor"`
	Selected bool           `json:"selected"`
	Editing  bool           `json:"editing"`
	Handles  []HandleRegion `json:"handles,omitempty"`
}

// Render builds the paint payload for el. Handles are exposed only for a
// selected element that is not being edited.
func Render(el document.Element, selected, editing bool) Node {
	n := Node{
		ID:       el.ID,
		Kind:     el.Kind(),
		Bounds:   el.Bounds(),
		Cursor:   "move",
		Selected: selected,
		Editing:  editing,
	}

	switch body := el.Body.(type) {
	case document.Shape:
		n.Path = Silhouette(body.ShapeKind, el.Width, el.Height)
		n.Style = Style{
			Fill:        body.BackgroundColor,
			Stroke:      body.BorderColor,
			StrokeWidth: body.BorderWidth,
		}
	case document.Text:
		n.Text = body.Content
		n.Style = textStyle(body)
		if editing {
			n.Cursor = "text"
		}
	case document.Image:
		n.Src = body.Src
	default:
		panic(fmt.Sprintf("render: unhandled element body %T", el.Body))
	}

	if selected && !editing {
		n.Handles = HandleRegions(el)
	}
	return n
}

func textStyle(t document.Text) Style {
	s := Style{
		FontFamily: t.FontFamily,
		FontSize:   t.FontSize,
		Color:      t.Color,
		FontWeight: "normal",
		FontStyle:  "normal",
	}
	if t.BackgroundColor != document.Transparent {
		s.Fill = t.BackgroundColor
	}
	if t.Bold {
		s.FontWeight = "bold"
	}
	if t.Italic {
		s.FontStyle = "italic"
	}
	var deco []string
	if t.Underline {
		deco = append(deco, "underline")
	}
	if t.Strikethrough {
		deco = append(deco, "line-through")
	}
	s.TextDecoration = strings.Join(deco, " ")
	return s
}
