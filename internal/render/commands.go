package render

import (
	"encoding/json"
	"slices"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/store"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op        string        `json:"op"`                  // "path", "text", "image", "outline", "handle", "marquee"
	ObjectID  string        `json:"objectId,omitempty"`  // For hit correlation
	Transform []float64     `json:"transform,omitempty"` // [a, b, c, d, e, f] local-to-screen matrix
	Path      []PathCommand `json:"path,omitempty"`
	Width     float64       `json:"width,omitempty"`
	Height    float64       `json:"height,omitempty"`
	Style     *Style        `json:"style,omitempty"`
	Text      string        `json:"text,omitempty"`
	Src       string        `json:"src,omitempty"`
	Cursor    string        `json:"cursor,omitempty"`
	Handle    Handle        `json:"handle,omitempty"`
	Dashed    bool          `json:"dashed,omitempty"`
}

// Overlay is the transient interaction state painted above the elements.
type Overlay struct {
	EditingID string
	Marquee   *geom.Rect // document space, normalized
}

// Renderer compiles a store into draw commands. It keeps no state of its
// own between calls.
type Renderer struct {
	store *store.Store
}

func NewRenderer(s *store.Store) *Renderer {
	return &Renderer{store: s}
}

// Nodes renders every element in z-order.
func (r *Renderer) Nodes(ov Overlay) []Node {
	els := r.store.Elements()
	nodes := make([]Node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, Render(el, r.store.IsSelected(el.ID), el.ID == ov.EditingID))
	}
	return nodes
}

// Compile generates the draw command buffer in painter's order: element
// bodies back to front, then selection outlines and handles, then the marquee.
func (r *Renderer) Compile(ov Overlay) []DrawCommand {
	view := r.store.Viewport().Matrix()
	nodes := r.Nodes(ov)

	commands := make([]DrawCommand, 0, len(nodes)+1)
	for _, n := range nodes {
		commands = append(commands, bodyCommand(n, view))
	}

	for _, n := range nodes {
		if !n.Selected {
			continue
		}
		commands = append(commands, DrawCommand{
			Op:        "outline",
			ObjectID:  n.ID,
			Transform: local(view, n.Bounds).ToSlice(),
			Path:      rectPath(n.Bounds.Width, n.Bounds.Height),
			Style:     &Style{Stroke: SelectionColor, StrokeWidth: 2},
		})
		for _, h := range n.Handles {
			commands = append(commands, DrawCommand{
				Op:        "handle",
				ObjectID:  n.ID,
				Transform: local(view, h.Rect).ToSlice(),
				Path:      rectPath(h.Rect.Width, h.Rect.Height),
				Style:     &Style{Fill: "#ffffff", Stroke: SelectionColor, StrokeWidth: 1},
				Cursor:    h.Cursor,
				Handle:    h.Handle,
			})
		}
	}

	if ov.Marquee != nil {
		m := *ov.Marquee
		commands = append(commands, DrawCommand{
			Op:        "marquee",
			Transform: local(view, m).ToSlice(),
			Path:      rectPath(m.Width, m.Height),
			Style:     &Style{Fill: "rgba(0, 120, 215, 0.1)", Stroke: SelectionColor, StrokeWidth: 1},
			Dashed:    true,
		})
	}

	// Content pushed to the edge of float range can overflow once the
	// view transform is applied; such commands are off screen anyway.
	return slices.DeleteFunc(commands, func(c DrawCommand) bool { return !c.finite() })
}

// finite reports whether every number in the command can be encoded as JSON.
func (c DrawCommand) finite() bool {
	if !geom.Finite(c.Width) || !geom.Finite(c.Height) {
		return false
	}
	for _, v := range c.Transform {
		if !geom.Finite(v) {
			return false
		}
	}
	for _, seg := range c.Path {
		for _, v := range seg[1:] {
			if f, ok := v.(float64); ok && !geom.Finite(f) {
				return false
			}
		}
	}
	return true
}

func bodyCommand(n Node, view geom.Matrix2D) DrawCommand {
	style := n.Style
	cmd := DrawCommand{
		ObjectID:  n.ID,
		Transform: local(view, n.Bounds).ToSlice(),
		Width:     n.Bounds.Width,
		Height:    n.Bounds.Height,
		Style:     &style,
		Cursor:    n.Cursor,
	}
	switch n.Kind {
	case document.KindShape:
		cmd.Op = "path"
		cmd.Path = n.Path
	case document.KindText:
		cmd.Op = "text"
		cmd.Text = n.Text
	case document.KindImage:
		cmd.Op = "image"
		cmd.Src = n.Src
		cmd.Style = nil
	}
	return cmd
}

// local returns the matrix mapping element-local coordinates of r to the screen.
func local(view geom.Matrix2D, r geom.Rect) geom.Matrix2D {
	return view.Multiply(geom.Translate(r.X, r.Y))
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
