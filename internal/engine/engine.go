package engine

import (
	"encoding/json"
	"log/slog"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/interact"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/store"
)

// Engine owns one board: its store, the interaction controller that
// mutates it and the renderer that paints it. It is not safe for
// concurrent use; a host feeds it events one at a time.
type Engine struct {
	opts       []store.Option
	store      *store.Store
	controller *interact.Controller
	renderer   *render.Renderer

	// Compiled draw commands for the last rendered revision and overlay.
	cached    []render.DrawCommand
	cachedKey renderKey
	hasCache  bool
}

type renderKey struct {
	revision   uint64
	editingID  string
	marquee    geom.Rect
	hasMarquee bool
}

// NewEngine creates an engine with an empty board.
func NewEngine(opts ...store.Option) *Engine {
	e := &Engine{opts: opts}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.store = store.New(e.opts...)
	e.controller = interact.NewController(e.store)
	e.renderer = render.NewRenderer(e.store)
	e.cached = nil
	e.hasCache = false
}

// LoadSampleBoard replaces the board with the built-in sample.
func (e *Engine) LoadSampleBoard() {
	e.reset()
	seeds := document.SampleBoard()
	for _, seed := range seeds {
		e.store.Add(seed.Kind, seed.Patch)
	}
	slog.Debug("sample board loaded", "elements", len(seeds))
}

// Store exposes the board for read access by hosts and tests.
func (e *Engine) Store() *store.Store {
	return e.store
}

func (e *Engine) Controller() *interact.Controller {
	return e.controller
}

// --- Queries ---

// Commands returns the draw commands for the current board, recompiling
// only when the board or the interaction overlay changed.
func (e *Engine) Commands() []render.DrawCommand {
	ov := e.controller.Overlay()
	key := renderKey{revision: e.store.Revision(), editingID: ov.EditingID}
	if ov.Marquee != nil {
		key.marquee, key.hasMarquee = *ov.Marquee, true
	}
	if e.hasCache && key == e.cachedKey {
		return e.cached
	}
	e.cached = e.renderer.Compile(ov)
	e.cachedKey = key
	e.hasCache = true
	return e.cached
}

// Render returns the draw commands as JSON.
func (e *Engine) Render() string {
	result, _ := render.DrawCommandsToJSON(e.Commands())
	return result
}

// HitTest returns the id of the topmost element under the screen point
// (x, y), or "" when the background is hit.
func (e *Engine) HitTest(x, y float64) string {
	p := e.store.Viewport().ScreenToDocument(geom.Point{X: x, Y: y})
	if el, ok := e.store.TopmostAt(p); ok {
		return el.ID
	}
	return ""
}

// State is everything a presentation layer needs besides the draw
// commands: toolbar state, cursor and the elements themselves.
type State struct {
	Tool            store.Tool         `json:"tool"`
	Cursor          string             `json:"cursor"`
	Interaction     interact.State     `json:"state"`
	Zoom            float64            `json:"zoom"`
	Pan             geom.Point         `json:"pan"`
	Selection       []string           `json:"selection"`
	SelectionBounds *geom.Rect         `json:"selectionBounds,omitempty"` // screen space
	ActiveToolbar   document.Kind      `json:"activeToolbar,omitempty"`
	EditingID       string             `json:"editingId,omitempty"`
	Draft           string             `json:"draft,omitempty"`
	Elements        []document.Element `json:"elements"`
	Revision        uint64             `json:"revision"`
}

// Frame is what a client repaints from after each event.
type Frame struct {
	Commands []render.DrawCommand `json:"commands"`
	State
}

func (e *Engine) State() State {
	v := e.store.Viewport()
	toolbar, _ := e.store.ActiveToolbar()
	sel := e.store.SelectedIDs()
	if sel == nil {
		sel = []string{}
	}
	els := e.store.Elements()
	if els == nil {
		els = []document.Element{}
	}
	return State{
		Tool:            e.store.Tool(),
		Cursor:          e.controller.Cursor(),
		Interaction:     e.controller.State(),
		Zoom:            v.Zoom,
		Pan:             v.Pan,
		Selection:       sel,
		SelectionBounds: e.selectionBounds(v),
		ActiveToolbar:   toolbar,
		EditingID:       e.controller.EditingID(),
		Draft:           e.controller.Draft(),
		Elements:        els,
		Revision:        e.store.Revision(),
	}
}

func (e *Engine) selectionBounds(v geom.Viewport) *geom.Rect {
	box, ok := e.store.SelectionBounds()
	if !ok {
		return nil
	}
	if box = v.Matrix().ApplyRect(box); !box.IsFinite() {
		return nil
	}
	return &box
}

// StateJSON returns State as JSON.
func (e *Engine) StateJSON() string {
	data, _ := json.Marshal(e.State())
	return string(data)
}

func (e *Engine) Frame() Frame {
	cmds := e.Commands()
	if cmds == nil {
		cmds = []render.DrawCommand{}
	}
	return Frame{Commands: cmds, State: e.State()}
}
