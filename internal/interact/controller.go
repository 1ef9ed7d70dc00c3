package interact

import (
	"log/slog"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/store"
)

// Controller turns pointer, keyboard and wheel events into store
// mutations. All gesture bookkeeping lives here and is reset when the
// gesture ends; the store is read fresh on every event.
type Controller struct {
	store *store.Store
	state State

	// Tool to restore when Space is released; "" when no override is active.
	previousTool store.Tool

	last    geom.Point // screen position of the previous pointer event in a gesture
	target  string     // element being dragged, resized or edited
	handle  render.Handle
	origin  geom.Point // marquee anchor, document space
	current geom.Point // marquee moving corner, document space
	draft   string     // text being edited
}

func NewController(s *store.Store) *Controller {
	return &Controller{store: s}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) transition(to State) {
	if c.state == to {
		return
	}
	slog.Debug("interaction state", "from", c.state, "to", to, "target", c.target)
	c.state = to
	if to == Idle {
		c.target = ""
		c.handle = ""
		c.draft = ""
	}
}

func (c *Controller) toDocument(p geom.Point) geom.Point {
	return c.store.Viewport().ScreenToDocument(p)
}

// --- Pointer ---

// PointerDown starts a gesture. The branch taken depends on the tool, the
// button and what lies under the pointer: a resize handle of a selected
// element, an element, or the background.
func (c *Controller) PointerDown(p Pointer) {
	if c.state == EditingText {
		if c.insideEditedText(p.Pos) {
			return
		}
		c.CommitText()
	}
	if c.state != Idle {
		return
	}

	tool := c.store.Tool()
	if tool == store.ToolHand || p.Button == ButtonMiddle || (p.Button == ButtonLeft && p.Mods.Alt) {
		c.last = p.Pos
		c.transition(PanningCanvas)
		return
	}
	if p.Button != ButtonLeft || tool != store.ToolSelect {
		return
	}

	doc := c.toDocument(p.Pos)
	if !doc.IsFinite() {
		return
	}
	if id, h, ok := c.handleAt(doc); ok {
		c.BeginResize(id, h, p.Pos)
		return
	}

	if el, ok := c.store.TopmostAt(doc); ok {
		if !c.store.IsSelected(el.ID) {
			c.store.Select(el.ID, p.Mods.Shift)
		}
		c.target = el.ID
		c.last = p.Pos
		c.transition(DraggingElement)
		return
	}

	if !p.Mods.extendsMarquee() {
		c.store.ClearSelection()
	}
	c.origin, c.current = doc, doc
	c.transition(MarqueeSelecting)
}

// BeginResize starts resizing element id from handle h. It is the entry
// point a presentation layer binds to its handle widgets; PointerDown
// calls it when the pointer lands on a handle. It reports whether a resize
// started.
func (c *Controller) BeginResize(id string, h render.Handle, screen geom.Point) bool {
	if c.state != Idle || !c.store.IsSelected(id) {
		return false
	}
	if _, ok := c.store.Element(id); !ok {
		return false
	}
	c.target = id
	c.handle = h
	c.last = screen
	c.transition(ResizingElement)
	return true
}

// handleAt finds the topmost selected element with a handle under p.
func (c *Controller) handleAt(p geom.Point) (string, render.Handle, bool) {
	els := c.store.Elements()
	for i := len(els) - 1; i >= 0; i-- {
		if !c.store.IsSelected(els[i].ID) {
			continue
		}
		if h, ok := render.HandleAt(els[i], p); ok {
			return els[i].ID, h, true
		}
	}
	return "", "", false
}

// PointerMove advances the current gesture. Drag and resize apply the
// displacement since the previous event to the element's latest state.
func (c *Controller) PointerMove(p Pointer) {
	switch c.state {
	case PanningCanvas:
		c.store.PanBy(p.Pos.Sub(c.last))
		c.last = p.Pos

	case MarqueeSelecting:
		c.moveMarquee(p.Pos)

	case DraggingElement:
		d := c.store.Viewport().ScreenDeltaToDocument(p.Pos.Sub(c.last))
		c.last = p.Pos
		el, ok := c.store.Element(c.target)
		if !ok {
			return
		}
		c.store.Update(el.ID, document.Patch{
			X: document.Ptr(el.X + d.X),
			Y: document.Ptr(el.Y + d.Y),
		})

	case ResizingElement:
		d := c.store.Viewport().ScreenDeltaToDocument(p.Pos.Sub(c.last))
		c.last = p.Pos
		el, ok := c.store.Element(c.target)
		if !ok {
			return
		}
		minW, minH := document.MinSize(el.Kind())
		r := Resize(el.Bounds(), c.handle, d, minW, minH)
		c.store.Update(el.ID, document.Patch{
			X:      document.Ptr(r.X),
			Y:      document.Ptr(r.Y),
			Width:  document.Ptr(r.Width),
			Height: document.Ptr(r.Height),
		})
	}
}

// PointerUp ends the current gesture. A marquee selects every element it
// fully contains, adding to whatever is already selected.
func (c *Controller) PointerUp(p Pointer) {
	if c.state == MarqueeSelecting {
		c.moveMarquee(p.Pos)
	}
	c.endGesture()
}

// moveMarquee sets the marquee's moving corner; a point that overflows
// document space leaves it where it was.
func (c *Controller) moveMarquee(screen geom.Point) {
	if doc := c.toDocument(screen); doc.IsFinite() {
		c.current = doc
	}
}

// PointerLeave ends the current gesture as if the pointer were released
// where it was last seen.
func (c *Controller) PointerLeave() {
	c.endGesture()
}

func (c *Controller) endGesture() {
	switch c.state {
	case MarqueeSelecting:
		ids := c.store.ContainedIn(geom.RectFromPoints(c.origin, c.current))
		for _, id := range ids {
			c.store.AddToSelection(id)
		}
		slog.Debug("marquee selection", "contained", len(ids))
		c.transition(Idle)
	case PanningCanvas, DraggingElement, ResizingElement:
		c.transition(Idle)
	}
}

// DoubleClick on a text element with the select tool opens it for editing.
func (c *Controller) DoubleClick(p Pointer) {
	if c.state != Idle || c.store.Tool() != store.ToolSelect {
		return
	}
	el, ok := c.store.TopmostAt(c.toDocument(p.Pos))
	if !ok {
		return
	}
	text, ok := el.Body.(document.Text)
	if !ok {
		return
	}
	c.target = el.ID
	c.draft = text.Content
	c.transition(EditingText)
}

func (c *Controller) insideEditedText(screen geom.Point) bool {
	el, ok := c.store.Element(c.target)
	return ok && el.Bounds().Contains(c.toDocument(screen))
}

// --- Text editing ---

// EditText replaces the draft of the text being edited.
func (c *Controller) EditText(content string) {
	if c.state == EditingText {
		c.draft = content
	}
}

// CommitText writes the draft back to the element and leaves editing.
func (c *Controller) CommitText() {
	if c.state != EditingText {
		return
	}
	c.store.Update(c.target, document.Patch{Content: document.Ptr(c.draft)})
	c.transition(Idle)
}

// Blur is sent when the text editor loses focus; it commits.
func (c *Controller) Blur() {
	c.CommitText()
}

// EditingID returns the id of the text element being edited.
func (c *Controller) EditingID() string {
	if c.state != EditingText {
		return ""
	}
	return c.target
}

func (c *Controller) Draft() string {
	return c.draft
}

// --- Keyboard ---

// KeyDown handles the global bindings and reports whether the key was
// consumed. While text is being edited only Enter (commit) is handled.
func (c *Controller) KeyDown(k Key) bool {
	if c.state == EditingText {
		if k.Key == "Enter" && !k.Mods.Shift {
			c.CommitText()
			return true
		}
		return false
	}

	switch {
	case k.Key == "Delete" || k.Key == "Backspace":
		if len(c.store.SelectedIDs()) == 0 {
			return false
		}
		c.store.DeleteSelected()
		return true

	case k.Code == "Space":
		if k.Repeat || c.previousTool != "" || c.store.Tool() == store.ToolHand {
			return true
		}
		c.previousTool = c.store.Tool()
		c.store.SetTool(store.ToolHand)
		return true

	case k.Mods.command() && (k.Key == "a" || k.Key == "A"):
		c.store.SelectAll()
		return true

	case k.Mods.command() && (k.Key == "=" || k.Key == "+"):
		c.store.ZoomIn()
		return true

	case k.Mods.command() && k.Key == "-":
		c.store.ZoomOut()
		return true

	case k.Mods.command() && k.Key == "0":
		c.store.ResetView()
		return true
	}
	return false
}

// KeyUp restores the tool saved when Space was pressed.
func (c *Controller) KeyUp(k Key) bool {
	if k.Code != "Space" || c.previousTool == "" {
		return false
	}
	c.store.SetTool(c.previousTool)
	c.previousTool = ""
	return true
}

// PreviousTool returns the tool a held Space will restore.
func (c *Controller) PreviousTool() (store.Tool, bool) {
	return c.previousTool, c.previousTool != ""
}

// --- Wheel and zoom ---

// Wheel zooms one step per event with Ctrl or Meta held and pans otherwise.
func (c *Controller) Wheel(w Wheel) {
	if w.Mods.command() {
		if w.Delta.Y > 0 {
			c.store.ZoomBy(-geom.ZoomStep)
		} else {
			c.store.ZoomBy(geom.ZoomStep)
		}
		return
	}
	c.store.PanBy(geom.Point{X: -w.Delta.X, Y: -w.Delta.Y})
}

func (c *Controller) ZoomIn()    { c.store.ZoomIn() }
func (c *Controller) ZoomOut()   { c.store.ZoomOut() }
func (c *Controller) ResetView() { c.store.ResetView() }

// --- Tools ---

// SetTool switches between the select and hand modes. Add tools are
// actions, not modes, and are rejected here.
func (c *Controller) SetTool(t store.Tool) bool {
	if t != store.ToolSelect && t != store.ToolHand {
		return false
	}
	c.store.SetTool(t)
	return true
}

func (c *Controller) AddShape(kind document.ShapeKind) document.Element {
	return c.store.Add(document.KindShape, document.Patch{ShapeKind: document.Ptr(kind)})
}

func (c *Controller) AddText() document.Element {
	return c.store.Add(document.KindText, document.Patch{})
}

// AddImage adds an image element for src. Non-positive sizes keep the defaults.
func (c *Controller) AddImage(src string, width, height float64) document.Element {
	p := document.Patch{Src: document.Ptr(src)}
	if width > 0 && height > 0 {
		p.Width = document.Ptr(width)
		p.Height = document.Ptr(height)
	}
	return c.store.Add(document.KindImage, p)
}

// --- Presentation ---

// Cursor is the pointer cursor for the current state.
func (c *Controller) Cursor() string {
	switch c.state {
	case PanningCanvas:
		return "grabbing"
	case MarqueeSelecting:
		return "crosshair"
	case DraggingElement:
		return "move"
	case ResizingElement:
		return c.handle.Cursor()
	case EditingText:
		return "text"
	}
	if c.store.Tool() == store.ToolHand {
		return "grab"
	}
	return "default"
}

// Marquee returns the normalized marquee rectangle while one is being drawn.
func (c *Controller) Marquee() (geom.Rect, bool) {
	if c.state != MarqueeSelecting {
		return geom.Rect{}, false
	}
	return geom.RectFromPoints(c.origin, c.current), true
}

// Overlay collects the transient state the renderer paints above elements.
func (c *Controller) Overlay() render.Overlay {
	ov := render.Overlay{EditingID: c.EditingID()}
	if m, ok := c.Marquee(); ok {
		ov.Marquee = &m
	}
	return ov
}
