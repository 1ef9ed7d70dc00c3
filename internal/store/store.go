package store

import (
	"log/slog"
	"slices"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/typeid"
)

// Store is the single source of truth for one board: the ordered element
// list, the selection, the active toolbar kind, the current tool and the
// viewport. Elements are created only by Add, changed only by Update and
// removed only by DeleteSelected.
//
// A Store is not safe for concurrent use; each board is driven by one
// event loop.
type Store struct {
	elements []document.Element // z-order, later is on top
	selected []string           // selection order
	toolbar  document.Kind      // "" when no contextual toolbar is shown
	tool     Tool
	viewport geom.Viewport
	revision uint64
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the element id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates an empty store with the select tool active.
func New(opts ...Option) *Store {
	s := &Store{
		tool:     ToolSelect,
		viewport: geom.NewViewport(),
		newID:    typeid.NewElementID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) touch() {
	s.revision++
}

// Revision increases on every mutation.
func (s *Store) Revision() uint64 {
	return s.revision
}

// --- Elements ---

// Add merges p over the defaults for kind, assigns a fresh id and appends
// the element on top of the stack.
func (s *Store) Add(kind document.Kind, p document.Patch) document.Element {
	el := document.New(s.newID(), kind, p)
	s.elements = append(s.elements, el)
	s.touch()
	slog.Debug("element added", "id", el.ID, "kind", kind)
	return el
}

// Update shallow-merges p into the element with the given id. An unknown
// id is ignored: an update may race with the delete of its target.
func (s *Store) Update(id string, p document.Patch) {
	i := s.indexOf(id)
	if i < 0 {
		slog.Debug("update of missing element ignored", "id", id)
		return
	}
	s.elements[i] = s.elements[i].Apply(p)
	s.touch()
}

// DeleteSelected removes every selected element and clears the selection
// and the active toolbar.
func (s *Store) DeleteSelected() {
	if len(s.selected) == 0 {
		return
	}
	s.elements = slices.DeleteFunc(s.elements, func(el document.Element) bool {
		return slices.Contains(s.selected, el.ID)
	})
	slog.Debug("elements deleted", "count", len(s.selected))
	s.selected = nil
	s.toolbar = ""
	s.touch()
}

// Elements returns a copy of the elements in z-order.
func (s *Store) Elements() []document.Element {
	return slices.Clone(s.elements)
}

// Element returns the element with the given id.
func (s *Store) Element(id string) (document.Element, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return document.Element{}, false
	}
	return s.elements[i], true
}

// Len returns the number of elements on the board.
func (s *Store) Len() int {
	return len(s.elements)
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.elements, func(el document.Element) bool {
		return el.ID == id
	})
}

// TopmostAt returns the frontmost element whose bounds contain p.
func (s *Store) TopmostAt(p geom.Point) (document.Element, bool) {
	for i := len(s.elements) - 1; i >= 0; i-- {
		if s.elements[i].Bounds().Contains(p) {
			return s.elements[i], true
		}
	}
	return document.Element{}, false
}

// ContainedIn returns the ids of every element lying entirely within r,
// in z-order. r is normalized first.
func (s *Store) ContainedIn(r geom.Rect) []string {
	r = r.Normalize()
	var ids []string
	for _, el := range s.elements {
		if r.ContainsRect(el.Bounds()) {
			ids = append(ids, el.ID)
		}
	}
	return ids
}

// --- Selection ---

// Select replaces the selection with id, or toggles id when additive is
// set. A non-additive select shows the toolbar for id's kind; an additive
// one leaves the toolbar alone unless the selection becomes empty.
func (s *Store) Select(id string, additive bool) {
	el, ok := s.Element(id)
	if !ok {
		return
	}
	if !additive {
		s.selected = []string{id}
		s.toolbar = el.Kind()
		s.touch()
		return
	}
	if i := slices.Index(s.selected, id); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
	} else {
		s.selected = append(s.selected, id)
	}
	if len(s.selected) == 0 {
		s.toolbar = ""
	}
	s.touch()
}

// AddToSelection adds id to the selection if it is not already there.
// Unlike an additive Select it never removes anything.
func (s *Store) AddToSelection(id string) {
	if s.IsSelected(id) || s.indexOf(id) < 0 {
		return
	}
	s.selected = append(s.selected, id)
	s.touch()
}

// SelectAll selects every element in z-order.
func (s *Store) SelectAll() {
	if len(s.elements) == 0 {
		s.ClearSelection()
		return
	}
	s.selected = make([]string, 0, len(s.elements))
	for _, el := range s.elements {
		s.selected = append(s.selected, el.ID)
	}
	if len(s.selected) == 1 {
		s.toolbar = s.elements[0].Kind()
	}
	s.touch()
}

// ClearSelection empties the selection and hides the toolbar.
func (s *Store) ClearSelection() {
	if len(s.selected) == 0 && s.toolbar == "" {
		return
	}
	s.selected = nil
	s.toolbar = ""
	s.touch()
}

func (s *Store) IsSelected(id string) bool {
	return slices.Contains(s.selected, id)
}

// SelectedIDs returns a copy of the selection in selection order.
func (s *Store) SelectedIDs() []string {
	return slices.Clone(s.selected)
}

// SelectionBounds returns the document-space box around every selected
// element.
func (s *Store) SelectionBounds() (geom.Rect, bool) {
	var box geom.Rect
	for _, id := range s.selected {
		if el, ok := s.Element(id); ok {
			box = box.Union(el.Bounds())
		}
	}
	return box, !box.IsEmpty()
}

// ActiveToolbar returns the kind whose property toolbar is shown.
func (s *Store) ActiveToolbar() (document.Kind, bool) {
	return s.toolbar, s.toolbar != ""
}

// --- Tool ---

func (s *Store) Tool() Tool {
	return s.tool
}

func (s *Store) SetTool(t Tool) {
	if s.tool == t {
		return
	}
	s.tool = t
	s.touch()
}

// --- Viewport ---

func (s *Store) Viewport() geom.Viewport {
	return s.viewport
}

func (s *Store) ZoomIn()  { s.setViewport(s.viewport.ZoomIn()) }
func (s *Store) ZoomOut() { s.setViewport(s.viewport.ZoomOut()) }

// ZoomBy adds delta to the zoom factor, clamped to the allowed range.
func (s *Store) ZoomBy(delta float64) {
	s.setViewport(s.viewport.WithZoom(s.viewport.Zoom + delta))
}

func (s *Store) PanBy(d geom.Point) { s.setViewport(s.viewport.PanBy(d)) }
func (s *Store) ResetView()         { s.setViewport(s.viewport.Reset()) }

func (s *Store) setViewport(v geom.Viewport) {
	if v == s.viewport {
		return
	}
	s.viewport = v
	s.touch()
}
