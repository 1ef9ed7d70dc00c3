package render

import (
	"testing"

	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/store"
)

func TestSilhouetteForEveryShapeKind(t *testing.T) {
	for _, k := range document.ShapeKinds() {
		path := Silhouette(k, 120, 80)
		if len(path) < 3 {
			t.Errorf("%s: path too short: %v", k, path)
			continue
		}
		if path[0][0] != "M" {
			t.Errorf("%s: path must start with a move, got %v", k, path[0])
		}
		if last := path[len(path)-1]; last[0] != "Z" {
			t.Errorf("%s: path must be closed, got %v", k, last)
		}
		for _, cmd := range path {
			for _, v := range cmd[1:] {
				f := v.(float64)
				if f < 0 || f > 120 {
					t.Errorf("%s: coordinate %v outside the element box", k, f)
				}
			}
		}
	}
}

func TestSilhouettePolygonScaling(t *testing.T) {
	path := Silhouette(document.ShapeTriangle, 200, 100)
	want := []PathCommand{{"M", 100.0, 0.0}, {"L", 200.0, 100.0}, {"L", 0.0, 100.0}, {"Z"}}
	if len(path) != len(want) {
		t.Fatalf("len = %d, want %d", len(path), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if path[i][j] != want[i][j] {
				t.Errorf("cmd %d = %v, want %v", i, path[i], want[i])
			}
		}
	}
}

func TestCircleIsInscribed(t *testing.T) {
	path := Silhouette(document.ShapeCircle, 200, 100)
	// first point is the rightmost point of the circle: center x + radius
	if x := path[0][1].(float64); x != 150 {
		t.Errorf("circle starts at x=%v, want 150", x)
	}
}

func TestRenderHandlesOnlyWhenSelected(t *testing.T) {
	el := document.New("el_1", document.KindShape, document.Patch{})
	if n := Render(el, false, false); len(n.Handles) != 0 {
		t.Errorf("unselected element has %d handles", len(n.Handles))
	}
	n := Render(el, true, false)
	if len(n.Handles) != 4 {
		t.Fatalf("selected element has %d handles, want 4", len(n.Handles))
	}
	for _, h := range n.Handles {
		c := h.Handle.Corner(el.Bounds())
		if h.Rect.Center() != c {
			t.Errorf("%s handle centered at %v, want %v", h.Handle, h.Rect.Center(), c)
		}
	}

	text := document.New("el_2", document.KindText, document.Patch{})
	if n := Render(text, true, true); len(n.Handles) != 0 || n.Cursor != "text" {
		t.Errorf("editing text: handles=%d cursor=%q", len(n.Handles), n.Cursor)
	}
}

func TestRenderTextStyle(t *testing.T) {
	el := document.New("el", document.KindText, document.Patch{
		Bold: document.Ptr(true), Underline: document.Ptr(true), Strikethrough: document.Ptr(true),
	})
	n := Render(el, false, false)
	if n.Style.FontWeight != "bold" || n.Style.FontStyle != "normal" {
		t.Errorf("unexpected font style: %+v", n.Style)
	}
	if n.Style.TextDecoration != "underline line-through" {
		t.Errorf("decoration = %q", n.Style.TextDecoration)
	}
	if n.Style.Fill != "" {
		t.Errorf("transparent background should not fill, got %q", n.Style.Fill)
	}
}

func TestHandleAt(t *testing.T) {
	el := document.New("el", document.KindShape, document.Patch{
		X: document.Ptr(0.0), Y: document.Ptr(0.0), Width: document.Ptr(100.0), Height: document.Ptr(50.0),
	})
	tests := []struct {
		p    geom.Point
		want Handle
		ok   bool
	}{
		{geom.Point{X: 1, Y: -2}, TopLeft, true},
		{geom.Point{X: 103, Y: 3}, TopRight, true},
		{geom.Point{X: -4, Y: 54}, BottomLeft, true},
		{geom.Point{X: 100, Y: 50}, BottomRight, true},
		{geom.Point{X: 50, Y: 25}, "", false},
	}
	for _, tt := range tests {
		got, ok := HandleAt(el, tt.p)
		if got != tt.want || ok != tt.ok {
			t.Errorf("HandleAt(%v) = %q, %v; want %q, %v", tt.p, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCompilePainterOrder(t *testing.T) {
	s := store.New()
	shape := s.Add(document.KindShape, document.Patch{})
	text := s.Add(document.KindText, document.Patch{})
	img := s.Add(document.KindImage, document.Patch{Src: document.Ptr("data:image/png;base64,AA==")})
	s.Select(shape.ID, false)

	marquee := geom.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	cmds := NewRenderer(s).Compile(Overlay{Marquee: &marquee})

	wantOps := []string{"path", "text", "image", "outline", "handle", "handle", "handle", "handle", "marquee"}
	if len(cmds) != len(wantOps) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(wantOps))
	}
	for i, op := range wantOps {
		if cmds[i].Op != op {
			t.Errorf("command %d op = %q, want %q", i, cmds[i].Op, op)
		}
	}
	if cmds[1].ObjectID != text.ID || cmds[2].Src == "" || cmds[2].ObjectID != img.ID {
		t.Errorf("unexpected body commands: %+v %+v", cmds[1], cmds[2])
	}
}

func TestCompileAppliesViewport(t *testing.T) {
	s := store.New()
	s.Add(document.KindShape, document.Patch{X: document.Ptr(10.0), Y: document.Ptr(20.0)})
	s.PanBy(geom.Point{X: 5, Y: 5})
	s.ZoomIn()

	cmds := NewRenderer(s).Compile(Overlay{})
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	m := cmds[0].Transform
	// 1.1 zoom, pan (5,5): origin of the element lands at 5 + 10*1.1, 5 + 20*1.1
	want := []float64{1.1, 0, 0, 1.1, 16, 27}
	for i := range want {
		if d := m[i] - want[i]; d > 1e-9 || d < -1e-9 {
			t.Errorf("transform = %v, want %v", m, want)
			break
		}
	}
}

func TestCompileDropsOverflowingCommands(t *testing.T) {
	s := store.New()
	far := s.Add(document.KindShape, document.Patch{X: document.Ptr(1e308)})
	near := s.Add(document.KindShape, document.Patch{})
	s.SelectAll()
	s.ZoomBy(2) // 1e308 * 3 overflows

	cmds := NewRenderer(s).Compile(Overlay{})
	for _, c := range cmds {
		if c.ObjectID == far.ID {
			t.Fatalf("overflowing %s command kept: %+v", c.Op, c)
		}
	}
	// near: body, outline and four handles
	if len(cmds) != 6 || cmds[0].ObjectID != near.ID {
		t.Errorf("got %d commands, want 6 for %s", len(cmds), near.ID)
	}
	if _, err := DrawCommandsToJSON(cmds); err != nil {
		t.Errorf("DrawCommandsToJSON: %v", err)
	}
}

func TestSilhouettePanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Silhouette accepted an unknown shape kind")
		}
	}()
	Silhouette(document.ShapeKind("blob"), 10, 10)
}

func TestDrawCommandsToJSON(t *testing.T) {
	out, err := DrawCommandsToJSON(nil)
	if err != nil || out != "null" {
		t.Errorf("DrawCommandsToJSON(nil) = %q, %v", out, err)
	}
}
