package geom

import "math"

const (
	MinZoom  = 0.1
	MaxZoom  = 3.0
	ZoomStep = 0.1
)

// Viewport maps between screen pixels and document units. Pan is the
// screen-space offset of the document origin.
type Viewport struct {
	Pan  Point   `json:"pan"`
	Zoom float64 `json:"zoom"`
}

// NewViewport returns the unpanned, unzoomed viewport.
func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

// Matrix returns the document-to-screen transform Translate(pan) * Scale(zoom).
func (v Viewport) Matrix() Matrix2D {
	return Translate(v.Pan.X, v.Pan.Y).Multiply(Scale(v.Zoom, v.Zoom))
}

// ScreenToDocument computes (screen - pan) / zoom.
func (v Viewport) ScreenToDocument(p Point) Point {
	return v.Matrix().Invert().Apply(p)
}

// DocumentToScreen computes doc * zoom + pan.
func (v Viewport) DocumentToScreen(p Point) Point {
	return v.Matrix().Apply(p)
}

// ScreenDeltaToDocument converts a pointer displacement into document units.
func (v Viewport) ScreenDeltaToDocument(d Point) Point {
	return v.Matrix().Invert().ApplyVector(d)
}

// WithZoom returns the viewport with zoom set to z after clamping.
func (v Viewport) WithZoom(z float64) Viewport {
	v.Zoom = ClampZoom(z)
	return v
}

func (v Viewport) ZoomIn() Viewport  { return v.WithZoom(v.Zoom + ZoomStep) }
func (v Viewport) ZoomOut() Viewport { return v.WithZoom(v.Zoom - ZoomStep) }

// PanBy shifts the pan offset by a screen-space displacement. A shift
// that would leave the offset non-finite is ignored.
func (v Viewport) PanBy(d Point) Viewport {
	if pan := v.Pan.Add(d); pan.IsFinite() {
		v.Pan = pan
	}
	return v
}

// Reset returns zoom 1 and pan (0, 0).
func (v Viewport) Reset() Viewport {
	return NewViewport()
}

// ClampZoom limits z to [MinZoom, MaxZoom]. The result is rounded to 1e-9
// so that repeated 0.1 steps land on the decimal value a user expects.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	z = math.Round(z*1e9) / 1e9
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
