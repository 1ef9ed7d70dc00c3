package render

import (
	"fmt"

	"github.com/inamate/whiteboard/internal/document"
)

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []any

// bezier approximation constant for quarter circles: 4 * (sqrt(2) - 1) / 3
const kappa = 0.5522847498

const cornerRadius = 10.0

// Polygon outlines as fractions of the element box, in percent.
var polygons = map[document.ShapeKind][][2]float64{
	document.ShapeTriangle: {{50, 0}, {100, 100}, {0, 100}},
	document.ShapeDiamond:  {{50, 0}, {100, 50}, {50, 100}, {0, 50}},
	document.ShapePentagon: {{50, 0}, {100, 38}, {82, 100}, {18, 100}, {0, 38}},
	document.ShapeHexagon:  {{25, 0}, {75, 0}, {100, 50}, {75, 100}, {25, 100}, {0, 50}},
	document.ShapeStar: {
		{50, 0}, {61, 35}, {98, 35}, {68, 57}, {79, 91},
		{50, 70}, {21, 91}, {32, 57}, {2, 35}, {39, 35},
	},
	document.ShapeArrow: {{0, 30}, {70, 30}, {70, 0}, {100, 50}, {70, 100}, {70, 70}, {0, 70}},
}

// Silhouette returns the outline of a shape kind sized w by h, in
// element-local coordinates with the origin at the top-left corner.
func Silhouette(kind document.ShapeKind, w, h float64) []PathCommand {
	switch kind {
	case document.ShapeRectangle:
		return rectPath(w, h)
	case document.ShapeRoundedRectangle:
		return roundedRectPath(w, h, cornerRadius)
	case document.ShapeCircle:
		d := min(w, h)
		return ellipsePath(w/2, h/2, d/2, d/2)
	case document.ShapeEllipse:
		return ellipsePath(w/2, h/2, w/2, h/2)
	case document.ShapeTriangle, document.ShapeDiamond, document.ShapePentagon,
		document.ShapeHexagon, document.ShapeStar, document.ShapeArrow:
		return polygonPath(polygons[kind], w, h)
	}
	panic(fmt.Sprintf("render: unknown shape kind %q", kind))
}

func rectPath(w, h float64) []PathCommand {
	return []PathCommand{
		{"M", 0.0, 0.0},
		{"L", w, 0.0},
		{"L", w, h},
		{"L", 0.0, h},
		{"Z"},
	}
}

func roundedRectPath(w, h, r float64) []PathCommand {
	r = min(r, w/2, h/2)
	k := r * kappa
	return []PathCommand{
		{"M", r, 0.0},
		{"L", w - r, 0.0},
		{"C", w - r + k, 0.0, w, r - k, w, r},
		{"L", w, h - r},
		{"C", w, h - r + k, w - r + k, h, w - r, h},
		{"L", r, h},
		{"C", r - k, h, 0.0, h - r + k, 0.0, h - r},
		{"L", 0.0, r},
		{"C", 0.0, r - k, r - k, 0.0, r, 0.0},
		{"Z"},
	}
}

// ellipsePath approximates an ellipse centered on (cx, cy) with four
// cubic bezier curves.
func ellipsePath(cx, cy, rx, ry float64) []PathCommand {
	kx, ky := rx*kappa, ry*kappa
	return []PathCommand{
		{"M", cx + rx, cy},
		{"C", cx + rx, cy + ky, cx + kx, cy + ry, cx, cy + ry},
		{"C", cx - kx, cy + ry, cx - rx, cy + ky, cx - rx, cy},
		{"C", cx - rx, cy - ky, cx - kx, cy - ry, cx, cy - ry},
		{"C", cx + kx, cy - ry, cx + rx, cy - ky, cx + rx, cy},
		{"Z"},
	}
}

func polygonPath(pts [][2]float64, w, h float64) []PathCommand {
	path := make([]PathCommand, 0, len(pts)+1)
	for i, p := range pts {
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, p[0] / 100 * w, p[1] / 100 * h})
	}
	return append(path, PathCommand{"Z"})
}
