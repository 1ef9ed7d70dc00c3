package document

import (
	"encoding/json"

	"github.com/inamate/whiteboard/internal/geom"
)

// Kind is the closed set of element variants.
type Kind string

const (
	KindShape Kind = "shape"
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// ParseKind reports whether s names an element kind.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindShape, KindText, KindImage:
		return k, true
	}
	return "", false
}

type ShapeKind string

const (
	ShapeRectangle        ShapeKind = "rectangle"
	ShapeRoundedRectangle ShapeKind = "roundedRectangle"
	ShapeCircle           ShapeKind = "circle"
	ShapeEllipse          ShapeKind = "ellipse"
	ShapeTriangle         ShapeKind = "triangle"
	ShapeDiamond          ShapeKind = "diamond"
	ShapePentagon         ShapeKind = "pentagon"
	ShapeHexagon          ShapeKind = "hexagon"
	ShapeStar             ShapeKind = "star"
	ShapeArrow            ShapeKind = "arrow"
)

var shapeKinds = []ShapeKind{
	ShapeRectangle, ShapeRoundedRectangle, ShapeCircle, ShapeEllipse, ShapeTriangle,
	ShapeDiamond, ShapePentagon, ShapeHexagon, ShapeStar, ShapeArrow,
}

// ShapeKinds returns every shape kind in toolbar order.
func ShapeKinds() []ShapeKind {
	return append([]ShapeKind(nil), shapeKinds...)
}

func ParseShapeKind(s string) (ShapeKind, bool) {
	for _, k := range shapeKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Body holds the kind-specific attributes of an element. The set of
// implementations is closed: Shape, Text and Image.
type Body interface {
	Kind() Kind
	apply(p Patch) Body
}

type Shape struct {
	ShapeKind       ShapeKind `json:"shapeType"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderWidth     float64   `json:"borderWidth"`
	BorderColor     string    `json:"borderColor"`
}

type Text struct {
	Content         string  `json:"content"`
	FontFamily      string  `json:"fontFamily"`
	FontSize        float64 `json:"fontSize"`
	Color           string  `json:"color"`
	BackgroundColor string  `json:"backgroundColor"`
	Bold            bool    `json:"bold"`
	Italic          bool    `json:"italic"`
	Underline       bool    `json:"underline"`
	Strikethrough   bool    `json:"strikethrough"`
}

type Image struct {
	Src string `json:"src"`
}

func (Shape) Kind() Kind { return KindShape }
func (Text) Kind() Kind  { return KindText }
func (Image) Kind() Kind { return KindImage }

// Element is a positioned item on the board. Elements are values; the
// store hands out copies and accepts changes only through Patch.
type Element struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Body   Body
}

func (e Element) Kind() Kind {
	return e.Body.Kind()
}

// Bounds returns the element's rectangle in document space.
func (e Element) Bounds() geom.Rect {
	return geom.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// MarshalJSON flattens the body into the element object, tagged by "type".
func (e Element) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any)
	if e.Body != nil {
		body, err := json.Marshal(e.Body)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, err
		}
		fields["type"] = e.Body.Kind()
	}
	fields["id"] = e.ID
	fields["x"] = e.X
	fields["y"] = e.Y
	fields["width"] = e.Width
	fields["height"] = e.Height
	return json.Marshal(fields)
}
