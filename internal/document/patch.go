package document

import (
	"fmt"
	"math"

	"github.com/inamate/whiteboard/internal/geom"
)

const (
	MinFontSize = 8
	MaxFontSize = 72
)

// Patch is a partial attribute set. Nil fields are left untouched and
// fields that do not belong to the element's kind are ignored.
type Patch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	// Shape and text
	BackgroundColor *string `json:"backgroundColor,omitempty"`

	// Shape
	ShapeKind   *ShapeKind `json:"shapeType,omitempty"`
	BorderWidth *float64   `json:"borderWidth,omitempty"`
	BorderColor *string    `json:"borderColor,omitempty"`

	// Text
	Content       *string  `json:"content,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	FontSize      *float64 `json:"fontSize,omitempty"`
	Color         *string  `json:"color,omitempty"`
	Bold          *bool    `json:"bold,omitempty"`
	Italic        *bool    `json:"italic,omitempty"`
	Underline     *bool    `json:"underline,omitempty"`
	Strikethrough *bool    `json:"strikethrough,omitempty"`

	// Image
	Src *string `json:"src,omitempty"`
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// MinSize returns the smallest width and height an element of kind may have.
func MinSize(kind Kind) (width, height float64) {
	switch kind {
	case KindText:
		return 50, 20
	case KindShape, KindImage:
		return 20, 20
	}
	panic(fmt.Sprintf("document: unknown element kind %q", kind))
}

// Apply shallow-merges p into a copy of e and then enforces the kind's
// size floor and value ranges. The id is never changed, and geometry
// values that are NaN or infinite are ignored.
func (e Element) Apply(p Patch) Element {
	setFinite(&e.X, p.X)
	setFinite(&e.Y, p.Y)
	setFinite(&e.Width, p.Width)
	setFinite(&e.Height, p.Height)
	if e.Body != nil {
		e.Body = e.Body.apply(p)
	}
	return e.clamp()
}

func setFinite(dst, v *float64) {
	if v != nil && geom.Finite(*v) {
		*dst = *v
	}
}

func (e Element) clamp() Element {
	if e.Body == nil {
		return e
	}
	minW, minH := MinSize(e.Kind())
	if math.IsNaN(e.Width) || e.Width < minW {
		e.Width = minW
	}
	if math.IsNaN(e.Height) || e.Height < minH {
		e.Height = minH
	}
	return e
}

func (s Shape) apply(p Patch) Body {
	if p.ShapeKind != nil {
		if k, ok := ParseShapeKind(string(*p.ShapeKind)); ok {
			s.ShapeKind = k
		}
	}
	if p.BackgroundColor != nil {
		s.BackgroundColor = *p.BackgroundColor
	}
	if p.BorderWidth != nil && geom.Finite(*p.BorderWidth) {
		s.BorderWidth = math.Max(0, *p.BorderWidth)
	}
	if p.BorderColor != nil {
		s.BorderColor = *p.BorderColor
	}
	return s
}

func (t Text) apply(p Patch) Body {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil && !math.IsNaN(*p.FontSize) {
		t.FontSize = math.Max(MinFontSize, math.Min(MaxFontSize, *p.FontSize))
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.BackgroundColor != nil {
		t.BackgroundColor = *p.BackgroundColor
	}
	if p.Bold != nil {
		t.Bold = *p.Bold
	}
	if p.Italic != nil {
		t.Italic = *p.Italic
	}
	if p.Underline != nil {
		t.Underline = *p.Underline
	}
	if p.Strikethrough != nil {
		t.Strikethrough = *p.Strikethrough
	}
	return t
}

func (i Image) apply(p Patch) Body {
	if p.Src != nil {
		i.Src = *p.Src
	}
	return i
}
