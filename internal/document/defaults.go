package document

const Transparent = "transparent"

// New builds an element of kind from the kind defaults merged with p.
func New(id string, kind Kind, p Patch) Element {
	return defaults(id, kind).Apply(p)
}

func defaults(id string, kind Kind) Element {
	switch kind {
	case KindText:
		return Element{
			ID: id, X: 100, Y: 100, Width: 200, Height: 50,
			Body: Text{
				Content:         "Click to edit text",
				FontFamily:      "Arial",
				FontSize:        16,
				Color:           "#000000",
				BackgroundColor: Transparent,
			},
		}
	case KindImage:
		return Element{
			ID: id, X: 100, Y: 100, Width: 200, Height: 200,
			Body: Image{},
		}
	default:
		return Element{
			ID: id, X: 100, Y: 100, Width: 100, Height: 100,
			Body: Shape{
				ShapeKind:       ShapeRectangle,
				BackgroundColor: "#4dabf7",
				BorderWidth:     1,
				BorderColor:     "#339af0",
			},
		}
	}
}
