package document

// Seed describes an element to add to a fresh board.
type Seed struct {
	Kind  Kind
	Patch Patch
}

// SampleBoard returns a small board showing every element kind.
func SampleBoard() []Seed {
	seeds := []Seed{
		{
			Kind: KindText,
			Patch: Patch{
				X: Ptr(40.0), Y: Ptr(30.0), Width: Ptr(360.0), Height: Ptr(50.0),
				Content:  Ptr("Whiteboard"),
				FontSize: Ptr(32.0),
				Bold:     Ptr(true),
			},
		},
	}

	// One of each shape, laid out in two rows of five.
	for i, k := range ShapeKinds() {
		x := 40 + float64(i%5)*140
		y := 120 + float64(i/5)*140
		seeds = append(seeds, Seed{
			Kind: KindShape,
			Patch: Patch{
				X: Ptr(x), Y: Ptr(y), Width: Ptr(100.0), Height: Ptr(100.0),
				ShapeKind: Ptr(k),
			},
		})
	}

	seeds = append(seeds, Seed{
		Kind: KindText,
		Patch: Patch{
			X: Ptr(40.0), Y: Ptr(420.0), Width: Ptr(420.0), Height: Ptr(40.0),
			Content: Ptr("Double-click a text box to edit it"),
			Italic:  Ptr(true),
			Color:   Ptr("#495057"),
		},
	})
	return seeds
}
