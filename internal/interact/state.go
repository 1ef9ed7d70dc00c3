package interact

type State int

const (
	Idle State = iota
	PanningCanvas
	MarqueeSelecting
	DraggingElement
	ResizingElement
	EditingText
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PanningCanvas:
		return "panning"
	case MarqueeSelecting:
		return "marquee"
	case DraggingElement:
		return "dragging"
	case ResizingElement:
		return "resizing"
	case EditingText:
		return "editing"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
