package carousel

// Direction is the navigation a gesture maps to.
type Direction int

const (
	None Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "none"
	}
}

// ClassifySwipe maps a horizontal drag onto a direction. A leftward drag
// longer than threshold moves forward, a rightward one moves backward, and
// anything shorter is a tap.
func ClassifySwipe(startX, endX, threshold float64) Direction {
	diff := startX - endX
	switch {
	case diff > threshold:
		return Forward
	case -diff > threshold:
		return Backward
	default:
		return None
	}
}
