// Package pointer carries mouse and touch input observed anywhere in a window to the
// widgets that track it, so a gesture that leaves the widget that started it still
// reaches its owner.
package pointer

// Kind is the phase of a pointer event.
type Kind int

const (
	// Down is a primary button press or touch start.
	Down Kind = iota
	// Move is pointer or touch motion.
	Move
	// Up is a button release or touch end.
	Up
	// Cancel is a gesture aborted by the platform. Up handlers receive it.
	Cancel
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Source identifies the input modality that produced an event.
type Source int

const (
	// Mouse events carry their coordinate in Point.
	Mouse Source = iota
	// Touch events carry their coordinates in Touches.
	Touch
)

// Point is a position in window coordinates.
type Point struct {
	X, Y float32
}

// Event is a single pointer observation in window coordinates.
type Event struct {
	Kind    Kind
	Source  Source
	Point   Point   // Mouse position.
	Touches []Point // Active touch points, first one leads.
}

// MouseEvent builds a mouse event at (x, y).
func MouseEvent(kind Kind, x, y float32) Event {
	return Event{Kind: kind, Source: Mouse, Point: Point{X: x, Y: y}}
}

// TouchEvent builds a touch event from the given touch points.
func TouchEvent(kind Kind, touches ...Point) Event {
	return Event{Kind: kind, Source: Touch, Touches: touches}
}

// ClientX returns the horizontal coordinate that drives tracking. Touch events use
// their first touch point; a touch event without points has no coordinate.
func (e Event) ClientX() (float32, bool) {
	if e.Source == Touch {
		if len(e.Touches) == 0 {
			return 0, false
		}
		return e.Touches[0].X, true
	}
	return e.Point.X, true
}
