package editor

import "github.com/aretw0/parley/pkg/domain"

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonSecondary:
		return "secondary"
	case ButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// EventKind is the phase of a pointer gesture.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerDrag
	PointerUp
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerDrag:
		return "drag"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is one pointer report from the host, in canvas coordinates.
type PointerEvent struct {
	Kind   EventKind
	Button Button
	Pos    domain.Point
}

// Down builds a pointer-down event.
func Down(b Button, x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerDown, Button: b, Pos: domain.Point{X: x, Y: y}}
}

// Drag builds a pointer-drag event.
func Drag(b Button, x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerDrag, Button: b, Pos: domain.Point{X: x, Y: y}}
}

// Up builds a pointer-up event.
func Up(b Button, x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerUp, Button: b, Pos: domain.Point{X: x, Y: y}}
}

// Mode is the interaction state of a Session.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDraggingNode
	ModeResizingNode
	ModePanningCanvas
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDraggingNode:
		return "dragging"
	case ModeResizingNode:
		return "resizing"
	case ModePanningCanvas:
		return "panning"
	default:
		return "unknown"
	}
}
