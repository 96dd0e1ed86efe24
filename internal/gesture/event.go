package gesture

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the variant carried by an Event.
type Kind string

const (
	// KindCursorMove is emitted for every frame with a hand in view.
	KindCursorMove Kind = "cursor_move"
	// KindClick is a pinch that passed the click refractory gate.
	KindClick Kind = "click"
	// KindSwipe is a fast, straight horizontal stroke.
	KindSwipe Kind = "swipe"
	// KindRotate is a sustained circular motion of the fingertip.
	KindRotate Kind = "rotate"
	// KindPoseChanged reports a new open or closed fist.
	KindPoseChanged Kind = "pose_changed"
)

// Direction is the sense of a swipe or rotation.
type Direction string

const (
	DirectionLeft  Direction = "LEFT"
	DirectionRight Direction = "RIGHT"
	DirectionCW    Direction = "CW"
	DirectionCCW   Direction = "CCW"
)

// Pose is a static hand shape.
type Pose string

const (
	PoseNone       Pose = "NONE"
	PoseFistOpen   Pose = "FIST_OPEN"
	PoseFistClosed Pose = "FIST_CLOSED"
)

// Event is one classification result. Only the fields relevant to Kind are
// set: X, Y and Pinching for cursor moves, X and Y for clicks, Direction
// for swipes and rotations, Pose for pose changes. The JSON form carries
// only those fields.
type Event struct {
	Kind      Kind      `json:"kind"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Pinching  bool      `json:"pinching"`
	Direction Direction `json:"direction,omitempty"`
	Pose      Pose      `json:"pose,omitempty"`
}

// CursorMove builds a cursor event at the mirrored fingertip position.
func CursorMove(x, y float64, pinching bool) Event {
	return Event{Kind: KindCursorMove, X: x, Y: y, Pinching: pinching}
}

// Click builds a click event at the cursor position.
func Click(x, y float64) Event {
	return Event{Kind: KindClick, X: x, Y: y}
}

// Swipe builds a swipe event.
func Swipe(dir Direction) Event {
	return Event{Kind: KindSwipe, Direction: dir}
}

// Rotate builds a rotation event.
func Rotate(dir Direction) Event {
	return Event{Kind: KindRotate, Direction: dir}
}

// PoseChanged builds a pose change event.
func PoseChanged(p Pose) Event {
	return Event{Kind: KindPoseChanged, Pose: p}
}

// MarshalJSON writes the position only for cursor moves and clicks, and
// the pinch flag only for cursor moves.
func (e Event) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind      Kind      `json:"kind"`
		X         *float64  `json:"x,omitempty"`
		Y         *float64  `json:"y,omitempty"`
		Pinching  *bool     `json:"pinching,omitempty"`
		Direction Direction `json:"direction,omitempty"`
		Pose      Pose      `json:"pose,omitempty"`
	}
	w := wire{Kind: e.Kind, Direction: e.Direction, Pose: e.Pose}
	switch e.Kind {
	case KindCursorMove:
		w.Pinching = &e.Pinching
		fallthrough
	case KindClick:
		w.X, w.Y = &e.X, &e.Y
	}
	return json.Marshal(w)
}

// Name returns the gesture name shown to users and used as the key for
// action bindings, e.g. SWIPE_LEFT, ROTATE_CW, FIST_CLOSED.
func (e Event) Name() string {
	switch e.Kind {
	case KindCursorMove:
		return "CURSOR"
	case KindClick:
		return "CLICK"
	case KindSwipe:
		return "SWIPE_" + string(e.Direction)
	case KindRotate:
		return "ROTATE_" + string(e.Direction)
	case KindPoseChanged:
		return string(e.Pose)
	default:
		return string(e.Kind)
	}
}

// Discrete reports whether the event is a one-shot gesture rather than the
// per-frame cursor stream.
func (e Event) Discrete() bool {
	return e.Kind != KindCursorMove
}

func (e Event) String() string {
	switch e.Kind {
	case KindCursorMove:
		return fmt.Sprintf("CURSOR(%.3f, %.3f pinching=%t)", e.X, e.Y, e.Pinching)
	case KindClick:
		return fmt.Sprintf("CLICK(%.3f, %.3f)", e.X, e.Y)
	default:
		return e.Name()
	}
}

// Names lists every discrete gesture name the engine can emit.
func Names() []string {
	return []string{
		Click(0, 0).Name(),
		Swipe(DirectionLeft).Name(),
		Swipe(DirectionRight).Name(),
		Rotate(DirectionCW).Name(),
		Rotate(DirectionCCW).Name(),
		PoseChanged(PoseFistOpen).Name(),
		PoseChanged(PoseFistClosed).Name(),
	}
}

// ValidName reports whether name is a discrete gesture name.
func ValidName(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}
