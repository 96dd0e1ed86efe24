package gesture

import "math"

const (
	// SwipeMinPoints is the shortest trajectory a swipe is looked for in.
	SwipeMinPoints = 5
	// SwipeCooldownMs must elapse after any gesture before a swipe.
	SwipeCooldownMs = 500
	// SwipeMinLinearity is the straightness a stroke must exceed.
	SwipeMinLinearity = 0.8
	// SwipeMinDistance is the end-to-end travel a stroke must exceed.
	SwipeMinDistance = 0.1
)

// detectSwipe classifies the whole trajectory as a horizontal swipe when it
// is long and nearly straight. Vertical-dominant strokes are not swipes.
func (e *Engine) detectSwipe(nowMs int64) (Event, bool) {
	t := &e.trajectory
	if t.Len() < SwipeMinPoints {
		return Event{}, false
	}
	if elapsed(nowMs, e.lastGestureMs) < SwipeCooldownMs {
		return Event{}, false
	}

	start, end := t.First(), t.Last()
	dx := end.X - start.X
	dy := end.Y - start.Y
	dist := math.Hypot(dx, dy)

	var linearity float64
	if arc := t.ArcLength(); arc > 0 {
		linearity = dist / arc
	}

	if linearity <= SwipeMinLinearity || dist <= SwipeMinDistance {
		return Event{}, false
	}
	if math.Abs(dx) <= math.Abs(dy) {
		return Event{}, false
	}

	dir := DirectionLeft
	if dx > 0 {
		dir = DirectionRight
	}

	ev := e.recognize(Swipe(dir), nowMs)
	t.Clear()
	return ev, true
}
