// Package gesture classifies a stream of hand landmark frames into cursor,
// click, swipe, rotation and fist pose events.
package gesture

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/aero/internal/detector"
)

// Classification thresholds. Distances are in normalized image units,
// times in milliseconds.
const (
	// PinchThreshold is the thumb-to-index distance below which the hand pinches.
	PinchThreshold = 0.05
	// ClickRefractoryMs is the minimum gap between two clicks.
	ClickRefractoryMs = 500

	// MotionLookback is how many recent points the motion test spans.
	MotionLookback = 5
	// MotionThreshold is the displacement over the lookback that counts as moving.
	MotionThreshold = 0.02

	// PoseCooldownMs must elapse after any gesture before a pose is evaluated.
	PoseCooldownMs = 500
)

// ErrInvalidFrame is returned for a non-empty frame without exactly
// detector.NumLandmarks points.
var ErrInvalidFrame = errors.New("invalid landmark frame")

// never marks a timestamp that has not been set yet.
const never int64 = math.MinInt64

// Engine turns landmark frames into gesture events. It keeps the fingertip
// trajectory, the debounce timestamps and the current gesture label.
//
// An Engine is not safe for concurrent use; frames must be delivered one at
// a time by a single caller with non-decreasing timestamps.
type Engine struct {
	trajectory    Trajectory
	current       string
	lastGestureMs int64
	lastClickMs   int64
}

// NewEngine creates an Engine with an empty trajectory and no gesture history.
func NewEngine() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// Reset returns the engine to its construction state.
func (e *Engine) Reset() {
	e.trajectory.Clear()
	e.current = ""
	e.lastGestureMs = never
	e.lastClickMs = never
}

// Classify runs the full decision pipeline on one frame and returns the
// events it raised, in order. An empty frame means no hand is visible and
// is a no-op.
//
// Pipeline:
// 1. Cursor at the mirrored index tip, always emitted
// 2. Pinch (thumb to index tip) gated into at most one click per 500ms
// 3. Cursor appended to the trajectory
// 4. Moving: rotation then swipe over the trajectory
// 5. Still: static pose once the gesture cooldown has passed
func (e *Engine) Classify(frame []detector.Point3D, nowMs int64) ([]Event, error) {
	if len(frame) == 0 {
		return nil, nil
	}
	if len(frame) != detector.NumLandmarks {
		return nil, fmt.Errorf("%w: got %d landmarks, want %d", ErrInvalidFrame, len(frame), detector.NumLandmarks)
	}

	indexTip := frame[detector.IndexTip]
	thumbTip := frame[detector.ThumbTip]

	cursor := Point{X: 1 - indexTip.X, Y: indexTip.Y}
	pinching := isPinching(detector.Distance2D(indexTip, thumbTip))

	events := []Event{CursorMove(cursor.X, cursor.Y, pinching)}

	if pinching && e.allowClick(nowMs) {
		events = append(events, Click(cursor.X, cursor.Y))
	}

	e.trajectory.Push(cursor)

	if e.isMoving() {
		if ev, ok := e.detectRotation(nowMs); ok {
			events = append(events, ev)
		}
		if ev, ok := e.detectSwipe(nowMs); ok {
			events = append(events, ev)
		}
	} else if elapsed(nowMs, e.lastGestureMs) > PoseCooldownMs {
		if ev, ok := e.detectPose(frame, nowMs); ok {
			events = append(events, ev)
		}
	}

	return events, nil
}

// isMoving compares the newest point with the one MotionLookback-1 steps
// earlier. Short trajectories never count as moving.
func (e *Engine) isMoving() bool {
	n := e.trajectory.Len()
	if n <= MotionLookback {
		return false
	}
	lookback := min(n, MotionLookback)
	p1 := e.trajectory.At(n - lookback)
	p2 := e.trajectory.At(n - 1)
	return p1.Dist(p2) > MotionThreshold
}

// recognize records a classified gesture.
func (e *Engine) recognize(ev Event, nowMs int64) Event {
	e.current = ev.Name()
	e.lastGestureMs = nowMs
	return ev
}

// CurrentGesture returns the name of the last classified swipe, rotation
// or pose, or "" if none has been seen since construction or Reset.
func (e *Engine) CurrentGesture() string {
	return e.current
}

// CurrentPose returns the current pose, PoseNone when the last classified
// gesture was a motion rather than a pose.
func (e *Engine) CurrentPose() Pose {
	switch Pose(e.current) {
	case PoseFistOpen, PoseFistClosed:
		return Pose(e.current)
	default:
		return PoseNone
	}
}

// Trajectory returns a copy of the tracked points, oldest first.
func (e *Engine) Trajectory() []Point {
	return e.trajectory.Points()
}

// elapsed returns the time since ts, treating an unset ts as infinitely old.
func elapsed(nowMs, ts int64) int64 {
	if ts == never {
		return math.MaxInt64
	}
	return nowMs - ts
}
