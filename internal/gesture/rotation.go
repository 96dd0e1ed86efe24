package gesture

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// RotationMinPoints is the shortest trajectory a rotation is looked for in.
	RotationMinPoints = 20
	// RotationCooldownMs must elapse after any gesture before a rotation.
	RotationCooldownMs = 300
	// RotationMaxLinearity is the straightness a circular path stays under.
	RotationMaxLinearity = 0.5
	// RotationMinRadius keeps jitter around a point from reading as an orbit.
	RotationMinRadius = 0.04
	// RotationMaxRadiusStdDev keeps spirals and scribbles out.
	RotationMaxRadiusStdDev = 0.05
	// RotationMinAngle is the swept angle, in radians, that completes a rotation.
	RotationMinAngle = 4.0
)

// orbit summarises the trajectory's shape around its centroid.
type orbit struct {
	linearity    float64
	avgRadius    float64
	stdDevRadius float64
	totalAngle   float64
}

func (o orbit) circular() bool {
	return o.linearity < RotationMaxLinearity &&
		o.avgRadius > RotationMinRadius &&
		o.stdDevRadius < RotationMaxRadiusStdDev
}

// measureOrbit computes centroid-relative statistics for the trajectory.
// The swept angle is the signed sum of per-step angle changes, each taken
// the short way round, so it keeps growing past a full turn.
func measureOrbit(t *Trajectory) orbit {
	n := t.Len()
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		p := t.At(i)
		xs[i], ys[i] = p.X, p.Y
	}
	centroid := Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}

	o := orbit{linearity: 1.0}
	if arc := t.ArcLength(); arc > 0 {
		o.linearity = t.First().Dist(t.Last()) / arc
	}

	radii := make([]float64, n)
	for i := 0; i < n; i++ {
		radii[i] = centroid.Dist(t.At(i))
	}
	o.avgRadius, o.stdDevRadius = stat.PopMeanStdDev(radii, nil)

	prev := math.Atan2(ys[0]-centroid.Y, xs[0]-centroid.X)
	for i := 1; i < n; i++ {
		angle := math.Atan2(ys[i]-centroid.Y, xs[i]-centroid.X)
		o.totalAngle += normalizeAngle(angle - prev)
		prev = angle
	}

	return o
}

// normalizeAngle maps a difference of two atan2 results into (-π, π].
func normalizeAngle(delta float64) float64 {
	if delta > math.Pi {
		delta -= 2 * math.Pi
	}
	if delta <= -math.Pi {
		delta += 2 * math.Pi
	}
	return delta
}

// detectRotation looks for a roughly circular trajectory that has swept
// more than RotationMinAngle. A circular path that has not swept far enough
// yet is left in place to keep accumulating.
func (e *Engine) detectRotation(nowMs int64) (Event, bool) {
	t := &e.trajectory
	if t.Len() < RotationMinPoints {
		return Event{}, false
	}
	if elapsed(nowMs, e.lastGestureMs) < RotationCooldownMs {
		return Event{}, false
	}

	o := measureOrbit(t)
	if !o.circular() {
		return Event{}, false
	}

	var dir Direction
	switch {
	case o.totalAngle > RotationMinAngle:
		dir = DirectionCW
	case o.totalAngle < -RotationMinAngle:
		dir = DirectionCCW
	default:
		return Event{}, false
	}

	ev := e.recognize(Rotate(dir), nowMs)
	t.Clear()
	return ev, true
}
