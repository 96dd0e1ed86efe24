package gesture

import "math"

// TrajectoryCapacity is the number of tracked points kept, about two
// seconds at 30 frames per second.
const TrajectoryCapacity = 60

// Point is a tracked 2-D position in mirrored, normalized screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Trajectory is a fixed-capacity ring of recent points in insertion order.
// Pushing onto a full trajectory drops the oldest point.
type Trajectory struct {
	buf   [TrajectoryCapacity]Point
	start int
	n     int
}

// Push appends p, evicting the oldest point when full.
func (t *Trajectory) Push(p Point) {
	if t.n < TrajectoryCapacity {
		t.buf[(t.start+t.n)%TrajectoryCapacity] = p
		t.n++
		return
	}
	t.buf[t.start] = p
	t.start = (t.start + 1) % TrajectoryCapacity
}

// Len returns the number of buffered points.
func (t *Trajectory) Len() int {
	return t.n
}

// At returns the i-th oldest point. It panics if i is out of range.
func (t *Trajectory) At(i int) Point {
	if i < 0 || i >= t.n {
		panic("gesture: trajectory index out of range")
	}
	return t.buf[(t.start+i)%TrajectoryCapacity]
}

// First returns the oldest point.
func (t *Trajectory) First() Point {
	return t.At(0)
}

// Last returns the newest point.
func (t *Trajectory) Last() Point {
	return t.At(t.n - 1)
}

// Clear empties the trajectory.
func (t *Trajectory) Clear() {
	t.start = 0
	t.n = 0
}

// Points returns a copy of the buffered points, oldest first.
func (t *Trajectory) Points() []Point {
	out := make([]Point, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// ArcLength returns the total distance travelled between consecutive points.
func (t *Trajectory) ArcLength() float64 {
	var total float64
	for i := 1; i < t.n; i++ {
		total += t.At(i - 1).Dist(t.At(i))
	}
	return total
}
