package gesture

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTrajectory_PushEvictsOldest(t *testing.T) {
	var tr Trajectory
	for i := 0; i < TrajectoryCapacity+10; i++ {
		tr.Push(Point{X: float64(i)})
	}

	if tr.Len() != TrajectoryCapacity {
		t.Fatalf("Len() = %d, want %d", tr.Len(), TrajectoryCapacity)
	}
	if got := tr.First().X; got != 10 {
		t.Errorf("First().X = %v, want 10", got)
	}
	if got := tr.Last().X; got != TrajectoryCapacity+9 {
		t.Errorf("Last().X = %v, want %d", got, TrajectoryCapacity+9)
	}
	for i := 0; i < tr.Len(); i++ {
		if got := tr.At(i).X; got != float64(i+10) {
			t.Fatalf("At(%d).X = %v, want %d", i, got, i+10)
		}
	}
}

func TestTrajectory_PointsIsCopy(t *testing.T) {
	var tr Trajectory
	tr.Push(Point{X: 0.1, Y: 0.2})
	tr.Push(Point{X: 0.3, Y: 0.4})

	pts := tr.Points()
	want := []Point{{0.1, 0.2}, {0.3, 0.4}}
	if diff := cmp.Diff(want, pts); diff != "" {
		t.Errorf("Points() mismatch (-want +got):\n%s", diff)
	}

	pts[0] = Point{}
	if tr.First() != (Point{X: 0.1, Y: 0.2}) {
		t.Error("mutating Points() result changed the trajectory")
	}
}

func TestTrajectory_Clear(t *testing.T) {
	var tr Trajectory
	for i := 0; i < 5; i++ {
		tr.Push(Point{X: float64(i)})
	}
	tr.Clear()

	if tr.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", tr.Len())
	}
	tr.Push(Point{X: 7})
	if tr.First().X != 7 || tr.Len() != 1 {
		t.Errorf("after Clear and Push: Len() = %d, First() = %v", tr.Len(), tr.First())
	}
}

func TestTrajectory_AtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("At(0) on empty trajectory did not panic")
		}
	}()
	var tr Trajectory
	tr.At(0)
}

func TestTrajectory_ArcLength(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want float64
	}{
		{"empty", nil, 0},
		{"single", []Point{{0.5, 0.5}}, 0},
		{"straight", []Point{{0, 0}, {0.3, 0}, {0.3, 0.4}}, 0.7},
		{"back and forth", []Point{{0, 0}, {0.1, 0}, {0, 0}}, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr Trajectory
			for _, p := range tt.pts {
				tr.Push(p)
			}
			if got := tr.ArcLength(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ArcLength() = %v, want %v", got, tt.want)
			}
		})
	}
}
