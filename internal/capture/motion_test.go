package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestMotionDetector_Threshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if md.Threshold() != 1.0 {
		t.Errorf("Threshold() = %v, want 1.0", md.Threshold())
	}

	md.SetThreshold(5.0)
	if md.Threshold() != 5.0 {
		t.Errorf("after SetThreshold(5), Threshold() = %v", md.Threshold())
	}

	for _, v := range []float64{0, -1} {
		md.SetThreshold(v)
		if md.Threshold() != 5.0 {
			t.Errorf("SetThreshold(%v) should be ignored, Threshold() = %v", v, md.Threshold())
		}
	}
}

func TestMotionDetector_NilAndEmpty(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if moved, pct := md.Detect(nil); moved || pct != 0 {
		t.Errorf("Detect(nil) = %v, %v", moved, pct)
	}
}

func TestMotionDetector_Frames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	black := NewSolidFrame(640, 480, 0)
	defer black.Close()
	white := NewSolidFrame(640, 480, 255)
	defer white.Close()
	small := NewSolidFrame(320, 240, 255)
	defer small.Close()

	tests := []struct {
		name     string
		sequence []*gocv.Mat
		want     bool
		minPct   float64
	}{
		{"first frame is baseline", []*gocv.Mat{&white}, false, 0},
		{"identical frames", []*gocv.Mat{&black, &black}, false, 0},
		{"black to white", []*gocv.Mat{&black, &white}, true, 50},
		{"resolution change resets baseline", []*gocv.Mat{&black, &small}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(1.0)
			defer md.Close()

			var moved bool
			var pct float64
			for _, f := range tt.sequence {
				moved, pct = md.Detect(f)
			}
			if moved != tt.want {
				t.Errorf("Detect() moved = %v, want %v (changed %.2f%%)", moved, tt.want, pct)
			}
			if pct < tt.minPct {
				t.Errorf("changed %.2f%%, want >= %.0f%%", pct, tt.minPct)
			}
		})
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	black := NewSolidFrame(640, 480, 0)
	defer black.Close()
	white := NewSolidFrame(640, 480, 255)
	defer white.Close()

	md := NewMotionDetector(1.0)
	defer md.Close()

	md.Detect(&black)
	md.Reset()

	// After a reset the white frame is a new baseline, not a change.
	if moved, _ := md.Detect(&white); moved {
		t.Error("first frame after Reset should not report motion")
	}
	if moved, _ := md.Detect(&black); !moved {
		t.Error("white to black should report motion")
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(1.0)
	md.Close()
	md.Close()
}
