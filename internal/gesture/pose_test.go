package gesture

import (
	"testing"

	"github.com/ayusman/aero/internal/detector"
)

func TestClassifyPose(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Pose
		ok   bool
	}{
		{"fist", detector.FistLandmarks(), PoseFistClosed, true},
		{"open palm", detector.OpenPalmLandmarks(), PoseFistOpen, true},
		{"pinch is still an open hand", detector.PinchLandmarks(), PoseFistOpen, true},
		{"thumbs up is ambiguous", detector.ThumbsUpLandmarks(), PoseNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifyPose(tt.hand.Frame())
			if got != tt.want || ok != tt.ok {
				t.Errorf("classifyPose() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
