package gesture

import "github.com/ayusman/aero/internal/detector"

// digits pairs each fingertip with the joint it folds past: the PIP for the
// four fingers, the IP for the thumb.
var digits = [5][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
	{detector.ThumbTip, detector.ThumbIP},
}

// folded reports whether tip has curled inside joint, measured from the wrist.
func folded(frame []detector.Point3D, tip, joint int) bool {
	wrist := frame[detector.Wrist]
	return detector.Distance2D(frame[tip], wrist) < detector.Distance2D(frame[joint], wrist)
}

// classifyPose returns the pose the frame shows. All five digits folded is
// a closed fist; at most one folded with the index extended is an open
// hand; anything in between is ambiguous.
func classifyPose(frame []detector.Point3D) (Pose, bool) {
	count := 0
	for _, d := range digits {
		if folded(frame, d[0], d[1]) {
			count++
		}
	}

	switch {
	case count == len(digits):
		return PoseFistClosed, true
	case count <= 1:
		wrist := frame[detector.Wrist]
		extended := detector.Distance2D(frame[detector.IndexTip], wrist) > detector.Distance2D(frame[detector.IndexPIP], wrist)
		if extended {
			return PoseFistOpen, true
		}
	}
	return PoseNone, false
}

// detectPose emits a pose change only when the pose differs from the
// current gesture, so a held pose neither repeats nor extends the cooldown.
func (e *Engine) detectPose(frame []detector.Point3D, nowMs int64) (Event, bool) {
	pose, ok := classifyPose(frame)
	if !ok || string(pose) == e.current {
		return Event{}, false
	}
	return e.recognize(PoseChanged(pose), nowMs), true
}
