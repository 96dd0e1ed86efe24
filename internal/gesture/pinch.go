package gesture

func isPinching(distance float64) bool {
	return distance < PinchThreshold
}

// allowClick is the click refractory gate. The window slides from the last
// click that fired, so a held pinch clicks once every ClickRefractoryMs.
func (e *Engine) allowClick(nowMs int64) bool {
	if elapsed(nowMs, e.lastClickMs) < ClickRefractoryMs {
		return false
	}
	e.lastClickMs = nowMs
	return true
}
