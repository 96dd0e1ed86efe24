package app

import (
	"testing"
	"time"
)

func TestActivityGate(t *testing.T) {
	t0 := time.Unix(0, 0)
	at := func(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

	steps := []struct {
		ms      int
		moved   bool
		changed bool
		active  bool
	}{
		{0, false, false, false},
		{100, true, true, true},
		{200, true, false, true},
		{1500, false, false, true},
		{2200, false, false, true},
		{2201, false, true, false},
		{2300, false, false, false},
		{2400, true, true, true},
	}

	g := activityGate{idleTimeout: 2 * time.Second}
	for _, s := range steps {
		changed := g.observe(s.moved, at(s.ms))
		if changed != s.changed || g.active() != s.active {
			t.Errorf("t=%d moved=%t: changed=%t active=%t, want changed=%t active=%t",
				s.ms, s.moved, changed, g.active(), s.changed, s.active)
		}
	}
}

func TestInterval(t *testing.T) {
	if got := interval(5); got != 200*time.Millisecond {
		t.Errorf("interval(5) = %v", got)
	}
	if got := interval(15); got != time.Second/15 {
		t.Errorf("interval(15) = %v", got)
	}
}
