package app

import (
	"errors"
	"testing"

	"github.com/ayusman/aero/internal/gesture"
	"github.com/ayusman/aero/internal/store"
)

type fakeAppender struct {
	events []store.Event
	retain []int
	err    error
}

func (f *fakeAppender) Append(e *store.Event, retain int) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *e)
	f.retain = append(f.retain, retain)
	return nil
}

func TestEventRecorder_RecordsDiscreteOnly(t *testing.T) {
	f := &fakeAppender{}
	r := NewEventRecorder(f, "session-1", 50)

	r.HandleEvent(gesture.CursorMove(0.2, 0.3, false), 10)
	r.HandleEvent(gesture.Click(0.2, 0.3), 20)
	r.HandleEvent(gesture.PoseChanged(gesture.PoseFistOpen), 30)

	if len(f.events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(f.events))
	}

	click := f.events[0]
	if click.Name != "CLICK" || click.Kind != "click" || click.X != 0.2 || click.Y != 0.3 || click.TimestampMs != 20 {
		t.Errorf("click recorded as %+v", click)
	}
	pose := f.events[1]
	if pose.Name != "FIST_OPEN" || pose.Pose != "FIST_OPEN" || pose.Direction != "" {
		t.Errorf("pose recorded as %+v", pose)
	}
	for i, e := range f.events {
		if e.SessionID != "session-1" || f.retain[i] != 50 {
			t.Errorf("event %d: session=%q retain=%d", i, e.SessionID, f.retain[i])
		}
	}
}

func TestEventRecorder_StoreErrorIsSwallowed(t *testing.T) {
	r := NewEventRecorder(&fakeAppender{err: errors.New("disk full")}, "s", 0)
	r.HandleEvent(gesture.Swipe(gesture.DirectionLeft), 0)
}
