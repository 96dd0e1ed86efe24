package app

import (
	"log"

	"github.com/ayusman/aero/internal/gesture"
	"github.com/ayusman/aero/internal/store"
)

// EventAppender persists one event and trims the log to retain entries.
type EventAppender interface {
	Append(e *store.Event, retain int) error
}

// EventRecorder writes every discrete gesture to the event log.
type EventRecorder struct {
	events    EventAppender
	sessionID string
	retain    int
}

// NewEventRecorder creates a recorder tagging events with sessionID. A
// retain of zero keeps the whole log.
func NewEventRecorder(events EventAppender, sessionID string, retain int) *EventRecorder {
	return &EventRecorder{events: events, sessionID: sessionID, retain: retain}
}

// HandleEvent records discrete events. Failures are logged, never returned,
// so a full disk does not stop recognition.
func (r *EventRecorder) HandleEvent(ev gesture.Event, timestampMs int64) {
	if !ev.Discrete() {
		return
	}

	e := &store.Event{
		SessionID:   r.sessionID,
		Name:        ev.Name(),
		Kind:        string(ev.Kind),
		X:           ev.X,
		Y:           ev.Y,
		Direction:   string(ev.Direction),
		Pose:        string(ev.Pose),
		TimestampMs: timestampMs,
	}
	if err := r.events.Append(e, r.retain); err != nil {
		log.Printf("Failed to record %s: %v", e.Name, err)
	}
}
