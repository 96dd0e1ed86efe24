package app

import (
	"sync"

	"github.com/ayusman/aero/internal/gesture"
)

// Handler receives every event the engine raises, cursor moves included.
// TimestampMs is the classification time on the app clock.
type Handler interface {
	HandleEvent(ev gesture.Event, timestampMs int64)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev gesture.Event, timestampMs int64)

func (f HandlerFunc) HandleEvent(ev gesture.Event, timestampMs int64) {
	f(ev, timestampMs)
}

// Dispatcher fans events out to its handlers in registration order.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewDispatcher creates a dispatcher with no handlers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds h. It may be called while events are flowing.
func (d *Dispatcher) Register(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Dispatch delivers each event to every handler, preserving event order.
func (d *Dispatcher) Dispatch(events []gesture.Event, timestampMs int64) {
	if len(events) == 0 {
		return
	}

	d.mu.RLock()
	handlers := d.handlers
	d.mu.RUnlock()

	for _, ev := range events {
		for _, h := range handlers {
			h.HandleEvent(ev, timestampMs)
		}
	}
}

// Discrete wraps h so it only sees one-shot gestures.
func Discrete(h Handler) Handler {
	return HandlerFunc(func(ev gesture.Event, timestampMs int64) {
		if ev.Discrete() {
			h.HandleEvent(ev, timestampMs)
		}
	})
}
