package app

import (
	"context"
	"sync/atomic"

	"github.com/ayusman/aero/internal/detector"
)

// Observation is one detector result handed from the capture loop to the
// classifier. An empty Frame means no hand was in view.
type Observation struct {
	Frame       []detector.Point3D
	TimestampMs int64
}

// Mailbox is a single-slot, latest-wins handoff between one producer and
// one consumer. Posting never blocks; an observation the consumer has not
// taken yet is replaced.
type Mailbox struct {
	ch      chan Observation
	dropped atomic.Int64
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan Observation, 1)}
}

// Post stores obs, discarding any observation still waiting.
func (m *Mailbox) Post(obs Observation) {
	for {
		select {
		case m.ch <- obs:
			return
		default:
		}

		select {
		case <-m.ch:
			m.dropped.Add(1)
		default:
		}
	}
}

// Take waits for the next observation or for ctx to end.
func (m *Mailbox) Take(ctx context.Context) (Observation, error) {
	select {
	case obs := <-m.ch:
		return obs, nil
	case <-ctx.Done():
		return Observation{}, ctx.Err()
	}
}

// Dropped returns how many observations were replaced before being taken.
func (m *Mailbox) Dropped() int64 {
	return m.dropped.Load()
}
