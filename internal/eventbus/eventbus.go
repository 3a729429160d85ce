// Package eventbus implements a small publish/subscribe bus used to fan
// worker progress out to loggers and metrics sinks.
package eventbus

import "sync"

// Phase identifies which part of a scenario run an event refers to.
type Phase string

const (
	PhaseReference    Phase = "reference"
	PhaseOptimization Phase = "optimization"
)

// Progress is published by a worker after each scenario solve.
type Progress struct {
	TaskID     int
	ScenarioID int64
	Phase      Phase
	Skipped    bool
}

// Bus fans progress events out to subscribers. Delivery is non-blocking;
// a slow subscriber loses events rather than stalling a worker.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Progress
	closed bool
}

// New creates a new Bus.
func New() *Bus { return &Bus{} }

// Publish sends the event to all subscribers.
func (b *Bus) Publish(e Progress) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan Progress {
	ch := make(chan Progress, 64)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes all subscriber channels and clears the list.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
