package ledger

import (
	"sync"

	"github.com/blogchain/internal/models"
)

// EventSink receives events after a successful commit. Delivery is fire and
// forget: a sink must not block the ledger and cannot fail an operation.
type EventSink interface {
	Deposit(ev models.Event)
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(ev models.Event)

// Deposit calls f(ev)
func (f EventSinkFunc) Deposit(ev models.Event) { f(ev) }

// MultiSink fans an event out to several sinks in order
type MultiSink []EventSink

// Deposit forwards ev to every sink
func (m MultiSink) Deposit(ev models.Event) {
	for _, s := range m {
		if s != nil {
			s.Deposit(ev)
		}
	}
}

// Recorder keeps the most recent events in memory. A zero capacity keeps
// every event.
type Recorder struct {
	mu       sync.Mutex
	capacity int
	events   []models.Event
}

// NewRecorder creates a recorder holding at most capacity events
func NewRecorder(capacity int) *Recorder {
	return &Recorder{capacity: capacity}
}

// Deposit records an event, dropping the oldest when full
func (r *Recorder) Deposit(ev models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
	if r.capacity > 0 && len(r.events) > r.capacity {
		r.events = append([]models.Event(nil), r.events[len(r.events)-r.capacity:]...)
	}
}

// Events returns up to limit of the most recent events, oldest first.
// A non-positive limit returns all recorded events.
func (r *Recorder) Events(limit int) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := 0
	if limit > 0 && len(r.events) > limit {
		start = len(r.events) - limit
	}
	out := make([]models.Event, len(r.events)-start)
	copy(out, r.events[start:])
	return out
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
