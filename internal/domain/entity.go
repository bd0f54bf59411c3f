package domain

import (
	"time"
)

// Event is a fact about a completed state change, queued by an aggregate for
// external consumers (audit log, message bus). Events accumulate in memory
// and are drained once per successful persistence operation.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// Entity carries the identity, timestamps, and event queue shared by every
// aggregate. Embed it by value; the event queue is per-instance and is not
// serialized.
type Entity struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	events []Event
}

// NewEntity stamps identity and creation/update times.
func NewEntity(id string, now time.Time) Entity {
	return Entity{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Touch re-stamps UpdatedAt. Every mutating aggregate method calls this.
func (e *Entity) Touch(now time.Time) {
	e.UpdatedAt = now
}

// Record appends a domain event to the aggregate's queue.
func (e *Entity) Record(ev Event) {
	e.events = append(e.events, ev)
}

// DrainEvents returns the queued events and clears the queue. Call exactly
// once after a successful persist; the caller hands the slice to a publisher.
func (e *Entity) DrainEvents() []Event {
	evs := e.events
	e.events = nil
	return evs
}

// PendingEvents returns the queued events without clearing them.
func (e *Entity) PendingEvents() []Event {
	return e.events
}

// Clock abstracts wall-clock access so handlers and workers stay
// deterministic under test. Aggregates never call time.Now themselves.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the production clock.
var SystemClock Clock = systemClock{}
