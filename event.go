package eventbus

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// Type is a stable token identifying one concrete event kind. Declare one
// Type constant per event struct; the bus compares tokens by value when
// routing, so routing cost does not depend on reflection.
type Type string

func (t Type) String() string { return string(t) }

// Event is an immutable value broadcast through the bus. Concrete event
// kinds are distinct types carrying their own payload fields.
type Event interface {
	// EventType returns the type key used to route this event.
	EventType() Type

	// OccurredAt returns the event creation time.
	OccurredAt() time.Time
}

// Handler processes one delivered event. Returning a non-nil error aborts
// the remaining deliveries of the publish pass that invoked it.
type Handler func(ctx context.Context, ev Event) error

// eventClock stamps Base values. Swapped via SetClock in tests.
var eventClock clock.Clock = clock.New()

// SetClock replaces the clock used by NewBase and returns the previous one.
// Intended for tests that need deterministic timestamps.
func SetClock(c clock.Clock) clock.Clock {
	prev := eventClock
	if c != nil {
		eventClock = c
	}
	return prev
}

// Base is an embeddable timestamp carrier implementing the OccurredAt half
// of Event. Embed it in concrete event structs and construct with NewBase.
type Base struct {
	at time.Time
}

// NewBase returns a Base stamped with the current time.
func NewBase() Base {
	return Base{at: eventClock.Now()}
}

// NewBaseAt returns a Base with an explicit timestamp.
func NewBaseAt(t time.Time) Base {
	return Base{at: t}
}

// OccurredAt returns the event creation time.
func (b Base) OccurredAt() time.Time { return b.at }

var idCounter uint64

// NewID generates a new unique ID.
func NewID() string {
	u, err := uuid.NewRandom()
	if err == nil {
		return u.String()
	}
	return strconv.FormatUint(atomic.AddUint64(&idCounter, 1), 10)
}
