package async

import (
	"context"

	"github.com/viewkit/eventbus"
)

// StateEvent carries one state transition of a tracked operation through
// an event bus, so renderers can subscribe to outcome changes the same
// way they subscribe to any other event kind.
type StateEvent[T any] struct {
	eventbus.Base
	typ   eventbus.Type
	State State[T]
}

// NewStateEvent creates a StateEvent for the given type key.
func NewStateEvent[T any](t eventbus.Type, s State[T]) StateEvent[T] {
	return StateEvent[T]{Base: eventbus.NewBase(), typ: t, State: s}
}

// EventType returns the type key used to route this event.
func (e StateEvent[T]) EventType() eventbus.Type { return e.typ }

// Emitter returns an emit function for Track that publishes every state
// transition to bus under the type key t. Publish failures are logged,
// not propagated: a broken renderer must not fail the tracked operation.
//
//	result := async.Track(ctx, async.Emitter[[]User](ctx, bus, UsersChanged), loadUsers)
func Emitter[T any](ctx context.Context, bus *eventbus.Bus, t eventbus.Type) func(State[T]) {
	return func(s State[T]) {
		if err := bus.Publish(ctx, NewStateEvent(t, s)); err != nil {
			eventbus.ContextLogger(ctx).Warn("state event publish failed",
				"event", t, "state", s.String(), "error", err)
		}
	}
}
