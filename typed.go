package eventbus

import (
	"context"
	"fmt"
)

// On subscribes a typed handler for events of type t. Routing still runs
// on the explicit type key; the type parameter only narrows the payload
// for the handler. If an event registered under t is not a T, the handler
// chain fails with ErrTypeMismatch, which Publish returns to the caller.
//
// Example:
//
//	eventbus.On(bus, UserLoggedIn, func(ctx context.Context, ev LoginEvent) error {
//	    fmt.Println("welcome,", ev.UserID)
//	    return nil
//	})
func On[T Event](b *Bus, t Type, handler func(context.Context, T) error, opts ...SubscribeOption) *Subscription {
	return b.Subscribe(t, assertType(t, handler), opts...)
}

// OnOnce is the SubscribeOnce counterpart of On.
func OnOnce[T Event](b *Bus, t Type, handler func(context.Context, T) error, opts ...SubscribeOption) *Subscription {
	return b.SubscribeOnce(t, assertType(t, handler), opts...)
}

func assertType[T Event](t Type, handler func(context.Context, T) error) Handler {
	return func(ctx context.Context, ev Event) error {
		typed, ok := ev.(T)
		if !ok {
			return fmt.Errorf("%w: event %q delivered as %T", ErrTypeMismatch, t, ev)
		}
		return handler(ctx, typed)
	}
}
