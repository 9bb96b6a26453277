package eventbus

import (
	"errors"
	"fmt"
)

// Bus errors
var (
	ErrBusClosed    = errors.New("bus is closed")
	ErrNilEvent     = errors.New("nil event")
	ErrEmptyType    = errors.New("event has empty type key")
	ErrTypeMismatch = errors.New("event type mismatch")
)

// HandlerError reports a handler failure during delivery. Publish returns
// it to the caller after aborting the remaining deliveries of that pass.
// Use errors.As to recover it, or errors.Is against the wrapped cause.
type HandlerError struct {
	Type           Type
	SubscriptionID string
	Err            error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %q (subscription %s) failed: %v", e.Type, e.SubscriptionID, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// IsHandlerError checks if an error originated in a subscription handler.
func IsHandlerError(err error) bool {
	var he *HandlerError
	return errors.As(err, &he)
}

// PanicError is the error produced when panic recovery is enabled and a
// handler panics. It carries the recovered value and the captured stack.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.Value)
}

// IsPanicError checks if an error was produced by handler panic recovery.
func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
