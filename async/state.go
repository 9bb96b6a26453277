// Package async provides the immutable state container used to represent
// the outcome of long-running operations: a closed set of four variants,
// Idle, Loading, Data and Error. Callers produce states through Track and
// renderers consume them through Match; the container itself never
// mutates, a state change is a new value.
//
//	var users async.State[[]User] = async.Idle[[]User]()
//
//	users = async.Track(ctx, emit, func(ctx context.Context) ([]User, error) {
//	    return repo.ListUsers(ctx)
//	})
//
//	label := async.Match(users, async.Cases[[]User, string]{
//	    Idle:    func() string { return "" },
//	    Loading: func() string { return "loading..." },
//	    Data:    func(u []User) string { return fmt.Sprintf("%d users", len(u)) },
//	    Error:   func(err error) string { return err.Error() },
//	})
package async

import "fmt"

type kind uint8

const (
	kindIdle kind = iota
	kindLoading
	kindData
	kindError
)

// State is an immutable tagged variant describing an operation's outcome.
// Exactly one variant is current; the zero value is Idle.
type State[T any] struct {
	kind  kind
	value T
	err   error
	trace []byte
}

// Idle returns the state before any operation was attempted.
func Idle[T any]() State[T] {
	return State[T]{kind: kindIdle}
}

// Loading returns the state of an operation in flight. It carries no
// payload.
func Loading[T any]() State[T] {
	return State[T]{kind: kindLoading}
}

// Data returns the state of a succeeded operation carrying its result.
func Data[T any](v T) State[T] {
	return State[T]{kind: kindData, value: v}
}

// Err returns the state of a failed operation carrying its cause.
func Err[T any](err error) State[T] {
	return State[T]{kind: kindError, err: err}
}

// ErrTrace returns a failure state carrying its cause and a captured
// stack trace.
func ErrTrace[T any](err error, trace []byte) State[T] {
	return State[T]{kind: kindError, err: err, trace: trace}
}

// IsIdle reports whether no operation was attempted.
func (s State[T]) IsIdle() bool { return s.kind == kindIdle }

// IsLoading reports whether an operation is in flight.
func (s State[T]) IsLoading() bool { return s.kind == kindLoading }

// HasValue reports whether the state carries a result.
func (s State[T]) HasValue() bool { return s.kind == kindData }

// HasError reports whether the state carries a failure cause.
func (s State[T]) HasError() bool { return s.kind == kindError }

// Value returns the result and true for the Data variant, the zero value
// and false otherwise. Prefer Match for total handling of all variants.
func (s State[T]) Value() (T, bool) {
	return s.value, s.kind == kindData
}

// Err returns the failure cause for the Error variant, nil otherwise.
func (s State[T]) Err() error {
	if s.kind == kindError {
		return s.err
	}
	return nil
}

// Trace returns the captured stack trace of an Error state, if any.
func (s State[T]) Trace() []byte {
	if s.kind == kindError {
		return s.trace
	}
	return nil
}

// String returns a short representation for log output.
func (s State[T]) String() string {
	switch s.kind {
	case kindIdle:
		return "idle"
	case kindLoading:
		return "loading"
	case kindData:
		return fmt.Sprintf("data(%v)", s.value)
	case kindError:
		return fmt.Sprintf("error(%v)", s.err)
	default:
		return fmt.Sprintf("unknown(%d)", s.kind)
	}
}

// Cases holds one handler per variant for Match. All four handlers are
// required; Match panics on a nil case (programmer error), which keeps
// payload access total and prevents reading a value that may not exist.
type Cases[T, R any] struct {
	Idle    func() R
	Loading func() R
	Data    func(T) R
	Error   func(error) R
}

// Match dispatches on the current variant and returns the handler's
// result. It is the sanctioned way to extract the payload.
func Match[T, R any](s State[T], c Cases[T, R]) R {
	switch s.kind {
	case kindLoading:
		if c.Loading == nil {
			panic("async: Match missing Loading case")
		}
		return c.Loading()
	case kindData:
		if c.Data == nil {
			panic("async: Match missing Data case")
		}
		return c.Data(s.value)
	case kindError:
		if c.Error == nil {
			panic("async: Match missing Error case")
		}
		return c.Error(s.err)
	default:
		if c.Idle == nil {
			panic("async: Match missing Idle case")
		}
		return c.Idle()
	}
}

// Map transforms the payload of a Data state. Idle, Loading and Error
// pass through structurally unchanged; an Error keeps its original cause
// and trace.
func Map[T, U any](s State[T], f func(T) U) State[U] {
	switch s.kind {
	case kindData:
		return Data(f(s.value))
	case kindError:
		return State[U]{kind: kindError, err: s.err, trace: s.trace}
	case kindLoading:
		return Loading[U]()
	default:
		return Idle[U]()
	}
}
