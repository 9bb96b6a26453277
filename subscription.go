package eventbus

import (
	"fmt"
	"sync/atomic"
)

// SubscriptionState is the lifecycle state of a subscription handle.
type SubscriptionState int32

const (
	// Active handles receive deliveries.
	Active SubscriptionState = iota
	// Paused handles are skipped; events are not queued or replayed.
	Paused
	// Canceled is terminal. The handle is detached from its channel and
	// all further lifecycle calls are no-ops.
	Canceled
)

// String returns a string representation of the subscription state.
func (s SubscriptionState) String() string {
	switch s {
	case Active:
		return "active"
	case Paused:
		return "paused"
	case Canceled:
		return "canceled"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// Subscription binds one handler to one event type. It is shared between
// the owning bus (for delivery) and the caller (for lifecycle control).
type Subscription struct {
	id      string
	typ     Type
	handler Handler
	state   atomic.Int32
	bus     *Bus
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// EventType returns the type key this subscription is registered for.
func (s *Subscription) EventType() Type { return s.typ }

// State returns the current lifecycle state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive reports whether the handle currently receives deliveries.
func (s *Subscription) IsActive() bool {
	return s.State() == Active
}

// Pause stops deliveries until Resume. No-op unless the handle is Active.
func (s *Subscription) Pause() {
	s.state.CompareAndSwap(int32(Active), int32(Paused))
}

// Resume re-enables future deliveries. Events published while the handle
// was paused are not replayed. No-op unless the handle is Paused.
func (s *Subscription) Resume() {
	s.state.CompareAndSwap(int32(Paused), int32(Active))
}

// Cancel permanently stops deliveries and detaches the handle from its
// channel. Idempotent; calling it on a Canceled handle is a no-op.
func (s *Subscription) Cancel() {
	if s.tryCancel() {
		s.bus.detach(s)
	}
}

// tryCancel moves the handle to Canceled from any non-terminal state.
// Returns false if it was already Canceled.
func (s *Subscription) tryCancel() bool {
	for {
		cur := s.state.Load()
		if cur == int32(Canceled) {
			return false
		}
		if s.state.CompareAndSwap(cur, int32(Canceled)) {
			return true
		}
	}
}
