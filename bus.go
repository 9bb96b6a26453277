package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	busRunning = 1
	busStopped = 0
)

// Bus is a typed in-process publish/subscribe bus. One mutex per instance
// serializes registry mutation and the read pass of each publish, which
// preserves registration-order delivery within a type key. Handlers run
// outside the lock, so they may re-enter the bus.
type Bus struct {
	status int32
	id     string
	name   string

	mu       sync.Mutex
	registry *typeRegistry
	subs     map[string]*Subscription // live handles, for teardown and introspection

	logger          *slog.Logger
	clock           clock.Clock
	tracingEnabled  bool
	recoveryEnabled bool
	metricsEnabled  bool
	metrics         *busMetrics
}

// DebugInfo is a read-only snapshot of the bus state.
type DebugInfo struct {
	ChannelCount      int    `json:"channel_count"`
	SubscriptionCount int    `json:"subscription_count"`
	TypeKeys          []Type `json:"type_keys"`
}

// New creates an event bus. The zero-option bus logs with slog.Default and
// records OpenTelemetry metrics and traces under DefaultBusName.
func New(opts ...Option) *Bus {
	o := newBusOptions(opts...)

	return &Bus{
		status:          busRunning,
		id:              NewID(),
		name:            o.name,
		registry:        newTypeRegistry(),
		subs:            make(map[string]*Subscription),
		logger:          o.logger.With("component", "bus>"+o.name),
		clock:           o.clock,
		tracingEnabled:  o.tracingEnabled,
		recoveryEnabled: o.recoveryEnabled,
		metricsEnabled:  o.metricsEnabled,
		metrics:         newBusMetrics(o.name),
	}
}

// ID returns the bus ID.
func (b *Bus) ID() string { return b.id }

// Name returns the bus name.
func (b *Bus) Name() string { return b.name }

// Running returns true if the bus has not been closed.
func (b *Bus) Running() bool {
	return atomic.LoadInt32(&b.status) == busRunning
}

// Publish delivers ev to every Active handle registered for its type key,
// synchronously and in registration order. The handle list is snapshotted
// under the bus mutex at the start of the pass; each handle's state is
// checked immediately before its turn, so a handle canceled mid-pass
// before its turn receives nothing.
//
// Delivery is fail-fast: the first handler error (or recovered panic)
// aborts the remaining deliveries of the pass and is returned wrapped in
// *HandlerError. Publishing to a type with no subscribers allocates the
// channel and returns nil.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if ev == nil {
		return ErrNilEvent
	}
	t := ev.EventType()
	if t == "" {
		return ErrEmptyType
	}
	if !b.Running() {
		return ErrBusClosed
	}

	b.mu.Lock()
	snapshot := b.registry.getOrCreate(t).snapshot()
	b.mu.Unlock()

	eventID := NewID()

	if b.metricsEnabled {
		b.metrics.published.Add(ctx, 1,
			metric.WithAttributes(attribute.String(spanKeyEventType, t.String())))
	}

	if b.tracingEnabled {
		tracer := otel.Tracer(b.name)
		var span trace.Span
		ctx, span = tracer.Start(ctx, fmt.Sprintf("%s.publish", t),
			trace.WithAttributes(
				attribute.String(spanKeyEventID, eventID),
				attribute.String(spanKeyEventBus, b.name),
				attribute.String(spanKeyEventType, t.String())),
			trace.WithSpanKind(trace.SpanKindProducer))
		defer span.End()
	}

	for _, sub := range snapshot {
		if !sub.IsActive() {
			if b.metricsEnabled {
				b.metrics.skipped.Add(ctx, 1,
					metric.WithAttributes(attribute.String(spanKeyEventType, t.String())))
			}
			continue
		}
		if err := b.deliver(ctx, eventID, ev, sub); err != nil {
			if b.metricsEnabled {
				b.metrics.failed.Add(ctx, 1,
					metric.WithAttributes(attribute.String(spanKeyEventType, t.String())))
			}
			return &HandlerError{Type: t, SubscriptionID: sub.id, Err: err}
		}
	}
	return nil
}

// deliver invokes one handler with a delivery-scoped context.
func (b *Bus) deliver(ctx context.Context, eventID string, ev Event, sub *Subscription) error {
	dctx := contextWithDelivery(ctx, &deliveryContextData{
		eventID: eventID,
		typ:     sub.typ,
		subID:   sub.id,
		busName: b.name,
		logger:  b.logger,
	})

	if b.tracingEnabled {
		tracer := otel.Tracer(b.name)
		var span trace.Span
		dctx, span = tracer.Start(dctx, fmt.Sprintf("%s.deliver", sub.typ),
			trace.WithAttributes(
				attribute.String(spanKeyEventID, eventID),
				attribute.String(spanKeySubscriptionID, sub.id)),
			trace.WithSpanKind(trace.SpanKindConsumer))
		defer span.End()
	}

	start := b.clock.Now()
	err := sub.handler(dctx, ev)
	if b.metricsEnabled {
		b.metrics.handlerDuration.Record(ctx, b.clock.Since(start).Seconds(),
			metric.WithAttributes(attribute.String(spanKeyEventType, sub.typ.String())))
		if err == nil {
			b.metrics.delivered.Add(ctx, 1,
				metric.WithAttributes(attribute.String(spanKeyEventType, sub.typ.String())))
		}
	}
	return err
}

// Subscribe registers handler for events of type t and returns the new
// Active handle. The handle is appended at the end of the type's channel;
// no delivery occurs until a subsequent Publish. Panics on a nil handler
// (programmer error). On a closed bus it returns an already-Canceled
// handle.
func (b *Bus) Subscribe(t Type, handler Handler, opts ...SubscribeOption) *Subscription {
	sub := b.newSubscription(t)
	sub.handler = b.wrapHandler(handler, opts...)
	b.attach(sub)
	return sub
}

// SubscribeOnce behaves as Subscribe, but the handle cancels itself on its
// first delivery. Cancellation is linearized before the wrapped handler
// runs, so a re-entrant publish of the same type from inside the handler
// never observes the handle as Active, and the handler fires at most once.
func (b *Bus) SubscribeOnce(t Type, handler Handler, opts ...SubscribeOption) *Subscription {
	sub := b.newSubscription(t)
	inner := b.wrapHandler(handler, opts...)
	sub.handler = func(ctx context.Context, ev Event) error {
		if !sub.tryCancel() {
			return nil
		}
		b.detach(sub)
		return inner(ctx, ev)
	}
	b.attach(sub)
	return sub
}

func (b *Bus) newSubscription(t Type) *Subscription {
	return &Subscription{
		id:  NewID(),
		typ: t,
		bus: b,
	}
}

// wrapHandler applies subscription middleware and, if enabled, panic
// recovery. Recovery is outermost so middleware panics are converted too.
func (b *Bus) wrapHandler(handler Handler, opts ...SubscribeOption) Handler {
	if handler == nil {
		panic("eventbus: nil handler")
	}
	o := newSubscribeOptions(opts...)
	for i := len(o.middleware) - 1; i >= 0; i-- {
		handler = o.middleware[i](handler)
	}
	if b.recoveryEnabled {
		handler = recoverHandler(handler, b.logger)
	}
	return handler
}

// recoverHandler converts handler panics into *PanicError so they follow
// the fail-fast error path instead of unwinding through Publish.
func recoverHandler(next Handler, logger *slog.Logger) Handler {
	return func(ctx context.Context, ev Event) (err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger.Error("handler panic recovered",
					"event", ev.EventType(),
					"subscription", ContextSubscriptionID(ctx),
					"error", r,
					"stack", string(stack))
				err = &PanicError{Value: r, Stack: stack}
			}
		}()
		return next(ctx, ev)
	}
}

func (b *Bus) attach(sub *Subscription) {
	// The status check happens under the mutex: Close flips the status
	// before Clear takes the lock, so a handle appended here is either
	// seen and canceled by that Clear, or rejected below.
	b.mu.Lock()
	if !b.Running() {
		b.mu.Unlock()
		sub.state.Store(int32(Canceled))
		b.logger.Warn("subscribe on closed bus", "event", sub.typ)
		return
	}
	b.registry.getOrCreate(sub.typ).append(sub)
	b.subs[sub.id] = sub
	b.mu.Unlock()

	if b.metricsEnabled {
		b.metrics.subscribed.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String(spanKeyEventType, sub.typ.String())))
	}
	b.logger.Debug("subscribed", "event", sub.typ, "subscription", sub.id)
}

// detach removes a handle from its channel and from the live set. Only the
// owning bus removes handles; callers go through Subscription.Cancel.
func (b *Bus) detach(sub *Subscription) {
	b.mu.Lock()
	if ch := b.registry.get(sub.typ); ch != nil {
		ch.remove(sub)
	}
	delete(b.subs, sub.id)
	b.mu.Unlock()
	b.logger.Debug("canceled", "event", sub.typ, "subscription", sub.id)
}

// Clear cancels every live subscription and discards the channel registry,
// returning the bus to its initial empty state. Intended for full teardown
// such as test isolation; the bus remains usable afterwards.
func (b *Bus) Clear() {
	// tryCancel is a lock-free CAS, so canceling inside the critical
	// section is safe and guarantees that no handle tracked before Clear
	// is still Active once the registry swap becomes visible.
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[string]*Subscription)
	b.registry = newTypeRegistry()
	for _, sub := range subs {
		sub.tryCancel()
	}
	b.mu.Unlock()

	b.logger.Debug("cleared", "subscriptions", len(subs))
}

// Close clears the bus and marks it stopped. Publish and Subscribe on a
// closed bus fail with ErrBusClosed semantics. Idempotent.
func (b *Bus) Close() error {
	if atomic.CompareAndSwapInt32(&b.status, busRunning, busStopped) {
		b.Clear()
		b.logger.Debug("closed")
	}
	return nil
}

// SubscriberCount returns the number of Active handles registered for t.
// Returns 0 if no channel exists for t.
func (b *Bus) SubscriberCount(t Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch := b.registry.get(t); ch != nil {
		return ch.activeCount()
	}
	return 0
}

// DebugInfo returns a read-only snapshot of the bus: allocated channels,
// live subscriptions and the sorted type keys. No side effects.
func (b *Bus) DebugInfo() DebugInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return DebugInfo{
		ChannelCount:      b.registry.len(),
		SubscriptionCount: len(b.subs),
		TypeKeys:          b.registry.types(),
	}
}

// Now returns the bus clock's current time. Exposed for callers that stamp
// events against the same clock the bus uses for timing.
func (b *Bus) Now() time.Time {
	return b.clock.Now()
}
