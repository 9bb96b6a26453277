// Package eventbus provides a typed in-process publish/subscribe bus for
// UI-application support code. Events are routed by an explicit type key to
// independently managed subscriptions; delivery is synchronous and ordered.
//
// Each concrete event kind declares a stable Type token and carries its own
// payload fields:
//
//	const UserLoggedIn = eventbus.Type("user.logged_in")
//
//	type LoginEvent struct {
//	    eventbus.Base
//	    UserID string
//	}
//
//	func (LoginEvent) EventType() eventbus.Type { return UserLoggedIn }
//
// Buses are explicit instances, not process-wide singletons. Create one,
// hand it to the callers that need it, and Clear it for full teardown:
//
//	bus := eventbus.New()
//	defer bus.Close()
//
//	sub := bus.Subscribe(UserLoggedIn, func(ctx context.Context, ev eventbus.Event) error {
//	    login := ev.(LoginEvent)
//	    fmt.Println("welcome,", login.UserID)
//	    return nil
//	})
//	defer sub.Cancel()
//
//	bus.Publish(ctx, LoginEvent{Base: eventbus.NewBase(), UserID: "u-1"})
//
// Handlers for one type run in registration order within a publish call.
// A handler error aborts the remaining deliveries of that pass and is
// returned to the publisher; panic recovery (on by default) converts
// handler panics into errors on the same path.
//
// Subscription handles support Pause, Resume and Cancel. Cancel is terminal
// and idempotent; events published while a handle is paused are skipped,
// never replayed.
//
// Bus Options:
//   - WithName: set the bus name used in logs, spans and metrics.
//   - WithLogger: set the bus logger.
//   - WithTracing: enable/disable OpenTelemetry tracing. Default is true.
//   - WithMetrics: enable/disable OpenTelemetry metrics. Default is true.
//   - WithRecovery: enable/disable panic recovery in handlers. Default is true.
//   - WithClock: set the clock used for timing. Default is the wall clock.
//
// Subscribe Options:
//   - WithMiddleware: add middleware to the handler chain, e.g. Dedup or
//     Throttle.
//
// The companion package async provides the State container commonly paired
// with the bus: an immutable idle/loading/data/error variant describing the
// outcome of a long-running operation, with a tracked-execution helper that
// can publish each state transition as an event.
package eventbus
