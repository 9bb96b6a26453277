package eventbus

import (
	"log/slog"

	"github.com/benbjohnson/clock"
)

// DefaultBusName is the bus name used when none is provided. It appears in
// logs, span attributes and metric attributes.
var DefaultBusName = "event-bus"

// busOptions holds configuration for a bus (unexported)
type busOptions struct {
	name            string
	logger          *slog.Logger
	clock           clock.Clock
	tracingEnabled  bool
	metricsEnabled  bool
	recoveryEnabled bool
}

// Option is a functional option for bus configuration.
type Option func(*busOptions)

// WithName sets the bus name.
func WithName(name string) Option {
	return func(o *busOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets a custom logger for the bus.
func WithLogger(l *slog.Logger) Option {
	return func(o *busOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the clock used for handler timing. Tests can pass
// clock.NewMock() for deterministic time.
func WithClock(c clock.Clock) Option {
	return func(o *busOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithTracing enables/disables OpenTelemetry tracing for the bus.
func WithTracing(enabled bool) Option {
	return func(o *busOptions) {
		o.tracingEnabled = enabled
	}
}

// WithMetrics enables/disables OpenTelemetry metrics for the bus.
func WithMetrics(enabled bool) Option {
	return func(o *busOptions) {
		o.metricsEnabled = enabled
	}
}

// WithRecovery enables/disables panic recovery in handlers.
// Recovery should normally stay enabled; disable it in tests that assert
// on panics directly.
func WithRecovery(enabled bool) Option {
	return func(o *busOptions) {
		o.recoveryEnabled = enabled
	}
}

// newBusOptions creates options with defaults and applies provided options
func newBusOptions(opts ...Option) *busOptions {
	o := &busOptions{
		name:            DefaultBusName,
		logger:          slog.Default(),
		clock:           clock.New(),
		tracingEnabled:  true,
		metricsEnabled:  true,
		recoveryEnabled: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// subscribeOptions holds per-subscription configuration (unexported)
type subscribeOptions struct {
	middleware []Middleware
}

// SubscribeOption is a functional option for configuring subscriptions.
type SubscribeOption func(*subscribeOptions)

// WithMiddleware adds middleware to the subscription's handler chain.
// Middleware runs in the order given, outermost first.
func WithMiddleware(ms ...Middleware) SubscribeOption {
	return func(o *subscribeOptions) {
		o.middleware = append(o.middleware, ms...)
	}
}

func newSubscribeOptions(opts ...SubscribeOption) *subscribeOptions {
	o := &subscribeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
