package async

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Operation is a long-running unit of work executed under Track.
type Operation[T any] func(ctx context.Context) (T, error)

// trackOptions holds configuration for tracked execution (unexported)
type trackOptions struct {
	name           string
	logger         *slog.Logger
	clock          clock.Clock
	metricsEnabled bool
}

// Option is a functional option for Track.
type Option func(*trackOptions)

// WithName sets the operation name used in logs and metric attributes.
func WithName(name string) Option {
	return func(o *trackOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger for tracked execution.
func WithLogger(l *slog.Logger) Option {
	return func(o *trackOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the clock used for duration measurement.
func WithClock(c clock.Clock) Option {
	return func(o *trackOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithMetrics enables/disables the operation duration metric.
func WithMetrics(enabled bool) Option {
	return func(o *trackOptions) {
		o.metricsEnabled = enabled
	}
}

func newTrackOptions(opts ...Option) *trackOptions {
	o := &trackOptions{
		name:           "operation",
		logger:         slog.Default(),
		clock:          clock.New(),
		metricsEnabled: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Track runs op and reports its outcome through emit: first Loading, then
// exactly one terminal state, Data on success or Error on failure. A
// failure never escapes Track; errors and panics both become the Error
// variant, with the stack captured for panics. The terminal state is also
// returned.
//
// Callers are expected to move Idle -> Loading -> terminal, but the
// container does not enforce that ordering; Track is simply the only
// producer in this module and always follows it.
func Track[T any](ctx context.Context, emit func(State[T]), op Operation[T], opts ...Option) State[T] {
	o := newTrackOptions(opts...)
	if emit == nil {
		emit = func(State[T]) {}
	}

	emit(Loading[T]())

	start := o.clock.Now()
	result := run(ctx, op)
	elapsed := o.clock.Since(start)

	status := "ok"
	if result.HasError() {
		status = "error"
		o.logger.Error("tracked operation failed",
			"operation", o.name,
			"error", result.Err(),
			"elapsed", elapsed)
	}
	if o.metricsEnabled {
		meter := otel.Meter("eventbus.async")
		duration, _ := meter.Float64Histogram("async.operation.duration",
			metric.WithDescription("Tracked operation execution time"),
			metric.WithUnit("s"))
		duration.Record(ctx, elapsed.Seconds(),
			metric.WithAttributes(
				attribute.String("operation", o.name),
				attribute.String("status", status)))
	}

	emit(result)
	return result
}

// run executes op with panic containment. Exactly one of Data or Err is
// produced.
func run[T any](ctx context.Context, op Operation[T]) (s State[T]) {
	defer func() {
		if r := recover(); r != nil {
			s = ErrTrace[T](fmt.Errorf("operation panic: %v", r), debug.Stack())
		}
	}()
	v, err := op(ctx)
	if err != nil {
		return Err[T](err)
	}
	return Data(v)
}
