package eventbus

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	spanKeyEventID        = "event.id"
	spanKeyEventType      = "event.type"
	spanKeyEventBus       = "event.bus"
	spanKeySubscriptionID = "subscription.id"
)

// busMetrics holds the OTel instruments recorded during publish and
// delivery. Instrument creation errors are ignored; a failed instrument is
// a no-op, same policy as the upstream meter API suggests for hot paths.
type busMetrics struct {
	published       metric.Int64Counter
	delivered       metric.Int64Counter
	skipped         metric.Int64Counter
	failed          metric.Int64Counter
	subscribed      metric.Int64Counter
	handlerDuration metric.Float64Histogram
}

func newBusMetrics(name string) *busMetrics {
	meter := otel.Meter(name)

	published, _ := meter.Int64Counter("event.published",
		metric.WithDescription("Total number of events published"))
	delivered, _ := meter.Int64Counter("event.delivered",
		metric.WithDescription("Total number of handler deliveries"))
	skipped, _ := meter.Int64Counter("event.skipped",
		metric.WithDescription("Deliveries skipped for paused or canceled handles"))
	failed, _ := meter.Int64Counter("event.failed",
		metric.WithDescription("Deliveries aborted by a handler error"))
	subscribed, _ := meter.Int64Counter("event.subscribed",
		metric.WithDescription("Total number of subscriptions"))
	handlerDuration, _ := meter.Float64Histogram("event.handler.duration",
		metric.WithDescription("Handler execution time"),
		metric.WithUnit("s"))

	return &busMetrics{
		published:       published,
		delivered:       delivered,
		skipped:         skipped,
		failed:          failed,
		subscribed:      subscribed,
		handlerDuration: handlerDuration,
	}
}
