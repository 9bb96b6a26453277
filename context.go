package eventbus

import (
	"context"
	"log/slog"
)

type contextKey int

const deliveryContextKey contextKey = iota

// deliveryContextData is attached to the context passed to handlers for
// one delivery.
type deliveryContextData struct {
	eventID string
	typ     Type
	subID   string
	busName string
	logger  *slog.Logger
}

func contextWithDelivery(ctx context.Context, d *deliveryContextData) context.Context {
	return context.WithValue(ctx, deliveryContextKey, d)
}

// ContextEventID returns the publish-scoped event ID, or "" outside a
// delivery.
func ContextEventID(ctx context.Context) string {
	if d, ok := ctx.Value(deliveryContextKey).(*deliveryContextData); ok {
		return d.eventID
	}
	return ""
}

// ContextEventType returns the type key of the event being delivered.
func ContextEventType(ctx context.Context) Type {
	if d, ok := ctx.Value(deliveryContextKey).(*deliveryContextData); ok {
		return d.typ
	}
	return ""
}

// ContextSubscriptionID returns the ID of the subscription being invoked.
func ContextSubscriptionID(ctx context.Context) string {
	if d, ok := ctx.Value(deliveryContextKey).(*deliveryContextData); ok {
		return d.subID
	}
	return ""
}

// ContextBusName returns the name of the bus performing the delivery.
func ContextBusName(ctx context.Context) string {
	if d, ok := ctx.Value(deliveryContextKey).(*deliveryContextData); ok {
		return d.busName
	}
	return ""
}

// ContextLogger returns the delivery-scoped logger, falling back to
// slog.Default outside a delivery.
func ContextLogger(ctx context.Context) *slog.Logger {
	if d, ok := ctx.Value(deliveryContextKey).(*deliveryContextData); ok && d.logger != nil {
		return d.logger
	}
	return slog.Default()
}

// WithContextLogger returns a context whose ContextLogger is l. Delivery
// overwrites it with the bus logger when the context crosses a handler
// boundary.
func WithContextLogger(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}
	return contextWithDelivery(ctx, &deliveryContextData{logger: l})
}
