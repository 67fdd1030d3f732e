package mediator

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for passing per-dispatch data through context
type contextKey int

const (
	correlationIDKey contextKey = iota
)

// WithCorrelationID attaches a correlation id to the context. Send calls
// this automatically with a fresh uuid when none is present, so every
// dispatch is traceable through logging and metrics middleware.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext extracts the correlation id from context.
// Returns an empty string if none was set.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

func ensureCorrelationID(ctx context.Context) context.Context {
	if CorrelationIDFromContext(ctx) != "" {
		return ctx
	}
	return WithCorrelationID(ctx, uuid.NewString())
}
