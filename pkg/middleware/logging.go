// Package middleware provides the stock cross-cutting interceptors for
// the dispatch pipeline: request logging, result caching, Prometheus
// metrics, and rate limiting.
package middleware

import (
	"context"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
)

// Logger provides logging functionality for pipeline operations.
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op
// logger if not found.
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
	// Do nothing
}

// StdLogger writes through the standard library logger.
type StdLogger struct {
	logger *log.Logger
}

// NewStdLogger creates a logger backed by log.Default, or by the given
// logger when non-nil.
func NewStdLogger(logger *log.Logger) *StdLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &StdLogger{logger: logger}
}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	l.logger.Printf("[%s] %s %v", level, message, metadata)
}

// Logging returns a middleware that injects logger into the context and
// records request entry and exit with the request name, correlation id,
// duration, and final status.
func Logging(logger Logger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		name := RequestName(request)
		correlationID := mediator.CorrelationIDFromContext(ctx)
		ctx = WithLogger(ctx, logger)

		logger.Log("info", "dispatching request", map[string]interface{}{
			"request":        name,
			"correlation_id": correlationID,
		})

		start := time.Now()
		result := next(ctx, request)

		status := "success"
		if info := result.ErrorInfo(); info != nil {
			status = string(info.Kind)
		}
		logger.Log("info", "request completed", map[string]interface{}{
			"request":        name,
			"correlation_id": correlationID,
			"status":         status,
			"duration":       time.Since(start).String(),
		})

		return result
	}
}

// RequestName extracts a clean request name via reflection.
// Examples:
//   - "*commands.CreateTaskCommand" → "CreateTaskCommand"
//   - "queries.GetTaskQuery" → "GetTaskQuery"
func RequestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}

	fullName := reflect.TypeOf(request).String()
	fullName = strings.TrimPrefix(fullName, "*")

	parts := strings.Split(fullName, ".")
	return parts[len(parts)-1]
}
