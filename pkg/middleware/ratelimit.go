package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// RateLimit returns a middleware that waits for a token from the limiter
// before letting the request proceed. The wait observes the dispatch
// context: cancellation while queued yields a cancelled outcome instead
// of an I/O error escaping the pipeline.
func RateLimit(limiter *rate.Limiter) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		if err := limiter.Wait(ctx); err != nil {
			return outcome.Failure[mediator.Response](
				outcome.CancelledError("rate limit wait aborted: %v", err))
		}
		return next(ctx, request)
	}
}
