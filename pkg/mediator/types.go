// Package mediator dispatches command and query requests to their single
// registered handler through an ordered middleware chain. Handlers and
// middleware communicate results exclusively through outcome.Outcome;
// no code path out of Send raises a panic or returns a bare error.
package mediator

import (
	"context"

	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// Request represents a command or query. Requests are immutable value
// objects carrying no behavior; each concrete type maps to exactly one
// registered handler.
type Request interface{}

// Response represents the success payload produced by handling a request.
type Response interface{}

// Result is the untyped outcome flowing through the pipeline. The typed
// Send facade converts it back to outcome.Outcome[T] at the boundary.
type Result = outcome.Outcome[Response]

// RequestHandler handles a specific request type.
type RequestHandler interface {
	Handle(ctx context.Context, request Request) Result
}

// HandlerFunc is a function that handles a request. It doubles as the
// continuation passed to middleware.
type HandlerFunc func(ctx context.Context, request Request) Result

// Handle implements RequestHandler.
func (f HandlerFunc) Handle(ctx context.Context, request Request) Result {
	return f(ctx, request)
}

// Middleware wraps handler execution with cross-cutting concerns
// (authorization, validation, logging, caching, metrics). A middleware
// may call next at most once and post-process its result, or
// short-circuit by returning a Result of its own. Calling next more than
// once is a programmer error with unspecified behavior.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) Result
