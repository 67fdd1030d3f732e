package mediator

import (
	"context"
	"fmt"
	"reflect"

	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// Mediator resolves the single handler for each request type and threads
// requests through the registered middleware chain.
//
// Lifecycle: Register/Use during process startup, then Seal once. After
// Seal the registry is immutable, one pipeline per request type is
// compiled and cached, and Send is safe for unsynchronized concurrent
// use. Registration calls after Seal return an error.
type Mediator struct {
	handlers    map[reflect.Type]RequestHandler
	middlewares []Middleware
	pipelines   map[reflect.Type]HandlerFunc
	sealed      bool
}

// NewMediator creates an empty mediator.
func NewMediator() *Mediator {
	return &Mediator{
		handlers: make(map[reflect.Type]RequestHandler),
	}
}

// Register registers a handler for a specific request type. Duplicate
// registration for the same type is a configuration error.
func (m *Mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	if m.sealed {
		return fmt.Errorf("mediator is sealed; registrations must happen before Seal")
	}

	if requestType == nil {
		return fmt.Errorf("request type cannot be nil")
	}

	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	if _, exists := m.handlers[requestType]; exists {
		return fmt.Errorf("handler already registered for type %s", requestType)
	}

	m.handlers[requestType] = handler
	return nil
}

// Use appends a middleware to the chain. Order is significant: the
// middleware registered first runs outermost.
func (m *Mediator) Use(mw Middleware) error {
	if m.sealed {
		return fmt.Errorf("mediator is sealed; middleware must be added before Seal")
	}
	if mw == nil {
		return fmt.Errorf("middleware cannot be nil")
	}
	m.middlewares = append(m.middlewares, mw)
	return nil
}

// Seal freezes registration and compiles one composed continuation per
// registered request type. Must be called exactly once after wiring and
// before the first Send.
func (m *Mediator) Seal() error {
	if m.sealed {
		return fmt.Errorf("mediator already sealed")
	}

	m.pipelines = make(map[reflect.Type]HandlerFunc, len(m.handlers))
	for requestType, handler := range m.handlers {
		m.pipelines[requestType] = Chain(handler.Handle, m.middlewares...)
	}

	m.sealed = true
	return nil
}

// Require verifies a handler is registered for each of the given request
// types. Wiring code calls it after Seal to fail fast on missing
// registrations instead of discovering them on the first dispatch.
func (m *Mediator) Require(requestTypes ...reflect.Type) error {
	for _, requestType := range requestTypes {
		if _, ok := m.handlers[requestType]; !ok {
			return fmt.Errorf("no handler registered for type %s", requestType)
		}
	}
	return nil
}

// Send dispatches a request through the middleware chain to its handler
// and returns the resulting outcome unchanged. Faults inside the chain
// are contained here: there is no code path through Send that panics or
// leaks an unstructured error to the caller.
func (m *Mediator) Send(ctx context.Context, request Request) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = outcome.Failure[Response](
				outcome.UnexpectedError(fmt.Sprintf("panic: %v", r)))
		}
	}()

	if !m.sealed {
		return outcome.Failure[Response](
			outcome.UnexpectedError("mediator used before Seal"))
	}

	if request == nil {
		return outcome.Failure[Response](
			outcome.UnexpectedError("request cannot be nil"))
	}

	if err := ctx.Err(); err != nil {
		return outcome.Failure[Response](
			outcome.CancelledError("dispatch cancelled: %v", err))
	}

	pipeline, ok := m.pipelines[reflect.TypeOf(request)]
	if !ok {
		// Missing registrations are a wiring bug; Require is the
		// startup-time guard. Surfaced as a structured failure because
		// Send never propagates faults.
		return outcome.Failure[Response](
			outcome.UnexpectedError(
				fmt.Sprintf("no handler registered for type %s", reflect.TypeOf(request))))
	}

	ctx = ensureCorrelationID(ctx)
	return pipeline(ctx, request)
}

// RegisterHandler registers a handler with the request type inferred from
// the type parameter.
func RegisterHandler[R Request](m *Mediator, handler RequestHandler) error {
	var zero R
	return m.Register(reflect.TypeOf(zero), handler)
}

// RegisterFunc registers a typed handler function. The wrapper asserts
// the request type and erases the payload type so the function can live
// in the untyped pipeline.
func RegisterFunc[R Request, T any](m *Mediator, handle func(ctx context.Context, request R) outcome.Outcome[T]) error {
	var zero R
	wrapped := HandlerFunc(func(ctx context.Context, request Request) Result {
		typed, ok := request.(R)
		if !ok {
			return outcome.Failure[Response](
				outcome.UnexpectedError(
					fmt.Sprintf("handler for %T received %T", zero, request)))
		}
		return erase(handle(ctx, typed))
	})
	return m.Register(reflect.TypeOf(zero), wrapped)
}

// Send dispatches a request and converts the untyped pipeline result back
// to a typed outcome. A payload that is not a T is reported as an
// unexpected failure rather than a panic.
func Send[T any](ctx context.Context, m *Mediator, request Request) outcome.Outcome[T] {
	return outcome.Then(m.Send(ctx, request), func(response Response) outcome.Outcome[T] {
		typed, ok := response.(T)
		if !ok {
			var zero T
			return outcome.Failure[T](
				outcome.UnexpectedError(
					fmt.Sprintf("handler for %T returned %T, expected %T", request, response, zero)))
		}
		return outcome.Success(typed)
	})
}

// erase converts a typed outcome into the pipeline's untyped Result.
func erase[T any](o outcome.Outcome[T]) Result {
	return outcome.Match(o,
		func(value T) Result { return outcome.Success[Response](value) },
		func(err *outcome.ErrorInfo) Result { return outcome.Failure[Response](err) },
	)
}
