package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

func recordingMiddleware(name string, trace *[]string) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		*trace = append(*trace, name+"-enter")
		result := next(ctx, request)
		*trace = append(*trace, name+"-exit")
		return result
	}
}

func TestChain_NestedInvocationOrder(t *testing.T) {
	// Arrange
	var trace []string
	handler := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) mediator.Result {
		trace = append(trace, "handler")
		return outcome.Success[mediator.Response]("done")
	})

	chain := mediator.Chain(handler,
		recordingMiddleware("authorization", &trace),
		recordingMiddleware("validation", &trace),
		recordingMiddleware("logging", &trace),
	)

	// Act
	result := chain(context.Background(), "request")

	// Assert: first registered is outermost, reverse order on the way out
	require.True(t, result.IsSuccess())
	assert.Equal(t, []string{
		"authorization-enter",
		"validation-enter",
		"logging-enter",
		"handler",
		"logging-exit",
		"validation-exit",
		"authorization-exit",
	}, trace)
}

func TestChain_MiddlewareShortCircuitsWithFailure(t *testing.T) {
	var handlerCalled bool
	handler := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) mediator.Result {
		handlerCalled = true
		return outcome.Success[mediator.Response](nil)
	})

	denying := mediator.Middleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		return outcome.Failure[mediator.Response](outcome.ForbiddenError("denied"))
	})

	var innerCalled bool
	inner := mediator.Middleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		innerCalled = true
		return next(ctx, request)
	})

	result := mediator.Chain(handler, denying, inner)(context.Background(), "request")

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindForbidden, result.ErrorInfo().Kind)
	assert.False(t, innerCalled, "middleware after the short-circuit must not run")
	assert.False(t, handlerCalled)
}

func TestChain_MiddlewareShortCircuitsWithSuccess(t *testing.T) {
	var handlerCalled bool
	handler := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) mediator.Result {
		handlerCalled = true
		return outcome.Success[mediator.Response]("from handler")
	})

	cacheHit := mediator.Middleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		return outcome.Success[mediator.Response]("from cache")
	})

	result := mediator.Chain(handler, cacheHit)(context.Background(), "request")

	got := outcome.Match(result,
		func(v mediator.Response) string { return v.(string) },
		func(err *outcome.ErrorInfo) string { return "" },
	)
	assert.Equal(t, "from cache", got)
	assert.False(t, handlerCalled)
}

func TestChain_NoMiddlewareInvokesHandlerDirectly(t *testing.T) {
	handler := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) mediator.Result {
		return outcome.Success[mediator.Response](request)
	})

	result := mediator.Chain(handler)(context.Background(), "echo")

	got := outcome.Match(result,
		func(v mediator.Response) string { return v.(string) },
		func(err *outcome.ErrorInfo) string { return "" },
	)
	assert.Equal(t, "echo", got)
}
