package mediator_test

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

type pingQuery struct {
	Message string
}

type unregisteredQuery struct{}

func newSealedMediator(t *testing.T, middlewares ...mediator.Middleware) *mediator.Mediator {
	t.Helper()

	m := mediator.NewMediator()
	for _, mw := range middlewares {
		require.NoError(t, m.Use(mw))
	}
	err := mediator.RegisterFunc(m, func(ctx context.Context, q pingQuery) outcome.Outcome[string] {
		return outcome.Success("pong:" + q.Message)
	})
	require.NoError(t, err)
	require.NoError(t, m.Seal())
	return m
}

func TestMediator_SendDispatchesToRegisteredHandler(t *testing.T) {
	m := newSealedMediator(t)

	result := mediator.Send[string](context.Background(), m, pingQuery{Message: "hi"})

	got := outcome.Match(result,
		func(v string) string { return v },
		func(err *outcome.ErrorInfo) string { return err.Message },
	)
	assert.Equal(t, "pong:hi", got)
}

func TestMediator_SendReturnsExactlyOneState(t *testing.T) {
	m := newSealedMediator(t)

	result := m.Send(context.Background(), pingQuery{Message: "x"})

	assert.NotEqual(t, result.IsSuccess(), result.IsFailure())
}

func TestMediator_DuplicateRegistrationFails(t *testing.T) {
	m := mediator.NewMediator()

	handler := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) mediator.Result {
		return outcome.Success[mediator.Response](nil)
	})

	require.NoError(t, mediator.RegisterHandler[pingQuery](m, handler))
	err := mediator.RegisterHandler[pingQuery](m, handler)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestMediator_NilRegistrationFails(t *testing.T) {
	m := mediator.NewMediator()

	assert.Error(t, m.Register(nil, mediator.HandlerFunc(nil)))
	assert.Error(t, m.Register(reflect.TypeOf(pingQuery{}), nil))
}

func TestMediator_RegistrationAfterSealFails(t *testing.T) {
	m := newSealedMediator(t)

	err := mediator.RegisterFunc(m, func(ctx context.Context, q unregisteredQuery) outcome.Outcome[string] {
		return outcome.Success("late")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sealed")

	assert.Error(t, m.Use(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		return next(ctx, request)
	}))
}

func TestMediator_RequireFailsFastOnMissingHandler(t *testing.T) {
	m := newSealedMediator(t)

	assert.NoError(t, m.Require(reflect.TypeOf(pingQuery{})))

	err := m.Require(reflect.TypeOf(unregisteredQuery{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestMediator_UnregisteredRequestYieldsStructuredFailure(t *testing.T) {
	m := newSealedMediator(t)

	result := m.Send(context.Background(), unregisteredQuery{})

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindUnexpected, result.ErrorInfo().Kind)
}

func TestMediator_CancelledContextShortCircuits(t *testing.T) {
	handlerCalled := false
	m := mediator.NewMediator()
	err := mediator.RegisterFunc(m, func(ctx context.Context, q pingQuery) outcome.Outcome[string] {
		handlerCalled = true
		return outcome.Success("never")
	})
	require.NoError(t, err)
	require.NoError(t, m.Seal())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := m.Send(ctx, pingQuery{})

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindCancelled, result.ErrorInfo().Kind)
	assert.False(t, handlerCalled, "handler must not run after cancellation")
}

func TestMediator_HandlerPanicBecomesUnexpectedFailure(t *testing.T) {
	m := mediator.NewMediator()
	err := mediator.RegisterFunc(m, func(ctx context.Context, q pingQuery) outcome.Outcome[string] {
		panic("handler defect")
	})
	require.NoError(t, err)
	require.NoError(t, m.Seal())

	result := m.Send(context.Background(), pingQuery{})

	require.True(t, result.IsFailure())
	info := result.ErrorInfo()
	assert.Equal(t, outcome.KindUnexpected, info.Kind)
	assert.Contains(t, info.Metadata["cause"], "handler defect")
}

func TestMediator_SendInjectsCorrelationID(t *testing.T) {
	var seen string
	m := mediator.NewMediator()
	err := mediator.RegisterFunc(m, func(ctx context.Context, q pingQuery) outcome.Outcome[string] {
		seen = mediator.CorrelationIDFromContext(ctx)
		return outcome.Success("ok")
	})
	require.NoError(t, err)
	require.NoError(t, m.Seal())

	m.Send(context.Background(), pingQuery{})
	assert.NotEmpty(t, seen)

	m.Send(mediator.WithCorrelationID(context.Background(), "fixed-id"), pingQuery{})
	assert.Equal(t, "fixed-id", seen)
}

func TestMediator_TypedSendPayloadMismatch(t *testing.T) {
	m := newSealedMediator(t)

	result := mediator.Send[int](context.Background(), m, pingQuery{Message: "hi"})

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindUnexpected, result.ErrorInfo().Kind)
}

func TestMediator_ConcurrentSendIsSafe(t *testing.T) {
	m := newSealedMediator(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				result := m.Send(context.Background(), pingQuery{Message: "c"})
				if result.IsFailure() {
					t.Error("concurrent dispatch failed")
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("concurrent dispatch deadlocked")
	}
}

func TestMediator_SendBeforeSealFails(t *testing.T) {
	m := mediator.NewMediator()

	result := m.Send(context.Background(), pingQuery{})

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindUnexpected, result.ErrorInfo().Kind)
}
