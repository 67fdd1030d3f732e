package outcome_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

func TestSuccess_MatchReturnsValue(t *testing.T) {
	o := outcome.Success(42)

	assert.True(t, o.IsSuccess())
	assert.False(t, o.IsFailure())

	got := outcome.Match(o,
		func(v int) int { return v },
		func(err *outcome.ErrorInfo) int { return -1 },
	)
	assert.Equal(t, 42, got)
}

func TestFailure_MatchReturnsError(t *testing.T) {
	o := outcome.Failure[int](outcome.NotFoundError("task %s not found", "t-1"))

	assert.True(t, o.IsFailure())

	err := outcome.Match(o,
		func(v int) *outcome.ErrorInfo { return nil },
		func(err *outcome.ErrorInfo) *outcome.ErrorInfo { return err },
	)
	require.NotNil(t, err)
	assert.Equal(t, outcome.KindNotFound, err.Kind)
	assert.Equal(t, "task t-1 not found", err.Message)
}

func TestFailure_NilErrorNormalized(t *testing.T) {
	o := outcome.Failure[int](nil)

	require.True(t, o.IsFailure())
	assert.Equal(t, outcome.KindUnexpected, o.ErrorInfo().Kind)
}

func TestMap_Identity(t *testing.T) {
	o := outcome.Success("value")

	mapped := outcome.Map(o, func(s string) string { return s })

	require.True(t, mapped.IsSuccess())
	got := outcome.Match(mapped,
		func(v string) string { return v },
		func(err *outcome.ErrorInfo) string { return "" },
	)
	assert.Equal(t, "value", got)
}

func TestMap_FailurePassesErrorUnchanged(t *testing.T) {
	original := outcome.ConflictError("version mismatch")
	o := outcome.Failure[int](original)

	invoked := false
	mapped := outcome.Map(o, func(v int) string {
		invoked = true
		return "never"
	})

	assert.False(t, invoked)
	require.True(t, mapped.IsFailure())
	assert.Same(t, original, mapped.ErrorInfo())
}

func TestThen_ChainsSuccesses(t *testing.T) {
	o := outcome.Success(2)

	result := outcome.Then(o, func(v int) outcome.Outcome[int] {
		return outcome.Success(v * 10)
	})

	got := outcome.Match(result,
		func(v int) int { return v },
		func(err *outcome.ErrorInfo) int { return -1 },
	)
	assert.Equal(t, 20, got)
}

func TestThen_ShortCircuitsOnFailure(t *testing.T) {
	original := outcome.ForbiddenError("nope")
	o := outcome.Failure[int](original)

	invoked := false
	result := outcome.Then(o, func(v int) outcome.Outcome[string] {
		invoked = true
		return outcome.Success("never")
	})

	assert.False(t, invoked)
	require.True(t, result.IsFailure())
	assert.Same(t, original, result.ErrorInfo())
}

func TestWhere_DemotesOnFalsePredicate(t *testing.T) {
	o := outcome.Success(5)

	result := o.Where(
		func(v int) bool { return v > 10 },
		func() *outcome.ErrorInfo { return outcome.ValidationError("too small") },
	)

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindValidationFailed, result.ErrorInfo().Kind)
}

func TestWhere_PassesOnTruePredicateAndFailure(t *testing.T) {
	ok := outcome.Success(50).Where(
		func(v int) bool { return v > 10 },
		func() *outcome.ErrorInfo { return outcome.ValidationError("too small") },
	)
	assert.True(t, ok.IsSuccess())

	original := outcome.NotFoundError("gone")
	failed := outcome.Failure[int](original).Where(
		func(v int) bool { return true },
		func() *outcome.ErrorInfo { return outcome.ValidationError("unused") },
	)
	require.True(t, failed.IsFailure())
	assert.Same(t, original, failed.ErrorInfo())
}

func TestMap_PanicBecomesUnexpectedFailure(t *testing.T) {
	o := outcome.Success(1)

	result := outcome.Map(o, func(v int) int {
		panic("boom")
	})

	require.True(t, result.IsFailure())
	err := result.ErrorInfo()
	assert.Equal(t, outcome.KindUnexpected, err.Kind)
	// The panic detail stays out of the user-facing message.
	assert.Equal(t, "an unexpected error occurred", err.Message)
	assert.Contains(t, err.Metadata["cause"], "boom")
}

func TestThen_PanicBecomesUnexpectedFailure(t *testing.T) {
	result := outcome.Then(outcome.Success(1), func(v int) outcome.Outcome[int] {
		panic("kaboom")
	})

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindUnexpected, result.ErrorInfo().Kind)
}

func TestSwitch_IsExhaustive(t *testing.T) {
	var visited string

	outcome.Success("v").Switch(
		func(v string) { visited = "success" },
		func(err *outcome.ErrorInfo) { visited = "failure" },
	)
	assert.Equal(t, "success", visited)

	outcome.Failure[string](outcome.CancelledError("stop")).Switch(
		func(v string) { visited = "success" },
		func(err *outcome.ErrorInfo) { visited = "failure" },
	)
	assert.Equal(t, "failure", visited)
}

func TestWithMetadata_DoesNotMutateReceiver(t *testing.T) {
	base := outcome.NewError(outcome.KindConflict, "base")

	derived := base.WithMetadata("key", "value")

	assert.Empty(t, base.Metadata)
	assert.Equal(t, "value", derived.Metadata["key"])
	assert.Equal(t, base.Message, derived.Message)
}

func TestConvertFailure_PreservesError(t *testing.T) {
	original := outcome.ForbiddenError("denied")

	converted := outcome.ConvertFailure[outcome.Unit, string](
		outcome.Failure[outcome.Unit](original))

	require.True(t, converted.IsFailure())
	assert.Same(t, original, converted.ErrorInfo())
}
