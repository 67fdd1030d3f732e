// Package outcome provides the two-state success/failure value returned by
// every request handler in the dispatch pipeline, together with the
// combinators used to chain fallible steps without exceptions
// (railway-oriented composition).
package outcome

// Outcome represents either a success carrying a value of type T or a
// failure carrying an ErrorInfo. Exactly one of the two states is
// populated; the payload is only reachable through Match or Switch, so no
// caller can read an unchecked value. Immutable once constructed.
type Outcome[T any] struct {
	value T
	err   *ErrorInfo
}

// Unit is the payload type for operations that succeed without producing
// a value (authorization checks, deletions).
type Unit struct{}

// Success creates a successful outcome carrying value.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Failure creates a failed outcome. A nil err is normalized to an
// unexpected failure so a failed Outcome always carries an ErrorInfo.
func Failure[T any](err *ErrorInfo) Outcome[T] {
	if err == nil {
		err = UnexpectedError("failure constructed with nil error")
	}
	return Outcome[T]{err: err}
}

// OK is shorthand for Success(Unit{}).
func OK() Outcome[Unit] {
	return Success(Unit{})
}

// IsSuccess reports whether the outcome is in the success state.
func (o Outcome[T]) IsSuccess() bool {
	return o.err == nil
}

// IsFailure reports whether the outcome is in the failure state.
func (o Outcome[T]) IsFailure() bool {
	return o.err != nil
}

// Map applies f to the success value, producing a new outcome of the
// mapped type. A failure passes through with its error untouched. f must
// not fail; steps that can fail belong in Then. A panic inside f is
// contained and becomes an unexpected failure.
func Map[T, U any](o Outcome[T], f func(T) U) (out Outcome[U]) {
	if o.err != nil {
		return Failure[U](o.err)
	}
	defer func() {
		if r := recover(); r != nil {
			out = Failure[U](recovered(r))
		}
	}()
	return Success(f(o.value))
}

// Then chains a fallible step: on success the value is replaced by the
// outcome of f, on failure f is never invoked and the error short-circuits
// through. This is the composition primitive for multi-step handlers.
// A panic inside f is contained and becomes an unexpected failure.
func Then[T, U any](o Outcome[T], f func(T) Outcome[U]) (out Outcome[U]) {
	if o.err != nil {
		return Failure[U](o.err)
	}
	defer func() {
		if r := recover(); r != nil {
			out = Failure[U](recovered(r))
		}
	}()
	return f(o.value)
}

// Where demotes a success to a failure when predicate returns false,
// using onFalse to describe the failure. Failures pass through unchanged.
func (o Outcome[T]) Where(predicate func(T) bool, onFalse func() *ErrorInfo) (out Outcome[T]) {
	if o.err != nil {
		return o
	}
	defer func() {
		if r := recover(); r != nil {
			out = Failure[T](recovered(r))
		}
	}()
	if !predicate(o.value) {
		return Failure[T](onFalse())
	}
	return o
}

// Match extracts the payload by forcing the caller to handle both states.
func Match[T, R any](o Outcome[T], onSuccess func(T) R, onFailure func(*ErrorInfo) R) R {
	if o.err != nil {
		return onFailure(o.err)
	}
	return onSuccess(o.value)
}

// Switch is the side-effecting form of Match.
func (o Outcome[T]) Switch(onSuccess func(T), onFailure func(*ErrorInfo)) {
	if o.err != nil {
		onFailure(o.err)
		return
	}
	onSuccess(o.value)
}

// ErrorInfo returns the failure description, or nil for a success.
// Intended for middleware that inspects failures in flight; application
// code should prefer Match.
func (o Outcome[T]) ErrorInfo() *ErrorInfo {
	return o.err
}

// ConvertFailure re-types a failed outcome without touching its error.
// It panics if the outcome is a success; it exists for middleware that
// must forward a failure produced under one payload type as another.
func ConvertFailure[T, U any](o Outcome[T]) Outcome[U] {
	if o.err == nil {
		panic("outcome: ConvertFailure called on a success")
	}
	return Failure[U](o.err)
}
