package validation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
	"github.com/andrescamacho/dispatch-go/pkg/middleware"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// Middleware returns the validation interceptor. It runs the validators
// registered for the request type; if any Error-severity failure is
// produced it short-circuits with a validation_failed outcome carrying
// the ordered failure list in metadata. Warning-only findings are logged
// through the context logger and the request proceeds.
func Middleware(validators *ValidatorSet) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		failures, err := validators.Validate(ctx, request)
		if err != nil {
			return outcome.Failure[mediator.Response](
				outcome.UnexpectedError(err.Error()))
		}

		var errors, warnings []Failure
		for _, f := range failures {
			if f.Severity == SeverityWarning {
				warnings = append(warnings, f)
			} else {
				errors = append(errors, f)
			}
		}

		if len(errors) > 0 {
			return outcome.Failure[mediator.Response](failureError(request, errors))
		}

		for _, w := range warnings {
			middleware.LoggerFromContext(ctx).Log("warn", "validation warning", map[string]interface{}{
				"request":  fmt.Sprintf("%T", request),
				"property": w.PropertyPath,
				"message":  w.Message,
				"code":     w.Code,
			})
		}

		return next(ctx, request)
	}
}

// failureError encodes the ordered Error-severity failures into outcome
// metadata: failure_count plus failure_0..failure_n in declaration order.
func failureError(request mediator.Request, errors []Failure) *outcome.ErrorInfo {
	err := outcome.ValidationError("request %T failed validation", request).
		WithMetadata("failure_count", strconv.Itoa(len(errors)))
	for i, f := range errors {
		err = err.WithMetadata(fmt.Sprintf("failure_%d", i), f.String())
	}
	return err
}
