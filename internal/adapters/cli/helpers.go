package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/andrescamacho/dispatch-go/pkg/authorization"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// Exit codes by outcome kind. This is the adapter-specific translation
// the pipeline core leaves to its callers.
const (
	exitOK         = 0
	exitNotFound   = 2
	exitForbidden  = 3
	exitValidation = 4
	exitConflict   = 5
	exitCancelled  = 6
	exitUnexpected = 1
)

func exitCodeFor(kind outcome.ErrorKind) int {
	switch kind {
	case outcome.KindNotFound:
		return exitNotFound
	case outcome.KindForbidden:
		return exitForbidden
	case outcome.KindValidationFailed:
		return exitValidation
	case outcome.KindConflict:
		return exitConflict
	case outcome.KindCancelled:
		return exitCancelled
	default:
		return exitUnexpected
	}
}

// requestContext builds the per-call context with the acting principal
// taken from the global flags.
func requestContext() context.Context {
	ctx := context.Background()
	if actorID != "" {
		ctx = authorization.WithPrincipal(ctx, authorization.Principal{
			ID:    actorID,
			Roles: actorRoles,
		})
	}
	return ctx
}

// render prints the success view or the failure and exits non-zero on
// failure.
func render[T any](result outcome.Outcome[T], onSuccess func(T)) {
	result.Switch(
		onSuccess,
		func(err *outcome.ErrorInfo) {
			fmt.Fprintf(os.Stderr, "error (%s): %s\n", err.Kind, err.Message)
			if verbose {
				for k, v := range err.Metadata {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", k, v)
				}
			}
			os.Exit(exitCodeFor(err.Kind))
		},
	)
}
