// Package validation runs ordered validation rules against requests
// before their handler is invoked. Failures aggregate in declaration
// order; any Error-severity failure stops the pipeline with a
// validation_failed outcome, Warning-severity findings are advisory.
package validation

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
)

// Severity classifies a validation failure.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the stable name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// Failure is a single validation finding.
type Failure struct {
	PropertyPath string
	Message      string
	Code         string
	Severity     Severity
}

// String renders the failure the way it is carried in outcome metadata.
func (f Failure) String() string {
	return fmt.Sprintf("%s: %s [%s]", f.PropertyPath, f.Message, f.Code)
}

// Rule inspects a request and returns zero or more failures. Rules run
// unconditionally and in declaration order; a rule never sees whether an
// earlier rule failed.
type Rule func(ctx context.Context, request mediator.Request) []Failure

// ValidatorSet maps request types to their ordered validation rules.
// Built once at startup, read-only afterwards.
type ValidatorSet struct {
	validators map[reflect.Type][]Rule
}

// NewValidatorSet creates an empty validator set.
func NewValidatorSet() *ValidatorSet {
	return &ValidatorSet{validators: make(map[reflect.Type][]Rule)}
}

// Register attaches an ordered rule list to a request type.
func (s *ValidatorSet) Register(requestType reflect.Type, rules ...Rule) error {
	if requestType == nil {
		return fmt.Errorf("request type cannot be nil")
	}
	if _, exists := s.validators[requestType]; exists {
		return fmt.Errorf("validator already registered for type %s", requestType)
	}
	s.validators[requestType] = append([]Rule(nil), rules...)
	return nil
}

// RegisterValidator registers rules with the request type inferred from
// the type parameter.
func RegisterValidator[R mediator.Request](s *ValidatorSet, rules ...Rule) error {
	var zero R
	return s.Register(reflect.TypeOf(zero), rules...)
}

// Validate runs every rule for the request's type and returns the
// aggregated failures in declaration order. The error return is non-nil
// only when a rule itself is defective (panicked).
func (s *ValidatorSet) Validate(ctx context.Context, request mediator.Request) ([]Failure, error) {
	rules := s.validators[reflect.TypeOf(request)]

	var failures []Failure
	for i, rule := range rules {
		found, err := runRule(ctx, rule, request)
		if err != nil {
			return nil, fmt.Errorf("validation rule %d for %T: %w", i, request, err)
		}
		failures = append(failures, found...)
	}
	return failures, nil
}

func runRule(ctx context.Context, rule Rule, request mediator.Request) (found []Failure, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rule(ctx, request), nil
}

// Field builds a rule from a typed predicate: the failure is reported
// when the predicate returns false. Requests of a different concrete
// type produce no finding; the middleware dispatches rules by request
// type so that only indicates a wiring mistake in a hand-rolled caller.
func Field[R mediator.Request](path string, predicate func(request R) bool, message, code string, severity Severity) Rule {
	return func(_ context.Context, request mediator.Request) []Failure {
		typed, ok := request.(R)
		if !ok {
			return nil
		}
		if predicate(typed) {
			return nil
		}
		return []Failure{{
			PropertyPath: path,
			Message:      message,
			Code:         code,
			Severity:     severity,
		}}
	}
}

// StructRule adapts go-playground struct-tag validation into a rule.
// Each tag violation becomes an Error-severity failure keyed by the
// field's namespace, with the failing tag as the code.
func StructRule(validate *validator.Validate) Rule {
	return func(ctx context.Context, request mediator.Request) []Failure {
		err := validate.StructCtx(ctx, request)
		if err == nil {
			return nil
		}

		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			// Non-struct requests or an invalid validator setup.
			return []Failure{{
				PropertyPath: fmt.Sprintf("%T", request),
				Message:      err.Error(),
				Code:         "struct",
				Severity:     SeverityError,
			}}
		}

		failures := make([]Failure, 0, len(verrs))
		for _, verr := range verrs {
			failures = append(failures, Failure{
				PropertyPath: verr.StructNamespace(),
				Message:      fmt.Sprintf("failed %q validation", verr.Tag()),
				Code:         verr.Tag(),
				Severity:     SeverityError,
			})
		}
		return failures
	}
}
