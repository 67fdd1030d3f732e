package authorization

import (
	"context"
	"fmt"
	"reflect"

	"github.com/andrescamacho/dispatch-go/pkg/mediator"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
)

// Rule is a single declarative authorization check. Predicate may perform
// I/O through ctx (ownership lookups and the like); returning false means
// the rule denies the request with Message. Returning an error marks a
// defect in the rule itself, not a denial.
type Rule struct {
	Message   string
	Predicate func(ctx context.Context, request mediator.Request, principal Principal) (bool, error)
}

// PolicySet maps request types to their ordered authorization rules.
// Built once at startup, read-only afterwards.
type PolicySet struct {
	policies map[reflect.Type][]Rule
}

// NewPolicySet creates an empty policy set.
func NewPolicySet() *PolicySet {
	return &PolicySet{policies: make(map[reflect.Type][]Rule)}
}

// Register attaches an ordered rule list to a request type. Declaration
// order is the evaluation order. Duplicate registration is a
// configuration error.
func (s *PolicySet) Register(requestType reflect.Type, rules ...Rule) error {
	if requestType == nil {
		return fmt.Errorf("request type cannot be nil")
	}
	if _, exists := s.policies[requestType]; exists {
		return fmt.Errorf("policy already registered for type %s", requestType)
	}
	s.policies[requestType] = append([]Rule(nil), rules...)
	return nil
}

// RegisterPolicy registers rules with the request type inferred from the
// type parameter.
func RegisterPolicy[R mediator.Request](s *PolicySet, rules ...Rule) error {
	var zero R
	return s.Register(reflect.TypeOf(zero), rules...)
}

// Evaluate runs the rules registered for the request's type strictly in
// declaration order, short-circuiting on the first failing rule with a
// forbidden outcome carrying that rule's message. A request type with no
// registered policy is authorized. Rules after a failing rule are never
// evaluated.
func (s *PolicySet) Evaluate(ctx context.Context, request mediator.Request) outcome.Outcome[outcome.Unit] {
	rules, ok := s.policies[reflect.TypeOf(request)]
	if !ok {
		return outcome.OK()
	}

	principal, _ := PrincipalFromContext(ctx)

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return outcome.Failure[outcome.Unit](
				outcome.CancelledError("authorization cancelled: %v", err))
		}

		allowed, err := evaluateRule(ctx, rule, request, principal)
		if err != nil {
			return outcome.Failure[outcome.Unit](
				outcome.UnexpectedError(fmt.Sprintf("authorization rule: %v", err)))
		}
		if !allowed {
			return outcome.Failure[outcome.Unit](
				outcome.ForbiddenError("%s", rule.Message))
		}
	}

	return outcome.OK()
}

// evaluateRule contains predicate faults so a panicking rule denies
// nothing and authorizes nothing; it surfaces as a defect.
func evaluateRule(ctx context.Context, rule Rule, request mediator.Request, principal Principal) (allowed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			allowed = false
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if rule.Predicate == nil {
		return false, fmt.Errorf("rule %q has no predicate", rule.Message)
	}
	return rule.Predicate(ctx, request, principal)
}

// Middleware returns the authorization interceptor: it evaluates the
// policy for the request type and short-circuits the pipeline on denial.
func Middleware(policies *PolicySet) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) mediator.Result {
		result := policies.Evaluate(ctx, request)
		if result.IsFailure() {
			return outcome.ConvertFailure[outcome.Unit, mediator.Response](result)
		}
		return next(ctx, request)
	}
}

// RequireAuthenticated denies requests dispatched without a principal in
// context.
func RequireAuthenticated() Rule {
	return Rule{
		Message: "authentication required",
		Predicate: func(ctx context.Context, _ mediator.Request, _ Principal) (bool, error) {
			_, ok := PrincipalFromContext(ctx)
			return ok, nil
		},
	}
}

// RequireRole requires the principal to hold the role directly.
func RequireRole(role string) Rule {
	return Rule{
		Message: fmt.Sprintf("role %q required", role),
		Predicate: func(_ context.Context, _ mediator.Request, principal Principal) (bool, error) {
			for _, r := range principal.Roles {
				if r == role {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// RequirePermission requires the principal's roles to carry the
// permission through the resolved role hierarchy.
func RequirePermission(registry *RoleRegistry, permission string) Rule {
	return Rule{
		Message: fmt.Sprintf("permission %q required", permission),
		Predicate: func(_ context.Context, _ mediator.Request, principal Principal) (bool, error) {
			return registry.HasPermission(principal.Roles, permission), nil
		},
	}
}
