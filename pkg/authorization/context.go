// Package authorization evaluates ordered, declarative rules against a
// request and the acting principal, producing an outcome the dispatch
// pipeline can short-circuit on. Role hierarchies are resolved once at
// configuration time; evaluation never walks the role graph.
package authorization

import "context"

// Principal is the acting identity for a dispatch. The core treats it as
// an opaque read-only value supplied by the host's claims provider.
type Principal struct {
	ID    string
	Roles []string
}

// Context keys for passing authorization data through context
type authContextKey int

const (
	principalKey authContextKey = iota
)

// WithPrincipal injects the acting principal into the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the acting principal from context.
// The second return value is false when no principal was set
// (an anonymous call).
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
