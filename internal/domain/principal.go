package domain

import "context"

// DefaultRole is assigned when a token carries no role claim.
const DefaultRole = "authenticated"

// Principal is the authenticated caller on whose behalf data is scoped.
type Principal struct {
	ID    string
	Email string
	Role  string
}

type principalKey struct{}

// ContextWithPrincipal stores the resolved principal in the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal placed by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.ID == "" {
		return Principal{}, false
	}
	return p, true
}
