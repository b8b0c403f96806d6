package domain

import "context"

type principalKey struct{}

// AnonymousPrincipal is the name recorded when a request carries no identity.
const AnonymousPrincipal = "anonymous"

// ContextPrincipal carries the caller identity through request context.
// It is used for attribution (audit, created_by) only.
type ContextPrincipal struct {
	Name string
}

// WithPrincipal stores a ContextPrincipal in the context.
func WithPrincipal(ctx context.Context, p ContextPrincipal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the ContextPrincipal from the context.
func PrincipalFromContext(ctx context.Context) (ContextPrincipal, bool) {
	p, ok := ctx.Value(principalKey{}).(ContextPrincipal)
	return p, ok
}

// PrincipalName returns the principal name stored in ctx, or AnonymousPrincipal.
func PrincipalName(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Name == "" {
		return AnonymousPrincipal
	}
	return p.Name
}
