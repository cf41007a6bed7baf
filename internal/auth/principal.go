package auth

import (
	"context"
	"slices"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
}

func (p Principal) IsZero() bool {
	return p.UserID == ""
}

func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal attached by Middleware, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.IsZero() {
		return Principal{}, false
	}
	return p, true
}
