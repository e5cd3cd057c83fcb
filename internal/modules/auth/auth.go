package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/lubinda/stockline-backend/internal/modules/account"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Principal is the authenticated caller attached to the request context by
// the Authorize middleware. The core trusts it for every role-gated
// operation and never re-derives the role from the request payload.
type Principal struct {
	AccountID uuid.UUID
	Role      account.Role
	BranchID  *uuid.UUID
}

type contextKey struct{}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom extracts the authenticated principal from the context.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
