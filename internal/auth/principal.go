package auth

import (
	"context"

	"github.com/bem92/yoga-app/internal/model"
)

// Principal is the authenticated identity attached to a request.  It is
// built from a stored user and lives only for the duration of the request.
type Principal struct {
	ID           uint64
	Email        string
	FirstName    string
	LastName     string
	Admin        bool
	PasswordHash string
}

// PrincipalFromUser builds the principal for a stored user.
func PrincipalFromUser(u *model.User) *Principal {
	return &Principal{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Admin:        u.Admin,
		PasswordHash: u.PasswordHash,
	}
}

type contextKey int

const (
	principalContextKey contextKey = iota
)

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext extracts the authenticated principal from the request context.
// Returns nil if no principal is present (unauthenticated request).
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(principalContextKey).(*Principal)
	return principal
}
