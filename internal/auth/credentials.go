package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bem92/yoga-app/internal/model"
	"github.com/bem92/yoga-app/internal/repository"
)

// ErrBadCredentials covers both an unknown email and a wrong password.
var ErrBadCredentials = errors.New("bad credentials")

// UserFinder looks users up by email.  Implementations return
// repository.ErrUserNotFound when no user matches.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Authenticator verifies credentials and resolves principals for validated
// token subjects.
type Authenticator struct {
	users UserFinder
	// compared against when the email is unknown so both failure paths cost a bcrypt round
	dummyHash []byte
}

func NewAuthenticator(users UserFinder) *Authenticator {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)
	return &Authenticator{users: users, dummyHash: dummy}
}

// Authenticate returns the principal for email when password matches its
// stored hash.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*Principal, error) {
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return PrincipalFromUser(u), nil
}

// LoadPrincipal resolves the principal behind a token subject.
func (a *Authenticator) LoadPrincipal(ctx context.Context, email string) (*Principal, error) {
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load principal %q: %w", email, err)
	}
	return PrincipalFromUser(u), nil
}
