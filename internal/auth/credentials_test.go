package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bem92/yoga-app/internal/model"
	"github.com/bem92/yoga-app/internal/repository"
)

type stubUsers struct {
	byEmail map[string]*model.User
	err     error
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func TestAuthenticator(t *testing.T) {
	hash, err := HashPassword("test!1234", bcrypt.MinCost)
	require.NoError(t, err)
	users := &stubUsers{byEmail: map[string]*model.User{
		"yoga@studio.com": {ID: 1, Email: "yoga@studio.com", FirstName: "Admin", LastName: "Admin", Admin: true, PasswordHash: hash},
	}}
	a := NewAuthenticator(users)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		p, err := a.Authenticate(ctx, "yoga@studio.com", "test!1234")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), p.ID)
		assert.True(t, p.Admin)
		assert.Equal(t, "Admin", p.FirstName)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "yoga@studio.com", "nope")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "ghost@studio.com", "test!1234")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("store failure is not bad credentials", func(t *testing.T) {
		broken := NewAuthenticator(&stubUsers{err: errors.New("db down")})
		_, err := broken.Authenticate(ctx, "yoga@studio.com", "test!1234")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("load principal", func(t *testing.T) {
		p, err := a.LoadPrincipal(ctx, "yoga@studio.com")
		require.NoError(t, err)
		assert.Equal(t, "yoga@studio.com", p.Email)

		_, err = a.LoadPrincipal(ctx, "ghost@studio.com")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, PrincipalFromContext(ctx))

	p := &Principal{ID: 3, Email: "p@studio.com"}
	assert.Same(t, p, PrincipalFromContext(WithPrincipal(ctx, p)))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "s3cret!"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret"))
}
