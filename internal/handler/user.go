package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bem92/yoga-app/internal/auth"
	"github.com/bem92/yoga-app/internal/middleware"
	"github.com/bem92/yoga-app/internal/model"
	"github.com/bem92/yoga-app/internal/repository"
)

type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	Delete(ctx context.Context, id uint64) error
}

type UserHandler struct {
	Users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) FindByID(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound(c, "user")
		}
		return internalError(c, err, "get user failed")
	}
	return c.JSON(http.StatusOK, toUserDto(u))
}

// Delete removes an account.  Only the account owner may do so; anyone else
// gets 401, admins included.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound(c, "user")
		}
		return internalError(c, err, "get user failed")
	}

	p := auth.PrincipalFromContext(c.Request().Context())
	if p == nil || p.Email != u.Email {
		zerolog.Ctx(ctx).Warn().Uint64("user_id", id).Msg("delete of another account refused")
		return middleware.WriteError(c, http.StatusUnauthorized, "cannot delete another user's account")
	}

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound(c, "user")
		}
		return internalError(c, err, "delete user failed")
	}
	return c.NoContent(http.StatusOK)
}
