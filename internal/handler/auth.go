package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bem92/yoga-app/internal/auth"
	"github.com/bem92/yoga-app/internal/config"
	"github.com/bem92/yoga-app/internal/middleware"
	"github.com/bem92/yoga-app/internal/model"
	"github.com/bem92/yoga-app/internal/repository"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*auth.Principal, error)
}

type TokenIssuer interface {
	Issue(p *auth.Principal) (auth.AccessToken, error)
}

type AccountStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *model.User) error
}

// AuthHandler bundles dependencies for the credential endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  AccountStore
	Auth   Authenticator
	Tokens TokenIssuer
}

func NewAuthHandler(cfg config.Config, users AccountStore, authn Authenticator, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Auth: authn, Tokens: tokens}
}

const (
	msgEmailTaken = "Error: Email is already taken!"
	msgRegistered = "User registered successfully!"
	msgBadCreds   = "Bad credentials"
)

// Login verifies credentials and returns a bearer token.  Unknown emails and
// wrong passwords produce the same 401 body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := req.validate(); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Auth.Authenticate(ctx, repository.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			return middleware.EntryPoint(c, msgBadCreds)
		}
		return internalError(c, err, "authentication failed")
	}

	tok, err := h.Tokens.Issue(p)
	if err != nil {
		return internalError(c, err, "issue token failed")
	}

	return c.JSON(http.StatusOK, jwtResp{
		Token:     tok.Token,
		Type:      "Bearer",
		ID:        p.ID,
		Username:  p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Admin:     p.Admin,
	})
}

// Register creates a non-admin account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := req.validate(); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	taken, err := h.Users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return internalError(c, err, "lookup user failed")
	}
	if taken {
		return c.JSON(http.StatusBadRequest, messageResp{Message: msgEmailTaken})
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return internalError(c, err, "hash password failed")
	}
	u := &model.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, messageResp{Message: msgEmailTaken})
		}
		return internalError(c, err, "create user failed")
	}

	return c.JSON(http.StatusOK, messageResp{Message: msgRegistered})
}
