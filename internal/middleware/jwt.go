package middleware // reusable HTTP middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bem92/yoga-app/internal/auth"
)

// TokenVerifier is the part of the token codec the filter needs.
type TokenVerifier interface {
	IsValidContext(ctx context.Context, raw string) bool
	ParseSubject(raw string) (string, error)
}

// PrincipalLoader resolves the principal for a verified token subject.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, email string) (*auth.Principal, error)
}

// Authenticate installs the principal of a valid Bearer token into the
// request context.  It never rejects a request: a missing, invalid or
// unresolvable token leaves the request unauthenticated and RequireAuth
// decides what happens next.
func Authenticate(tokens TokenVerifier, loader PrincipalLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if p := resolvePrincipal(req, tokens, loader); p != nil {
				c.SetRequest(req.WithContext(auth.WithPrincipal(req.Context(), p)))
			}
			return next(c)
		}
	}
}

func resolvePrincipal(req *http.Request, tokens TokenVerifier, loader PrincipalLoader) (p *auth.Principal) {
	ctx := req.Context()
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().Err(fmt.Errorf("panic: %v", r)).Msg("cannot set user authentication")
			p = nil
		}
	}()

	raw, ok := bearerToken(req)
	if !ok || !tokens.IsValidContext(ctx, raw) {
		return nil
	}
	email, err := tokens.ParseSubject(raw)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cannot set user authentication")
		return nil
	}
	p, err = loader.LoadPrincipal(ctx, email)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cannot set user authentication")
		return nil
	}
	return p
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(req *http.Request) (string, bool) {
	h := req.Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	raw := strings.TrimPrefix(h, "Bearer ")
	return raw, raw != ""
}
