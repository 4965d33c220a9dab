package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bem92/yoga-app/internal/auth"
)

// principalKey identifies the caller for rate-limit keys.  It returns "anon"
// when the request carries no principal.
func principalKey(c echo.Context) string {
	if p := auth.PrincipalFromContext(c.Request().Context()); p != nil && p.Email != "" {
		return p.Email
	}
	return "anon"
}
