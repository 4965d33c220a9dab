package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bem92/yoga-app/internal/auth"
)

const unauthenticatedMessage = "Full authentication is required to access this resource"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// WriteError renders status and message in the shared error shape.
func WriteError(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorBody{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
		Path:    c.Request().URL.Path,
	})
}

// EntryPoint answers a request that reached a protected route without a
// principal.
func EntryPoint(c echo.Context, message string) error {
	zerolog.Ctx(c.Request().Context()).Debug().Str("reason", message).Msg("unauthorized")
	return WriteError(c, http.StatusUnauthorized, message)
}

// RequireAuth rejects requests whose context carries no principal.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if auth.PrincipalFromContext(c.Request().Context()) == nil {
				return EntryPoint(c, unauthenticatedMessage)
			}
			return next(c)
		}
	}
}

// HTTPErrorHandler renders errors that escape handlers (unknown routes, bind
// failures, panics recovered by echo) in the shared error shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, message := http.StatusInternalServerError, "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = WriteError(c, status, message)
	}
	if err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("write error response")
	}
}
