package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bem92/yoga-app/internal/middleware"
)

// dbTimeout bounds the repository calls of one request.
const dbTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses a numeric path parameter.  Zero is accepted and simply
// matches nothing.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil
}

func notFound(c echo.Context, what string) error {
	return middleware.WriteError(c, http.StatusNotFound, what+" not found")
}

func badRequest(c echo.Context, message string) error {
	return middleware.WriteError(c, http.StatusBadRequest, message)
}

// internalError logs err and answers 500 without leaking details.
func internalError(c echo.Context, err error, msg string) error {
	zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg(msg)
	return middleware.WriteError(c, http.StatusInternalServerError, msg)
}
