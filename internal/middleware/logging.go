package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger attaches a request-scoped logger to the request context and
// logs one line per request once the handler chain has finished.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			req := c.Request()

			l := logger.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", c.RealIP()).
				Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			level := zerolog.InfoLevel
			switch {
			case status >= http.StatusInternalServerError:
				level = zerolog.ErrorLevel
			case status >= http.StatusBadRequest:
				level = zerolog.WarnLevel
			}
			l.WithLevel(level).Err(err).
				Int("status", status).
				Int64("bytes", c.Response().Size).
				Dur("duration", time.Since(started)).
				Msg("http request")
			return nil
		}
	}
}
