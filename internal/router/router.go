package router // package router wires middleware and routes onto the echo instance

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/bem92/yoga-app/internal/handler"
	"github.com/bem92/yoga-app/internal/middleware"
)

// Use installs the middleware every request passes through.  Authentication
// runs here for all routes but never rejects; protected groups add
// middleware.RequireAuth.
func Use(e *echo.Echo, logger zerolog.Logger, tokens middleware.TokenVerifier, principals middleware.PrincipalLoader) {
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(middleware.Authenticate(tokens, principals))
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the credential endpoints behind the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth", limiter)
	g.POST("/login", a.Login)
	g.POST("/register", a.Register)
}

// API groups the handlers of the protected /api surface.
type API struct {
	Sessions *handler.SessionHandler
	Teachers *handler.TeacherHandler
	Users    *handler.UserHandler
	// TeacherCache fronts the teacher directory; nil disables it.
	TeacherCache echo.MiddlewareFunc
}

// RegisterAPI registers every route that requires a principal.
func RegisterAPI(e *echo.Echo, api API) {
	protected := e.Group("/api", middleware.RequireAuth())

	s := protected.Group("/session")
	s.GET("", api.Sessions.FindAll)
	s.POST("", api.Sessions.Create)
	s.GET("/:id", api.Sessions.FindByID)
	s.PUT("/:id", api.Sessions.Update)
	s.DELETE("/:id", api.Sessions.Delete)
	s.POST("/:id/participate/:userId", api.Sessions.Participate)
	s.DELETE("/:id/participate/:userId", api.Sessions.NoLongerParticipate)

	var teacherMW []echo.MiddlewareFunc
	if api.TeacherCache != nil {
		teacherMW = append(teacherMW, api.TeacherCache)
	}
	t := protected.Group("/teacher", teacherMW...)
	t.GET("", api.Teachers.FindAll)
	t.GET("/:id", api.Teachers.FindByID)

	u := protected.Group("/user")
	u.GET("/:id", api.Users.FindByID)
	u.DELETE("/:id", api.Users.Delete)
}
