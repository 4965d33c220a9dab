package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bem92/yoga-app/internal/auth"
	"github.com/bem92/yoga-app/internal/repository"
)

type stubLoader struct {
	principals map[string]*auth.Principal
	panics     bool
	calls      int
}

func (s *stubLoader) LoadPrincipal(_ context.Context, email string) (*auth.Principal, error) {
	s.calls++
	if s.panics {
		panic("loader exploded")
	}
	p, ok := s.principals[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return p, nil
}

// runFilter sends one request through Authenticate and returns the principal
// the downstream handler observed.
func runFilter(t *testing.T, mw echo.MiddlewareFunc, header string) (*auth.Principal, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		seen    *auth.Principal
		reached bool
	)
	err := mw(func(c echo.Context) error {
		reached = true
		seen = auth.PrincipalFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return seen, reached
}

func TestAuthenticate(t *testing.T) {
	codec := auth.NewTokenCodec("filter-secret", time.Hour)
	alice := &auth.Principal{ID: 1, Email: "alice@studio.com"}
	valid, err := codec.Issue(alice)
	require.NoError(t, err)
	ghost, err := codec.Issue(&auth.Principal{Email: "ghost@studio.com"})
	require.NoError(t, err)
	foreign, err := auth.NewTokenCodec("other-secret", time.Hour).Issue(alice)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   *auth.Principal
	}{
		{"valid bearer token", "Bearer " + valid.Token, alice},
		{"no header", "", nil},
		{"wrong scheme", "Basic " + valid.Token, nil},
		{"lowercase scheme", "bearer " + valid.Token, nil},
		{"empty token", "Bearer ", nil},
		{"garbage token", "Bearer garbage", nil},
		{"foreign signature", "Bearer " + foreign.Token, nil},
		{"unknown subject", "Bearer " + ghost.Token, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &stubLoader{principals: map[string]*auth.Principal{alice.Email: alice}}
			seen, reached := runFilter(t, Authenticate(codec, loader), tt.header)
			assert.True(t, reached, "chain must always continue")
			assert.Equal(t, tt.want, seen)
		})
	}

	t.Run("loader panic degrades to unauthenticated", func(t *testing.T) {
		loader := &stubLoader{panics: true}
		seen, reached := runFilter(t, Authenticate(codec, loader), "Bearer "+valid.Token)
		assert.True(t, reached)
		assert.Nil(t, seen)
		assert.Equal(t, 1, loader.calls)
	})
}

func TestAuthenticateLogsRejectionWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderXRequestID, "req-7")
			return next(c)
		}
	})
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.Use(Authenticate(auth.NewTokenCodec("filter-secret", time.Hour), &stubLoader{}))
	e.GET("/api/session", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	e.ServeHTTP(httptest.NewRecorder(), req)

	first, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	var line map[string]any
	require.NoError(t, json.Unmarshal(first, &line))
	assert.Equal(t, "jwt rejected", line["message"])
	assert.Equal(t, "malformed", line["kind"])
	assert.Equal(t, "req-7", line["request_id"])
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	handler := RequireAuth()(func(c echo.Context) error { return c.String(http.StatusOK, "in") })

	t.Run("anonymous request gets the entry point body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session/1", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
		var body ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, ErrorBody{
			Status:  http.StatusUnauthorized,
			Error:   "Unauthorized",
			Message: unauthenticatedMessage,
			Path:    "/api/session/1",
		}, body)
	})

	t.Run("principal passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session/1", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), &auth.Principal{ID: 1, Email: "a@b.c"}))
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "in", rec.Body.String())
	})
}

func TestHTTPErrorHandler(t *testing.T) {
	e := echo.New()

	t.Run("echo http error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
		rec := httptest.NewRecorder()
		HTTPErrorHandler(echo.ErrNotFound, e.NewContext(req, rec))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Not Found", body.Error)
		assert.Equal(t, "/nowhere", body.Path)
	})

	t.Run("plain error hides details", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		rec := httptest.NewRecorder()
		HTTPErrorHandler(errors.New("dial tcp: refused"), e.NewContext(req, rec))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "refused")
	})
}
