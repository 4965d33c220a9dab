package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bem92/yoga-app/internal/config"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestTokenBucket(t *testing.T) {
	_, rdb := setupRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}

	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb))
	e.POST("/api/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, do().Code)

	blocked := do()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), `"status":429`)
}

func TestTokenBucketFailsOpen(t *testing.T) {
	mr, rdb := setupRedis(t)
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Hour, Prefix: "rl"}
	mw := NewTokenBucket(cfg, rdb)
	mr.Close()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusTeapot) }

	for _, mw := range []echo.MiddlewareFunc{
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
		NewRedisCache(config.CacheConfig{Enabled: false}, nil),
	} {
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
}

func TestRedisCache(t *testing.T) {
	mr, rdb := setupRedis(t)
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}

	calls := 0
	e := echo.New()
	g := e.Group("/api/teacher", NewRedisCache(cfg, rdb))
	g.GET("", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, []map[string]any{{"id": 1, "lastName": "DELAHAYE"}})
	})
	g.GET("/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusNotFound, map[string]any{"status": 404})
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	miss := get("/api/teacher")
	assert.Equal(t, "MISS", miss.Header().Get("X-Cache"))
	hit := get("/api/teacher")
	assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusOK, hit.Code)
	assert.JSONEq(t, miss.Body.String(), hit.Body.String())
	assert.Contains(t, hit.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	assert.Equal(t, 1, calls)

	// non-200 responses are never stored
	get("/api/teacher/9")
	notFound := get("/api/teacher/9")
	assert.Equal(t, "MISS", notFound.Header().Get("X-Cache"))
	assert.Equal(t, 3, calls)

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, "MISS", get("/api/teacher").Header().Get("X-Cache"))
	assert.Equal(t, 4, calls)
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}
