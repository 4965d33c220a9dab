package config

// Redis backs the login rate limiter and the teacher directory cache.  If the
// server cannot be reached at startup NewRedisClient returns nil and both
// middlewares turn into pass-throughs.

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient instantiates a Redis client using environment variables:
//
//	REDIS_ADDR      host:port (REDIS_HOST + REDIS_PORT take precedence)
//	REDIS_PASSWORD  optional password
//	REDIS_DB        database number (default 0)
//	REDIS_TLS       enable TLS when true
//	REDIS_ENABLED   set to false to skip Redis entirely
func NewRedisClient(ctx context.Context) *redis.Client {
	if !envBool("REDIS_ENABLED", true) {
		return nil
	}
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	var tlsConf *tls.Config
	if envBool("REDIS_TLS", false) {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, rate limiting and caching disabled")
		_ = client.Close()
		return nil
	}
	return client
}
