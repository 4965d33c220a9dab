package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSQLiteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "/tmp/yoga-test.db")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_MS", "86400000")
}

func TestLoad(t *testing.T) {
	t.Run("sqlite driver needs no mysql settings", func(t *testing.T) {
		setSQLiteEnv(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "sqlite3", cfg.DBDriver)
		assert.Equal(t, "/tmp/yoga-test.db", cfg.DBPath)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
		assert.Equal(t, 10, cfg.BcryptCost)
		assert.False(t, cfg.Dev())
	})

	t.Run("mysql driver requires connection settings", func(t *testing.T) {
		setSQLiteEnv(t)
		t.Setenv("DB_DRIVER", "mysql")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_HOST", "")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_NAME", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_USER")
		assert.Contains(t, err.Error(), "DB_NAME")
	})

	t.Run("missing secret and ttl", func(t *testing.T) {
		setSQLiteEnv(t)
		t.Setenv("JWT_SECRET", "")
		t.Setenv("JWT_EXPIRATION_MS", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
		assert.Contains(t, err.Error(), "JWT_EXPIRATION_MS")
	})

	t.Run("non numeric ttl", func(t *testing.T) {
		setSQLiteEnv(t)
		t.Setenv("JWT_EXPIRATION_MS", "soon")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid int for JWT_EXPIRATION_MS")
	})

	t.Run("unknown driver", func(t *testing.T) {
		setSQLiteEnv(t)
		t.Setenv("DB_DRIVER", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
	})
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1m")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, time.Minute, cfg.RefillInterval)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.False(t, cfg.Methods["POST"])
	assert.Equal(t, 30*time.Second, cfg.TTL)
}

func TestLoadBrokerConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")

	cfg := LoadBrokerConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "amqp://u:p@broker:5672/", cfg.URL)
	assert.Equal(t, "session.participation", cfg.Queue)
}
