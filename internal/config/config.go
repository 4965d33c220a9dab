package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBDriver        string // "mysql" or "sqlite3"
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	DBPath          string // sqlite3 database file
	AutoMigrate     bool   // apply pending migrations on startup
	JWTSecret       string // secret used to sign JWTs
	JWTExpirationMs int    // access token time-to-live in milliseconds
	BcryptCost      int    // bcrypt cost for password hashing
}

// TokenTTL returns the configured token lifetime as a duration.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationMs) * time.Millisecond
}

// Dev reports whether the application runs in a development environment.
func (c Config) Dev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// Load reads configuration values from environment variables.  Every
// missing or malformed required variable is reported in the returned error.
func Load() (Config, error) {
	var l loader
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "8080"),
		DBDriver:        strings.ToLower(envStr("DB_DRIVER", "mysql")),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		AutoMigrate:     envBool("DB_AUTO_MIGRATE", false),
		JWTSecret:       l.must("JWT_SECRET"),
		JWTExpirationMs: l.mustInt("JWT_EXPIRATION_MS"),
		BcryptCost:      envInt("BCRYPT_COST", 10),
	}

	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = l.must("DB_USER")
		cfg.DBHost = l.must("DB_HOST")
		cfg.DBPort = l.must("DB_PORT")
		cfg.DBName = l.must("DB_NAME")
	case "sqlite3":
		cfg.DBPath = envStr("DB_PATH", "data/yoga.db")
	default:
		l.errs = append(l.errs, fmt.Errorf("unsupported DB_DRIVER: %q", cfg.DBDriver))
	}

	if cfg.JWTExpirationMs <= 0 && os.Getenv("JWT_EXPIRATION_MS") != "" {
		l.errs = append(l.errs, fmt.Errorf("JWT_EXPIRATION_MS must be positive"))
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		l.errs = append(l.errs, fmt.Errorf("BCRYPT_COST out of range: %d", cfg.BcryptCost))
	}

	if err := errors.Join(l.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loader collects problems with required variables so Load can report them
// all at once.
type loader struct {
	errs []error
}

// must retrieves the value of a required environment variable.
func (l *loader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		l.errs = append(l.errs, fmt.Errorf("missing required env var: %s", key))
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func (l *loader) mustInt(key string) int {
	s := l.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid int for %s: %q", key, s))
	}
	return n
}
