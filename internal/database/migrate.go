package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/mysql/*.sql migrations/sqlite3/*.sql
var migrationsFS embed.FS

// Migrate applies every pending up migration for the given driver.  The
// connection stays open; closing the migrate instance would close db too.
func Migrate(db *sql.DB, driver string) error {
	var (
		target migratedb.Driver
		err    error
	)
	switch driver {
	case "mysql":
		target, err = mysql.WithInstance(db, &mysql.Config{})
	case "sqlite3":
		target, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migrate: driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("migrate: source: %w", err)
	}
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("migrate: init: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: up: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr == nil {
		log.Info().Str("driver", driver).Uint("version", version).Bool("dirty", dirty).Msg("database migrated")
	}
	return nil
}
