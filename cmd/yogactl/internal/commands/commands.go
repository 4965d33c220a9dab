package commands

import (
	"database/sql"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/bem92/yoga-app/internal/config"
	"github.com/bem92/yoga-app/internal/database"
	"github.com/bem92/yoga-app/internal/logger"
)

type Globals struct {
	Debug   bool
	Version string
}

// setup loads .env and the environment and installs the global logger.
func setup(globals *Globals) (config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	log.Logger = logger.Setup(globals.Debug || cfg.Dev())
	return cfg, nil
}

func openDB(globals *Globals) (config.Config, *sql.DB, error) {
	cfg, err := setup(globals)
	if err != nil {
		return cfg, nil, err
	}
	db, err := database.Open(cfg)
	return cfg, db, err
}
