package commands

import (
	"context"

	"github.com/bem92/yoga-app/internal/database"
)

type MigrateCmd struct{}

func (m *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, db, err := openDB(globals)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Migrate(db, cfg.DBDriver)
}
