package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bem92/yoga-app/internal/auth"
	"github.com/bem92/yoga-app/internal/model"
	"github.com/bem92/yoga-app/internal/repository"
)

// CreateUserCmd seeds accounts.  It is the only way to create admins.
type CreateUserCmd struct {
	Email     string `help:"Login email" required:""`
	FirstName string `help:"First name" required:""`
	LastName  string `help:"Last name" required:""`
	Password  string `help:"Plain password" required:"" env:"YOGACTL_PASSWORD"`
	Admin     bool   `help:"Grant the admin flag"`
}

func (u *CreateUserCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, db, err := openDB(globals)
	if err != nil {
		return err
	}
	defer db.Close()

	hash, err := auth.HashPassword(u.Password, cfg.BcryptCost)
	if err != nil {
		return err
	}
	user := &model.User{
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: hash,
		Admin:        u.Admin,
	}
	if err := repository.NewUserRepo(db).Create(ctx, user); err != nil {
		return fmt.Errorf("create user %s: %w", u.Email, err)
	}

	log.Info().Uint64("id", user.ID).Str("email", user.Email).Bool("admin", user.Admin).Msg("user created")
	return nil
}
