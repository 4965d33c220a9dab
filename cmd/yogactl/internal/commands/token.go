package commands

import (
	"context"
	"fmt"

	"github.com/bem92/yoga-app/internal/auth"
	"github.com/bem92/yoga-app/internal/repository"
)

type TokenCmd struct {
	Email string `help:"Email of the user the token is issued for" required:""`
}

func (t *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, db, err := openDB(globals)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := auth.NewAuthenticator(repository.NewUserRepo(db)).LoadPrincipal(ctx, t.Email)
	if err != nil {
		return err
	}
	tok, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL()).Issue(p)
	if err != nil {
		return err
	}

	fmt.Println(tok.Token)
	return nil
}
