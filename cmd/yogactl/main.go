package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/bem92/yoga-app/cmd/yogactl/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug      bool                   `help:"Enable debug logging."`
		Version    kong.VersionFlag
		Migrate    commands.MigrateCmd    `cmd:"" help:"Apply database migrations"`
		CreateUser commands.CreateUserCmd `cmd:"" help:"Create a user account"`
		Token      commands.TokenCmd      `cmd:"" help:"Issue a bearer token for an existing user"`
		Consume    commands.ConsumeCmd    `cmd:"" help:"Write participation events to the participation log"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("yogactl"),
		kong.Description("Administration tool for the yoga session backend."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
