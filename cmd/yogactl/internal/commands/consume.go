package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/bem92/yoga-app/internal/config"
	"github.com/bem92/yoga-app/internal/logger"
	"github.com/bem92/yoga-app/internal/queue"
)

type ConsumeCmd struct {
	LogDir string `help:"Directory for participation.log (defaults to PARTICIPATION_LOG_DIR)"`
}

func (c *ConsumeCmd) Run(ctx context.Context, globals *Globals) error {
	_ = godotenv.Load()
	log.Logger = logger.Setup(globals.Debug)

	broker := config.LoadBrokerConfig()
	if c.LogDir != "" {
		broker.LogDir = c.LogDir
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", broker.Queue).Str("log_dir", broker.LogDir).Msg("starting participation consumer")
	err := queue.StartParticipationConsumer(ctx, broker)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
