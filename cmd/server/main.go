package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bem92/yoga-app/internal/auth"
	"github.com/bem92/yoga-app/internal/config"
	"github.com/bem92/yoga-app/internal/database"
	"github.com/bem92/yoga-app/internal/handler"
	"github.com/bem92/yoga-app/internal/logger"
	"github.com/bem92/yoga-app/internal/middleware"
	"github.com/bem92/yoga-app/internal/queue"
	"github.com/bem92/yoga-app/internal/repository"
	"github.com/bem92/yoga-app/internal/router"
	"github.com/bem92/yoga-app/internal/service"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	l := logger.Setup(cfg.Dev())
	log.Logger = l
	zerolog.DefaultContextLogger = &l

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, l zerolog.Logger) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(db, cfg.DBDriver); err != nil {
			return err
		}
	}

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	}

	var events service.EventPublisher = queue.NopPublisher{}
	if broker := config.LoadBrokerConfig(); broker.Enabled {
		events = queue.NewPublisher(broker.URL, broker.Queue)
	}

	users := repository.NewUserRepo(db)
	teachers := repository.NewTeacherRepo(db)
	sessions := repository.NewSessionRepo(db)

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL())
	authn := auth.NewAuthenticator(users)
	participation := service.NewParticipationService(sessions, users, events)

	e := echo.New()
	router.Use(e, l, codec, authn)
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e,
		handler.NewAuthHandler(cfg, users, authn, codec),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterAPI(e, router.API{
		Sessions:     handler.NewSessionHandler(sessions, participation, handler.SessionMapper{Teachers: teachers, Users: users}),
		Teachers:     handler.NewTeacherHandler(teachers),
		Users:        handler.NewUserHandler(users),
		TeacherCache: middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("driver", cfg.DBDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
