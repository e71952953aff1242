// Command api serves the Imobilia Market HTTP API.
//
// @title                       Imobilia Market API
// @version                     1.0
// @description                 Accounts and property listings for the Imobilia Market classifieds site.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/oltenita/imobilia-market/internal/api"
	"github.com/oltenita/imobilia-market/internal/core/service"
	"github.com/oltenita/imobilia-market/internal/infrastructure/config"
	mongodb "github.com/oltenita/imobilia-market/internal/infrastructure/db/mongo"
	redisdb "github.com/oltenita/imobilia-market/internal/infrastructure/db/redis"
	"github.com/oltenita/imobilia-market/internal/infrastructure/http/handlers"
	"github.com/oltenita/imobilia-market/internal/infrastructure/metrics"
	"github.com/oltenita/imobilia-market/internal/infrastructure/storage"
	"github.com/oltenita/imobilia-market/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "imobilia-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	listings := mongodb.NewListingRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, listings); err != nil {
		return err
	}

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	rec := metrics.New(prometheus.DefaultRegisterer)
	tokens := service.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(
		users,
		service.NewBcryptHasher(service.PasswordCost),
		tokens,
		rec,
		log.With().Str("component", "auth").Logger(),
	)
	listingService := service.NewListingService(
		listings,
		users,
		images,
		redisdb.NewIdempotencyStore(rdb),
		rec,
		cfg.Storage.MaxImages,
		log.With().Str("component", "listings").Logger(),
	)

	var uploadDir string
	if cfg.Storage.Driver == config.StorageLocal {
		uploadDir = cfg.Storage.UploadDir
	}

	e := api.NewRouter(api.Deps{
		AuthService:    authService,
		ListingService: listingService,
		Tokens:         tokens,
		Readiness: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		UploadDir:   uploadDir,
		FrontendURL: cfg.FrontendURL,
		BodyLimit:   cfg.BodyLimit,
		Logger:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("storage", cfg.Storage.Driver).
			Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped cleanly")
	return nil
}
