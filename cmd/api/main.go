package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/subscriber-service/internal/api/http"
	"github.com/spec-kit/subscriber-service/internal/api/http/handlers"
	"github.com/spec-kit/subscriber-service/internal/auth"
	"github.com/spec-kit/subscriber-service/internal/config"
	"github.com/spec-kit/subscriber-service/internal/observability"
	"github.com/spec-kit/subscriber-service/internal/persistence"
	"github.com/spec-kit/subscriber-service/internal/repository"
	"github.com/spec-kit/subscriber-service/internal/upstream"
)

const serviceName = "subscriber-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to ensure unique user index", zap.Error(err))
	}

	prefRepo := repository.NewPreferenceRepository(store.Collection())
	tokens := auth.NewTokenManager(cfg.Auth.SecretToken, cfg.Auth.MaxTokenTTL())
	authenticator := auth.NewAuthenticator(cfg.Auth.M2MToken, tokens)
	catalog := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:        logger,
		Metrics:       metrics,
		Authenticator: authenticator,
		Timeout:       cfg.App.RequestTimeout(),
		AllowCORS:     cfg.App.AllowCORS,
	})
	if cfg.App.AllowCORS {
		logger.Info("allow cors")
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(serviceName, store),
		Catalog: handlers.NewCatalogHandler(catalog, prefRepo),
		Users:   handlers.NewUsersHandler(prefRepo),
		M2M:     handlers.NewM2MHandler(prefRepo, tokens),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = app.ShutdownWithContext(shutdownCtx)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
