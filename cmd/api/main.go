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

	httptransport "github.com/spec-kit/content-service/internal/api/http"
	"github.com/spec-kit/content-service/internal/api/http/handlers"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/config"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/observability"
	"github.com/spec-kit/content-service/internal/persistence"
	"github.com/spec-kit/content-service/internal/repository"
	"github.com/spec-kit/content-service/internal/repository/memory"
	"github.com/spec-kit/content-service/internal/service"
	"github.com/spec-kit/content-service/internal/worker"
)

const throttleSweepInterval = time.Minute

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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	admins, posts, metricRepo := buildRepositories(pg)

	tokens := auth.NewAuthority(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	revoked, redis := buildRevocationStore(ctx, cfg, logger)
	if redis != nil {
		defer redis.Close()
	}
	gateway := auth.NewGateway(auth.NewDefaultClassifier(), tokens, revoked, logger)

	throttle := auth.NewLoginThrottle(cfg.Auth.LoginRateLimitPerSec, cfg.Auth.LoginRateLimitBurst)
	throttle.StartJanitor(ctx, throttleSweepInterval)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(service.AuthDependencies{
		Admins:     admins,
		Tokens:     tokens,
		Revoked:    revoked,
		Gateway:    gateway,
		Dispatcher: dispatcher,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to ensure admin account", zap.Error(err))
	}

	metricService := service.NewMetricService(metricRepo, posts, logger)
	postService := service.NewPostService(posts, metricService, dispatcher, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:       cfg.App.Name,
		CaseSensitive: true,
		ErrorHandler:  httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:     handlers.NewAuthHandler(authService),
		Posts:    handlers.NewPostsHandler(postService, metricService),
		Gateway:  gateway,
		Throttle: throttle,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

// buildRepositories returns Postgres repositories when a pool is available
// and in-memory ones otherwise.
func buildRepositories(pg *persistence.Postgres) (repository.AdminRepository, repository.PostRepository, repository.MetricRepository) {
	if pool := pg.PoolHandle(); pool != nil {
		return repository.NewAdminRepository(pool), repository.NewPostRepository(pool), repository.NewMetricRepository(pool)
	}
	metricRepo := memory.NewMetricRepository()
	return memory.NewAdminRepository(), memory.NewPostRepository(metricRepo), metricRepo
}

func buildRevocationStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (auth.RevocationStore, *persistence.Redis) {
	if cfg.Auth.RevocationBackend == config.RevocationBackendRedis {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		return auth.NewRedisRevocationStore(redis.Client, cfg.Auth.RevocationKeyPrefix), redis
	}

	store := auth.NewMemoryRevocationStore()
	store.StartJanitor(ctx, cfg.Auth.RevocationSweep())
	logger.Info("using in-memory token revocation")
	return store, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
