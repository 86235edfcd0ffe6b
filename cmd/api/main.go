package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"onboarding-portal/internal/config"
	"onboarding-portal/internal/handler"
	"onboarding-portal/internal/middleware"
	"onboarding-portal/internal/pkg/ratelimit"
	"onboarding-portal/internal/repository"
	"onboarding-portal/internal/service"
	"onboarding-portal/internal/storage"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel)
	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, db.DB); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Warn("redis unavailable, dashboard cache and auth rate limiting disabled", "error", err)
		redis = nil
	} else {
		defer redis.Close()
	}

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init object store: %w", err)
	}

	repos := repository.NewRepositories(db)
	services, err := service.NewServices(repos, redis, store, cfg, log)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}
	handlers := handler.NewHandlers(services)

	routeOpts := handler.RouteOptions{AuthRetryAfterSeconds: int(cfg.RateLimitAuthWindow.Seconds())}
	if redis != nil {
		limiter, err := ratelimit.NewFixedWindowLimiter(redis, "onboarding:ratelimit", cfg.RateLimitAuth, cfg.RateLimitAuthWindow)
		if err != nil {
			return fmt.Errorf("init rate limiter: %w", err)
		}
		routeOpts.AuthLimiter = limiter
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(log),
		BodyLimit:    int(cfg.MaxUploadSize) + 1024*1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(config.AccessLogConfig(config.LogOutput)))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	handler.SetupRoutes(app, handlers, services.Auth, routeOpts)

	go pruneSessions(ctx, repos.Session, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "storage", cfg.StorageDriver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	services.Dispatcher.Wait()
	return nil
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageDriver {
	case "minio":
		client, err := config.NewMinIOClient(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewMinioStore(client, cfg.MinIOBucket), nil
	case "s3":
		return storage.NewS3Store(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Endpoint, cfg.S3Prefix)
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// pruneSessions drops expired and revoked refresh sessions once an hour.
func pruneSessions(ctx context.Context, sessions repository.SessionRepository, log *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				log.Warn("failed to prune sessions", "error", err)
				continue
			}
			log.Info("pruned sessions", "deleted", n)
		}
	}
}
