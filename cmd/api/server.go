package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/myhome/myhome-service/internal/api/http"
	"github.com/myhome/myhome-service/internal/api/http/handlers"
	"github.com/myhome/myhome-service/internal/auth"
	"github.com/myhome/myhome-service/internal/config"
	"github.com/myhome/myhome-service/internal/events"
	"github.com/myhome/myhome-service/internal/observability"
	"github.com/myhome/myhome-service/internal/persistence"
	"github.com/myhome/myhome-service/internal/repository"
	"github.com/myhome/myhome-service/internal/service"
	"github.com/myhome/myhome-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	if !pg.Connected() {
		return errors.New("POSTGRES_DSN is required to serve requests")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics("myhome")
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(dispatcher, cfg.Notification, logger)

	userRepo := repository.NewUserRepository(pg.Pool)
	communityRepo := repository.NewCommunityRepository(pg.Pool)
	houseRepo := repository.NewHouseRepository(pg.Pool)
	securityTokenRepo := repository.NewSecurityTokenRepository(redis.Client)

	codec := auth.NewJWTCodec([]byte(cfg.Auth.TokenSecret))
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Tokens:   codec,
		Metrics:  metrics,
		Logger:   logger.Named("auth"),
	})
	userService := service.NewUserService(cfg.Auth, service.UserDependencies{
		UserRepo:          userRepo,
		SecurityTokenRepo: securityTokenRepo,
		Dispatcher:        dispatcher,
		Logger:            logger.Named("users"),
	})
	communityService := service.NewCommunityService(service.CommunityDependencies{
		CommunityRepo: communityRepo,
		UserRepo:      userRepo,
	})
	houseService := service.NewHouseService(service.HouseDependencies{
		HouseRepo:     houseRepo,
		CommunityRepo: communityRepo,
		UserRepo:      userRepo,
	})

	gate := auth.NewGate(auth.GateConfig{
		HeaderName:   cfg.Auth.HeaderName,
		HeaderPrefix: cfg.Auth.HeaderPrefix,
	}, codec, logger.Named("gate"))

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ErrorHandler:          httptransport.ErrorHandler,
		DisableStartupMessage: !cfg.App.IsDevelopment(),
		// Metric labels and log fields keep request strings past the handler.
		Immutable: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), gate)

	var credentialLimiter fiber.Handler
	if cfg.RateLimit.Enabled {
		limiter := httptransport.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		go limiter.Run(ctx, 5*time.Minute)
		credentialLimiter = limiter.Handler()
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth: handlers.NewAuthHandler(authService, handlers.AuthHeaders{
			Subject: cfg.Auth.LoginSubjectHeader,
			Token:   cfg.Auth.LoginTokenHeader,
		}),
		Users:             handlers.NewUsersHandler(userService),
		Communities:       handlers.NewCommunitiesHandler(communityService),
		Houses:            handlers.NewHousesHandler(houseService),
		Metrics:           metrics.Handler(),
		CredentialLimiter: credentialLimiter,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			listenErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-listenErr:
		return fmt.Errorf("fiber listen: %w", err)
	}

	return app.ShutdownWithTimeout(shutdownTimeout)
}

func runMigrate(_ context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	return persistence.RunMigrations(cfg.Postgres.DSN, logger)
}
