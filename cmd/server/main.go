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

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/skillswap/internal/api"
	"github.com/lalith-99/skillswap/internal/config"
	"github.com/lalith-99/skillswap/internal/db"
	"github.com/lalith-99/skillswap/internal/observ"
	"github.com/lalith-99/skillswap/internal/realtime"
	"github.com/lalith-99/skillswap/internal/repository"
	"github.com/lalith-99/skillswap/internal/repository/memory"
	"github.com/lalith-99/skillswap/internal/repository/postgres"
	"github.com/lalith-99/skillswap/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Config and logger
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// The root context is cancelled by SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 2. Store
	// ---------------------------------------------------------------
	var (
		store  repository.Store
		health func(context.Context) error
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		store = postgres.NewStore(database.Pool())
		health = database.Health
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		store = memory.New()
	}

	// ---------------------------------------------------------------
	// 3. Realtime fan-out
	// ---------------------------------------------------------------
	hub := realtime.NewHub(logger)
	var publisher service.EventPublisher = realtime.NewLocalPublisher(hub, logger)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		redisPub := realtime.NewRedisPublisher(rdb, logger)
		publisher = redisPub

		go func() {
			if err := redisPub.Relay(ctx, hub); err != nil {
				logger.Error("realtime relay stopped", zap.Error(err))
			}
		}()
		logger.Info("realtime fan-out via redis", zap.String("addr", opts.Addr))
	}

	// ---------------------------------------------------------------
	// 4. Services
	// ---------------------------------------------------------------
	roomCfg := service.RoomConfig{
		CodeLength:      cfg.RoomCodeLength,
		MaxCodeAttempts: cfg.RoomCodeMaxAttempts,
	}
	svc := api.Services{
		Identity:   service.NewIdentityService(store, logger),
		Catalog:    service.NewCatalogService(store, cfg.SkillApprovalRequired, logger),
		Swaps:      service.NewSwapService(store, logger),
		Ratings:    service.NewRatingService(store, logger),
		Rooms:      service.NewRoomService(store, publisher, roomCfg, logger),
		Moderation: service.NewModerationService(store, publisher, logger),
	}

	if err := svc.Identity.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	// ---------------------------------------------------------------
	// 5. HTTP server
	// ---------------------------------------------------------------
	router := api.NewRouter(svc, hub, api.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
		Health:    health,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting SkillSwap",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
