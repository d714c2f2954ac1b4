package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/familytree/internal/census"
	_ "github.com/JonMunkholm/familytree/internal/census/catalog" // Register all censuses
	"github.com/JonMunkholm/familytree/internal/config"
	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/database"
	"github.com/JonMunkholm/familytree/internal/logging"
	"github.com/JonMunkholm/familytree/internal/metrics"
	"github.com/JonMunkholm/familytree/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		slog.Info("database schema applied")
	}

	m := metrics.New()
	opts := []core.Option{
		core.WithMetrics(m),
		core.WithBcryptCost(cfg.Security.BcryptCost),
		core.WithHousekeeping(core.HousekeepingConfig{
			CacheDir:        cfg.Housekeeping.CacheDir,
			ThumbnailDir:    cfg.Housekeeping.ThumbnailDir,
			MaxCacheAge:     cfg.Housekeeping.MaxCacheAge,
			MaxThumbnailAge: cfg.Housekeeping.MaxThumbnailAge,
			MaxLogAge:       cfg.Housekeeping.MaxLogAge,
			MaxSessionAge:   cfg.Housekeeping.MaxSessionAge,
			Probability:     cfg.Housekeeping.Probability,
		}),
	}

	if cfg.Redis.URL != "" {
		client, err := core.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.PoolSize,
			cfg.Redis.DialTimeout, cfg.Redis.ReadTimeout, cfg.Redis.WriteTimeout)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		opts = append(opts, core.WithSettingsCache(core.NewRedisCache(client, cfg.Redis.SettingsTTL)))
		slog.Info("settings cache", "backend", "redis")
	} else {
		slog.Info("settings cache", "backend", "memory")
	}

	service := core.NewService(pool, opts...)

	slog.Info("modules registered", "count", core.ModuleCount())
	slog.Info("censuses registered", "count", census.Count(), "places", len(census.Places()))

	server := web.NewServer(service, cfg, m)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	if cfg.Housekeeping.Interval > 0 {
		go service.StartHousekeeping(jobCtx, cfg.Housekeeping.Interval)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
