package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/aidrug/internal/config"
	"github.com/JonMunkholm/aidrug/internal/controls"
	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/logging"
	"github.com/JonMunkholm/aidrug/internal/web"
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

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"dataset_source", cfg.Dataset.Source,
		"session_ttl", cfg.Session.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctrl := controls.Default()
	if cfg.Dataset.ControlsFile != "" {
		c, err := controls.Load(cfg.Dataset.ControlsFile)
		if err != nil {
			return err
		}
		ctrl = c
	}

	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	slog.Info("dataset loaded", "companies", ds.Len(), "source", ds.Source())

	service, err := core.NewService(ds, ctrl, core.Options{
		Sessions: core.SessionConfig{
			TTL:         cfg.Session.TTL,
			MaxSessions: cfg.Session.Max,
		},
		KeywordCount:         cfg.Dataset.KeywordCount,
		MaxConcurrentExports: cfg.Rate.ExportConcurrent,
	})
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	server := web.NewServer(service, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start()
	})

	g.Go(func() error {
		return service.RunSweeper(gctx)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// loadDataset reads the dataset once from the configured source.
func loadDataset(cfg *config.Config) (*core.Dataset, error) {
	if cfg.Dataset.Source != config.SourcePostgres {
		return core.LoadCSVFile(cfg.Dataset.Path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := connect(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	return core.LoadPostgres(ctx, pool, cfg.Dataset.Table)
}

// connect opens and pings a pool for cfg.
func connect(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dataset source: parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("dataset source: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("dataset source: ping: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}
