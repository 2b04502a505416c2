package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/xpscale/internal/config"
	"github.com/osse101/xpscale/internal/curve"
	"github.com/osse101/xpscale/internal/database"
	"github.com/osse101/xpscale/internal/database/postgres"
	"github.com/osse101/xpscale/internal/event"
	"github.com/osse101/xpscale/internal/eventlog"
	"github.com/osse101/xpscale/internal/leveling"
	"github.com/osse101/xpscale/internal/metrics"
	"github.com/osse101/xpscale/internal/profile"
	"github.com/osse101/xpscale/internal/repository"
	"github.com/osse101/xpscale/internal/repository/memory"
	"github.com/osse101/xpscale/internal/reward"
	"github.com/osse101/xpscale/internal/scheduler"
	"github.com/osse101/xpscale/internal/server"
	"github.com/osse101/xpscale/internal/worker"
)

// storage groups the repositories for the configured driver
type storage struct {
	profiles repository.Profile
	eventLog eventlog.Repository
	pool     database.Pool
	close    func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	initLogger(cfg)

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		if cfg.Environment == config.EnvironmentProduction {
			return fmt.Errorf("environment validation failed: %w", err)
		}
		slog.Warn("Environment validation failed", "error", err)
	}
	for _, warning := range warnings {
		slog.Warn("Environment check", "warning", warning)
	}

	slog.Info("Starting xpscale",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"storage", cfg.StorageDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	levelCurve, err := curve.NewCached(cfg.CurveCacheSize)
	if err != nil {
		return fmt.Errorf("failed to build level curve: %w", err)
	}

	catalog, err := reward.LoadCatalog(cfg.BoostCatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load boost catalog: %w", err)
	}
	slog.Info("Boost catalog loaded", "path", cfg.BoostCatalogPath, "boosts", len(catalog.Boosts))

	bus := event.NewMemoryBus()
	metrics.NewEventMetricsCollector().Register(bus)

	eventLogService := eventlog.NewService(store.eventLog)
	eventLogService.Subscribe(bus)

	publisher, err := event.NewResilientPublisher(bus, cfg.EventMaxRetries, cfg.EventRetryDelay, cfg.EventDeadLetterLog)
	if err != nil {
		return fmt.Errorf("failed to open dead-letter log: %w", err)
	}

	svc := profile.NewService(store.profiles, leveling.NewResolver(levelCurve), catalog, publisher)

	workerPool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	workerPool.Start()

	jobs := scheduler.New(workerPool)
	jobs.Schedule(cfg.EventLogCleanupEvery, eventlog.NewCleanupJob(eventLogService, cfg.EventLogRetentionDays), true)
	slog.Info("Event log cleanup scheduled",
		"interval", cfg.EventLogCleanupEvery,
		"retention_days", cfg.EventLogRetentionDays)

	srv := server.NewServer(server.Options{
		Port:            cfg.Port,
		APIKey:          cfg.APIKey,
		TrustedProxies:  cfg.TrustedProxies,
		MaxRequestBytes: cfg.MaxRequestBytes,
		ServiceName:     cfg.ServiceName,
		Version:         cfg.Version,
	}, store.pool, svc, eventLogService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	jobs.Stop()
	workerPool.Stop()

	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

// openStorage opens the repositories for the configured driver. The pool is
// nil for in-memory storage.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		slog.Warn("Using in-memory storage; profiles are lost on restart")
		return &storage{
			profiles: memory.NewProfileRepository(),
			eventLog: memory.NewEventLogRepository(),
			close:    func() {},
		}, nil
	}

	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, database.DefaultMaxConnIdleTime, database.DefaultMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &storage{
		profiles: postgres.NewProfileRepository(pool),
		eventLog: postgres.NewEventLogRepository(pool),
		pool:     pool,
		close:    pool.Close,
	}, nil
}
