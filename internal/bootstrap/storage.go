// Package bootstrap selects and initializes the storage backend from
// configuration. DATABASE_URL picks the relational store; without it the
// embedded snapshot store is used.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"trove/internal/cache"
	"trove/internal/config"
	"trove/internal/observability"
	"trove/internal/seed"
	"trove/internal/storage"
	"trove/internal/storage/gormstore"
	"trove/internal/storage/memstore"
)

// OpenStorage builds the backend named by cfg. The Redis cache is only
// attached to the relational backend; the embedded store is already
// in-process and gains nothing from it.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	var (
		store storage.Storage
		err   error
	)
	if cfg.UseDatabase() {
		store, err = gormstore.Open(cfg.DatabaseURL, cache.New(cfg.RedisURL))
		if err != nil {
			return nil, fmt.Errorf("open relational store: %w", err)
		}
		observability.GlobalLogger.Info("storage backend ready", slog.String("backend", "gormstore"))
	} else {
		store, err = memstore.Open(cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		observability.GlobalLogger.Info("storage backend ready",
			slog.String("backend", "memstore"), slog.String("path", cfg.SnapshotPath))
	}

	if cfg.SeedDemoData {
		if err := seedDemoOnce(ctx, store); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}
	return store, nil
}

// seedDemoOnce populates demo data only into an empty store, so restarts
// with SEED_DEMO_DATA set do not pile up duplicates.
func seedDemoOnce(ctx context.Context, store storage.Storage) error {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		observability.GlobalLogger.Info("demo seed skipped, store already has users",
			slog.Int("users", len(users)))
		return nil
	}
	if err := seed.Demo(ctx, store, seed.Options{}); err != nil {
		return err
	}
	observability.GlobalLogger.Info("demo data seeded")
	return nil
}
