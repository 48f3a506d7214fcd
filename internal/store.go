package internal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/models"
	"github.com/starford/fieldkit/internal/repository"
	"github.com/starford/fieldkit/internal/snapshot"
)

// demoComponents are loaded into an empty store when seed.demo is set.
func demoComponents() []models.Component {
	day := func(d int) time.Time { return time.Date(2023, 5, d, 0, 0, 0, 0, time.UTC) }
	return []models.Component{
		{ID: "1", Name: "温度传感器", Type: catalogue.TypeNumber, CreatedAt: day(20), Tags: []string{"传感器", "温度"}},
		{ID: "2", Name: "湿度控制", Type: catalogue.TypeSwitch, CreatedAt: day(21), Tags: []string{"控制器", "湿度"}},
		{ID: "3", Name: "空气质量描述", Type: catalogue.TypeMultiLineText, CreatedAt: day(22), Tags: []string{"描述", "空气质量"}},
	}
}

// openStore builds the repository selected by cfg. The returned close
// function flushes the snapshot, if any, and releases the store.
// openReadOnlyStore opens the store like openStore but never writes the
// snapshot back on close.
func openReadOnlyStore(ctx context.Context, cfg *Config, logger *slog.Logger) (repository.Repository, func() error, error) {
	ro := *cfg
	ro.Snapshot.SaveOnExit = false
	return openStore(ctx, &ro, logger)
}

func openStore(ctx context.Context, cfg *Config, logger *slog.Logger) (repository.Repository, func() error, error) {
	opts := []repository.Option{repository.WithMatcher(cfg.Search.Matcher())}

	var (
		repo    repository.Repository
		closeFn func() error
	)
	switch cfg.Store.Driver {
	case StoreDriverSQLite:
		db, err := repository.OpenSQLite(cfg.Store.SQLitePath, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		repo, closeFn = db, db.Close
	default:
		mem := repository.NewMemory(opts...)
		if err := restoreSnapshot(ctx, mem, cfg.Snapshot.Path, logger); err != nil {
			return nil, nil, err
		}
		repo = mem
		closeFn = func() error {
			if cfg.Snapshot.Path == "" || !cfg.Snapshot.SaveOnExit {
				return nil
			}
			return saveSnapshot(context.Background(), mem, cfg.Snapshot.Path, logger)
		}
	}

	if cfg.Seed.Demo {
		if err := seedDemo(ctx, repo, logger); err != nil {
			_ = closeFn()
			return nil, nil, err
		}
	}
	return repo, closeFn, nil
}

func restoreSnapshot(ctx context.Context, repo repository.Repository, path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	components, err := snapshot.Load(path)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if err := repo.Restore(ctx, components...); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	logger.Info("snapshot restored", slog.String("path", path), slog.Int("components", len(components)))
	return nil
}

func saveSnapshot(ctx context.Context, repo repository.Repository, path string, logger *slog.Logger) error {
	components, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list for snapshot: %w", err)
	}
	if err := snapshot.Save(path, components); err != nil {
		return err
	}
	logger.Info("snapshot saved", slog.String("path", path), slog.Int("components", len(components)))
	return nil
}

func seedDemo(ctx context.Context, repo repository.Repository, logger *slog.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	demo := demoComponents()
	if err := repo.Restore(ctx, demo...); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Info("demo components seeded", slog.Int("components", len(demo)))
	return nil
}
