package app

import (
	"context"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/repository"
	"go.uber.org/zap"
)

// Migrate creates and seeds the catalog database at dbPath. When Redis is
// configured the cached catalog is dropped so the next start reads the fresh
// rows.
func Migrate(ctx context.Context, cfg *config.Config, logger *zap.Logger, dbPath string) error {
	a := &App{cfg: cfg, logger: logger}
	defer a.Close()

	repo, err := repository.NewRepository(dbPath)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, repo.Close)

	if err := repo.RunMigrations(); err != nil {
		return err
	}
	logger.Info("migrations completed successfully", zap.String("path", dbPath))

	catalogCache, err := a.catalogCache(ctx)
	if err != nil {
		return err
	}
	if catalogCache == nil {
		return nil
	}

	if err := catalog.NewService(repo, catalogCache, logger).Invalidate(ctx); err != nil {
		return err
	}
	logger.Info("cached catalog invalidated", zap.String("redis", cfg.Redis.Addr))
	return nil
}
