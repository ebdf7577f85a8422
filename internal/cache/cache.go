package cache

import (
	"context"
	"errors"

	"github.com/fjod/storefront/internal/domain"
)

// CatalogCache stores whole catalogs by name.
type CatalogCache interface {
	Get(ctx context.Context, name string) (*domain.Catalog, error)
	Set(ctx context.Context, name string, catalog *domain.Catalog) error
	Delete(ctx context.Context, name string) error
}

var ErrCacheMiss = errors.New("cache miss")
