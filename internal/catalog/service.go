package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CacheName is the key the catalog is cached under.
const CacheName = "default"

// Source is where catalogs come from when the cache cannot serve them.
// Implemented by repository.Repository and Static.
type Source interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetAllArtworks(ctx context.Context) ([]domain.ArtWork, error)
}

type Service struct {
	source Source
	cache  cache.CatalogCache
	logger *zap.Logger
	sfg    singleflight.Group
}

// NewService builds a catalog service. cache may be nil, in which case every
// Load goes to the source.
func NewService(source Source, c cache.CatalogCache, logger *zap.Logger) *Service {
	return &Service{
		source: source,
		cache:  c,
		logger: logger,
	}
}

// Load returns the catalog, reading through the cache. Concurrent calls
// share a single source read.
func (s *Service) Load(ctx context.Context) (domain.Catalog, error) {
	v, err, _ := s.sfg.Do(CacheName, func() (interface{}, error) {
		if s.cache != nil {
			cached, err := s.cache.Get(ctx, CacheName)
			if err == nil {
				s.logger.Debug("catalog served from cache")
				return *cached, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				s.logger.Warn("catalog cache get failed", zap.Error(err))
			}
		}

		products, err := s.source.GetAllProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
		artworks, err := s.source.GetAllArtworks(ctx)
		if err != nil {
			return nil, fmt.Errorf("load artworks: %w", err)
		}
		c := domain.Catalog{Products: products, Artworks: artworks}

		if s.cache != nil {
			go s.fill(c)
		}

		s.logger.Info("catalog loaded from source",
			zap.Int("products", len(products)),
			zap.Int("artworks", len(artworks)),
		)
		return c, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}

	return v.(domain.Catalog), nil
}

// Invalidate drops the cached catalog so the next Load reads the source.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, CacheName); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

func (s *Service) fill(c domain.Catalog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.cache.Set(ctx, CacheName, &c); err != nil {
		s.logger.Warn("catalog cache set failed", zap.Error(err))
	}
}
