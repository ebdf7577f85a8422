package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SeedsDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	require.NoError(t, Migrate(context.Background(), testConfig(t), logger.Nop(), dbPath))

	repo, err := repository.NewRepository(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestMigrate_InvalidatesCachedCatalog(t *testing.T) {
	mr := miniredis.RunT(t)
	key := "catalog:" + catalog.CacheName
	require.NoError(t, mr.Set(key, `{"products":[],"artworks":[]}`))

	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()

	err := Migrate(context.Background(), cfg, logger.Nop(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)

	assert.False(t, mr.Exists(key))
}

func TestMigrate_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"

	err := Migrate(context.Background(), cfg, logger.Nop(), filepath.Join(t.TempDir(), "catalog.db"))
	assert.ErrorContains(t, err, "redis connection failed")
}
