package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *repository.Repository {
	t.Helper()

	// Use in-memory database for tests
	repo, err := repository.NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.RunMigrations())
	return repo
}

func TestGetAllProducts_ReturnsSeededCatalogInOrder(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 5)

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids)
}

func TestGetAllProducts_WithContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	products, err := repo.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}

func TestGetAllProducts_ScansEveryColumn(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 5)

	p := products[0]
	assert.Equal(t, "Neon Dreams", p.Title)
	assert.True(t, decimal.RequireFromString("24.99").Equal(p.Price))
	assert.Equal(t, domain.ProductTypeCD, p.Type)
	assert.Equal(t, "Chaos Producer", p.Artist)
	assert.True(t, p.InStock)
	assert.Equal(t, 50, p.StockCount)
	assert.Equal(t, 2024, p.CreatedAt.Year())

	outOfStock := products[3]
	assert.False(t, outOfStock.InStock)
	assert.Equal(t, domain.ProductTypeUSB, outOfStock.Type)
}

func TestGetAllArtworks(t *testing.T) {
	repo := setupTestDB(t)

	artworks, err := repo.GetAllArtworks(context.Background())
	require.NoError(t, err)
	require.Len(t, artworks, 4)

	first := artworks[0]
	assert.Equal(t, "Psychedelic Dreams", first.Title)
	assert.Equal(t, domain.CategoryDigital, first.Category)
	assert.Equal(t, []string{"psychedelic", "colorful", "abstract"}, first.Tags)
	assert.Equal(t, "Luna Vortex", first.Artist.Name)
	assert.True(t, first.Artist.Verified)
	assert.Equal(t, "@lunavortex", first.Artist.SocialLinks.Instagram)
}

func TestGetAllArtworks_Order(t *testing.T) {
	repo := setupTestDB(t)

	artworks, err := repo.GetAllArtworks(context.Background())
	require.NoError(t, err)
	require.Len(t, artworks, 4)
	assert.Equal(t, "Chaos Theory", artworks[1].Title)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	repo := setupTestDB(t)

	assert.NoError(t, repo.RunMigrations())

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 5)
}
