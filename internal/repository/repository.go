package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// every connection to ":memory:" is a separate database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = `id, title, description, price, type, image_url, audio_preview_url,
		genre, artist, created_at, in_stock, stock_count`

func (r *Repository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

const artworkColumns = `id, title, description, image_url, artist_id, artist_name, artist_bio,
		artist_profile_image_url, artist_instagram, artist_twitter, artist_website,
		artist_verified, category, tags, created_at, likes, views`

func (r *Repository) GetAllArtworks(ctx context.Context) ([]domain.ArtWork, error) {
	query := `SELECT ` + artworkColumns + ` FROM artworks ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query artworks: %w", err)
	}
	defer rows.Close()

	var artworks []domain.ArtWork
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		artworks = append(artworks, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artworks, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func scanProduct(row *sql.Rows) (domain.Product, error) {
	var (
		p         domain.Product
		createdAt string
	)
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Type,
		&p.ImageURL,
		&p.AudioPreviewURL,
		&p.Genre,
		&p.Artist,
		&createdAt,
		&p.InStock,
		&p.StockCount,
	)
	if err != nil {
		return p, fmt.Errorf("failed to scan product: %w", err)
	}

	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return p, fmt.Errorf("product %s: invalid created_at: %w", p.ID, err)
	}
	return p, nil
}

func scanArtwork(row *sql.Rows) (domain.ArtWork, error) {
	var (
		a         domain.ArtWork
		tags      string
		createdAt string
	)
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.ImageURL,
		&a.Artist.ID,
		&a.Artist.Name,
		&a.Artist.Bio,
		&a.Artist.ProfileImageURL,
		&a.Artist.SocialLinks.Instagram,
		&a.Artist.SocialLinks.Twitter,
		&a.Artist.SocialLinks.Website,
		&a.Artist.Verified,
		&a.Category,
		&tags,
		&createdAt,
		&a.Likes,
		&a.Views,
	)
	if err != nil {
		return a, fmt.Errorf("failed to scan artwork: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
		return a, fmt.Errorf("artwork %s: invalid tags: %w", a.ID, err)
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return a, fmt.Errorf("artwork %s: invalid created_at: %w", a.ID, err)
	}
	return a, nil
}
