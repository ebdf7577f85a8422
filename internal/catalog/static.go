package catalog

import (
	"context"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Static serves a fixed in-memory catalog.
type Static struct {
	catalog domain.Catalog
}

func NewStatic(c domain.Catalog) *Static {
	return &Static{catalog: c}
}

func (s *Static) GetAllProducts(_ context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), s.catalog.Products...), nil
}

func (s *Static) GetAllArtworks(_ context.Context) ([]domain.ArtWork, error) {
	return append([]domain.ArtWork(nil), s.catalog.Artworks...), nil
}

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultCatalog is the built-in catalog used when no database is configured.
// It carries the same rows as the SQLite seed migration.
func DefaultCatalog() domain.Catalog {
	luna := domain.Artist{
		ID:              "artist-1",
		Name:            "Luna Vortex",
		Bio:             "Digital artist exploring the edges of perception",
		ProfileImageURL: "https://images.example.com/artists/luna.jpg",
		SocialLinks: domain.SocialLinks{
			Instagram: "@lunavortex",
			Website:   "https://lunavortex.example.com",
		},
		Verified: true,
	}

	return domain.Catalog{
		Products: []domain.Product{
			{
				ID: "1", Title: "Neon Dreams", Description: "Synthwave beats for late night drives",
				Price: decimal.RequireFromString("24.99"), Type: domain.ProductTypeCD,
				ImageURL:        "https://images.example.com/beats/neon-dreams.jpg",
				AudioPreviewURL: "https://audio.example.com/neon-dreams.mp3",
				Genre:           "Synthwave", Artist: "Chaos Producer",
				CreatedAt: date("2024-01-15T10:00:00Z"), InStock: true, StockCount: 50,
			},
			{
				ID: "2", Title: "Digital Chaos", Description: "Glitchy experimental soundscapes",
				Price: decimal.RequireFromString("19.99"), Type: domain.ProductTypeUSB,
				ImageURL: "https://images.example.com/beats/digital-chaos.jpg",
				Genre:    "Experimental", Artist: "Glitch Master",
				CreatedAt: date("2024-01-20T14:30:00Z"), InStock: true, StockCount: 25,
			},
			{
				ID: "3", Title: "Urban Flow", Description: "Boom bap loops straight from the street",
				Price: decimal.RequireFromString("29.99"), Type: domain.ProductTypeCD,
				ImageURL:        "https://images.example.com/beats/urban-flow.jpg",
				AudioPreviewURL: "https://audio.example.com/urban-flow.mp3",
				Genre:           "Hip Hop", Artist: "Street Beats",
				CreatedAt: date("2024-02-01T09:15:00Z"), InStock: true, StockCount: 30,
			},
			{
				ID: "4", Title: "Cosmic Vibes", Description: "Ambient textures from outer space",
				Price: decimal.RequireFromString("34.99"), Type: domain.ProductTypeUSB,
				ImageURL: "https://images.example.com/beats/cosmic-vibes.jpg",
				Genre:    "Ambient", Artist: "Space Sound",
				CreatedAt: date("2024-02-10T16:45:00Z"),
			},
			{
				ID: "5", Title: "Pixel Rhythm", Description: "Chiptune bangers for retro heads",
				Price: decimal.RequireFromString("14.99"), Type: domain.ProductTypeCD,
				ImageURL: "https://images.example.com/beats/pixel-rhythm.jpg",
				Genre:    "Chiptune", Artist: "Glitch Master",
				CreatedAt: date("2024-03-05T11:20:00Z"), InStock: true, StockCount: 80,
			},
		},
		Artworks: []domain.ArtWork{
			{
				ID: "1", Title: "Psychedelic Dreams", Description: "An explosion of colors and shapes",
				ImageURL: "https://images.example.com/art/psychedelic-dreams.jpg",
				Artist:   luna, Category: domain.CategoryDigital,
				Tags:      []string{"psychedelic", "colorful", "abstract"},
				CreatedAt: date("2024-01-10T12:00:00Z"), Likes: 342, Views: 1205,
			},
			{
				ID: "2", Title: "Chaos Theory", Description: "Order emerging from pure randomness",
				ImageURL: "https://images.example.com/art/chaos-theory.jpg",
				Artist: domain.Artist{
					ID: "artist-2", Name: "Marco Flux", Bio: "Painter of the unpredictable",
					ProfileImageURL: "https://images.example.com/artists/marco.jpg",
					SocialLinks:     domain.SocialLinks{Twitter: "@marcoflux"},
				},
				Category:  domain.CategoryPainting,
				Tags:      []string{"chaos", "abstract"},
				CreatedAt: date("2024-01-25T15:30:00Z"), Likes: 198, Views: 876,
			},
			{
				ID: "3", Title: "Neon Garden", Description: "Flowers that glow in the dark",
				ImageURL: "https://images.example.com/art/neon-garden.jpg",
				Artist:   luna, Category: domain.CategoryMixed,
				Tags:      []string{"neon", "floral"},
				CreatedAt: date("2024-02-14T08:45:00Z"), Likes: 521, Views: 2310,
			},
			{
				ID: "4", Title: "Concrete Echoes", Description: "Street photography at dawn",
				ImageURL: "https://images.example.com/art/concrete-echoes.jpg",
				Artist: domain.Artist{
					ID: "artist-3", Name: "Ines Rayo", Bio: "Documenting cities before they wake up",
					ProfileImageURL: "https://images.example.com/artists/ines.jpg",
					SocialLinks:     domain.SocialLinks{Instagram: "@inesrayo", Twitter: "@inesrayo"},
					Verified:        true,
				},
				Category:  domain.CategoryPhotography,
				Tags:      []string{"urban", "dawn"},
				CreatedAt: date("2024-03-01T06:10:00Z"), Likes: 87, Views: 402,
			},
		},
	}
}
