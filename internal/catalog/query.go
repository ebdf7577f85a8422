package catalog

import (
	"sort"
	"strings"

	"github.com/fjod/storefront/internal/domain"
)

type ProductSort string

const (
	SortCatalog ProductSort = ""
	SortPrice   ProductSort = "price"
	SortName    ProductSort = "name"
)

func (s ProductSort) Valid() bool {
	return s == SortCatalog || s == SortPrice || s == SortName
}

// ProductQuery narrows the shop listing. Type "" or "all" matches every type.
type ProductQuery struct {
	Search string
	Type   string
	Sort   ProductSort
}

// ArtworkQuery narrows the gallery listing. Category "" or "all" matches
// every category.
type ArtworkQuery struct {
	Search   string
	Category string
}

// FilterProducts returns the products matching q, in a new slice.
// Unknown sort keys keep catalog order.
func FilterProducts(products []domain.Product, q ProductQuery) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matchesAll(q.Type, string(p.Type)) {
			continue
		}
		if search != "" && !containsFold(p.Title, search) && !containsFold(p.Artist, search) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPrice:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.LessThan(out[j].Price)
		})
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	}

	return out
}

// FilterArtworks returns the artworks matching q in catalog order.
func FilterArtworks(artworks []domain.ArtWork, q ArtworkQuery) []domain.ArtWork {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]domain.ArtWork, 0, len(artworks))
	for _, a := range artworks {
		if !matchesAll(q.Category, string(a.Category)) {
			continue
		}
		if search != "" && !containsFold(a.Title, search) && !containsFold(a.Artist.Name, search) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchesAll(filter, value string) bool {
	return filter == "" || filter == "all" || filter == value
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}
