package http

import (
	"net/http"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	responder
	store StateStore
}

func NewCatalogHandler(s StateStore, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{responder: newResponder(logger), store: s}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

type ArtworksResponse struct {
	Artworks []domain.ArtWork `json:"artworks"`
	Total    int              `json:"total"`
}

// GET /api/v1/products?search=&type=&sort=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.ProductQuery{
		Search: q.Get("search"),
		Type:   q.Get("type"),
		Sort:   catalog.ProductSort(q.Get("sort")),
	}

	if !query.Sort.Valid() {
		h.respondError(w, http.StatusBadRequest, "invalid_sort", "sort must be one of: price, name")
		return
	}
	if query.Type != "" && query.Type != "all" && !domain.ProductType(query.Type).Valid() {
		h.respondError(w, http.StatusBadRequest, "invalid_type", "type must be one of: all, cd, usb")
		return
	}

	products := catalog.FilterProducts(h.store.State().Products(), query)
	h.respondJSON(w, http.StatusOK, ProductsResponse{Products: products, Total: len(products)})
}

// GET /api/v1/artworks?search=&category=
func (h *CatalogHandler) ListArtworks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.ArtworkQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}

	if query.Category != "" && query.Category != "all" && !domain.ArtCategory(query.Category).Valid() {
		h.respondError(w, http.StatusBadRequest, "invalid_category", "unknown artwork category")
		return
	}

	artworks := catalog.FilterArtworks(h.store.State().Artworks(), query)
	h.respondJSON(w, http.StatusOK, ArtworksResponse{Artworks: artworks, Total: len(artworks)})
}
