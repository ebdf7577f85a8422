package http

import (
	"net/http"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StateHandler struct {
	responder
	store StateStore
}

func NewStateHandler(s StateStore, logger *zap.Logger) *StateHandler {
	return &StateHandler{responder: newResponder(logger), store: s}
}

type SetViewRequestDTO struct {
	View string `json:"view"`
}

type FavoriteResponseDTO struct {
	ArtworkID     string   `json:"artwork_id"`
	Favorite      bool     `json:"favorite"`
	FavoriteCount int      `json:"favorite_count"`
	Favorites     []string `json:"favorites"`
}

// GET /api/v1/state
func (h *StateHandler) GetState(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, h.store.State().Snapshot())
}

// POST /api/v1/favorites/{artwork_id}/toggle
func (h *StateHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "artwork_id")

	if _, ok := h.store.State().Artwork(artworkID); !ok {
		h.respondError(w, http.StatusNotFound, "artwork_not_found", "artwork not found")
		return
	}

	next := h.store.Apply(store.ToggleFavoriteArtwork{ArtworkID: artworkID})
	h.respondJSON(w, http.StatusOK, FavoriteResponseDTO{
		ArtworkID:     artworkID,
		Favorite:      next.IsFavorite(artworkID),
		FavoriteCount: next.FavoriteCount(),
		Favorites:     next.Favorites(),
	})
}

// PUT /api/v1/view
func (h *StateHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req SetViewRequestDTO
	if !h.decodeJSON(w, r, &req) {
		return
	}

	view := domain.View(req.View)
	if !view.Valid() {
		h.respondError(w, http.StatusBadRequest, "invalid_view", "view must be one of: home, shop, gallery, profile")
		return
	}

	next := h.store.Apply(store.SetCurrentView{View: view})
	h.respondJSON(w, http.StatusOK, next.Snapshot())
}
