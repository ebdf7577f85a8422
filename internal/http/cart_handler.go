package http

import (
	"net/http"
	"strings"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxQuantity = 99

type CartHandler struct {
	responder
	store StateStore
}

func NewCartHandler(s StateStore, logger *zap.Logger) *CartHandler {
	return &CartHandler{responder: newResponder(logger), store: s}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type CartLineDTO struct {
	Product   domain.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponseDTO struct {
	Items     []CartLineDTO   `json:"items"`
	LineCount int             `json:"line_count"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Version   uint64          `json:"version"`
}

func toCartResponse(s store.State) CartResponseDTO {
	cart := s.Cart()
	items := make([]CartLineDTO, len(cart))
	for i, it := range cart {
		items[i] = CartLineDTO{
			Product:   it.Product,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal(),
		}
	}
	return CartResponseDTO{
		Items:     items,
		LineCount: s.LineCount(),
		ItemCount: s.ItemCount(),
		Subtotal:  s.Subtotal(),
		Version:   s.Version(),
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, toCartResponse(h.store.State()))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !h.decodeJSON(w, r, &req) {
		return
	}

	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, ok := h.store.State().Product(productID)
	if !ok {
		h.respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}

	// the cap is checked and the line incremented in one store transition
	capped := false
	next := h.store.Update(func(cur store.State) []store.Action {
		if line, ok := cur.CartItem(productID); ok && line.Quantity >= maxQuantity {
			capped = true
			return nil
		}
		return []store.Action{store.AddToCart{Product: product}}
	})
	if capped {
		h.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	h.respondJSON(w, http.StatusCreated, toCartResponse(next))
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if req.Quantity == nil {
		h.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}
	if *req.Quantity > maxQuantity {
		h.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	// quantity <= 0 removes the line
	next := h.store.Apply(store.UpdateCartQuantity{ProductID: productID, Quantity: *req.Quantity})
	h.respondJSON(w, http.StatusOK, toCartResponse(next))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	next := h.store.Apply(store.RemoveFromCart{ProductID: productID})
	h.respondJSON(w, http.StatusOK, toCartResponse(next))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, _ *http.Request) {
	next := h.store.Apply(store.ClearCart{})
	h.respondJSON(w, http.StatusOK, toCartResponse(next))
}
