package store

import "github.com/fjod/storefront/internal/domain"

// Reduce applies a to s and returns the resulting state. It never fails and
// never modifies s: the cart slice and favorite set are copied before they are
// changed, so snapshots handed out earlier stay valid.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddToCart:
		s.cart = addToCart(s.cart, a.Product)
	case RemoveFromCart:
		s.cart = removeLine(s.cart, a.ProductID)
	case UpdateCartQuantity:
		s.cart = updateQuantity(s.cart, a.ProductID, a.Quantity)
	case ToggleFavoriteArtwork:
		s.favorites = toggleFavorite(s.favorites, a.ArtworkID)
	case ClearCart:
		s.cart = nil
	case SetCurrentView:
		s.view = a.View
	}
	return s
}

func findLine(cart []domain.CartItem, productID string) int {
	for i := range cart {
		if cart[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func addToCart(cart []domain.CartItem, p domain.Product) []domain.CartItem {
	idx := findLine(cart, p.ID)
	if idx >= 0 {
		out := make([]domain.CartItem, len(cart))
		copy(out, cart)
		out[idx].Quantity++
		return out
	}

	out := make([]domain.CartItem, len(cart), len(cart)+1)
	copy(out, cart)
	return append(out, domain.CartItem{Product: p, Quantity: 1})
}

func removeLine(cart []domain.CartItem, productID string) []domain.CartItem {
	idx := findLine(cart, productID)
	if idx < 0 {
		return cart
	}

	out := make([]domain.CartItem, 0, len(cart)-1)
	out = append(out, cart[:idx]...)
	return append(out, cart[idx+1:]...)
}

func updateQuantity(cart []domain.CartItem, productID string, quantity int) []domain.CartItem {
	idx := findLine(cart, productID)
	if idx < 0 {
		return cart
	}
	if quantity <= 0 {
		return removeLine(cart, productID)
	}

	out := make([]domain.CartItem, len(cart))
	copy(out, cart)
	out[idx].Quantity = quantity
	return out
}

func toggleFavorite(favorites map[string]struct{}, artworkID string) map[string]struct{} {
	out := make(map[string]struct{}, len(favorites)+1)
	for id := range favorites {
		out[id] = struct{}{}
	}
	if _, ok := out[artworkID]; ok {
		delete(out, artworkID)
	} else {
		out[artworkID] = struct{}{}
	}
	return out
}
