package store

import "github.com/fjod/storefront/internal/domain"

// Action is a single state transition. The set of actions is closed: every
// variant is declared in this file and handled by Reduce.
type Action interface {
	Name() string
	isAction()
}

// AddToCart increments the line for Product or appends a new line with quantity 1.
type AddToCart struct {
	Product domain.Product
}

// RemoveFromCart deletes the line for ProductID. Absent ids are ignored.
type RemoveFromCart struct {
	ProductID string
}

// UpdateCartQuantity sets the quantity of the line for ProductID.
// A quantity <= 0 removes the line.
type UpdateCartQuantity struct {
	ProductID string
	Quantity  int
}

// ToggleFavoriteArtwork flips membership of ArtworkID in the favorite set.
type ToggleFavoriteArtwork struct {
	ArtworkID string
}

// ClearCart empties the cart. Favorites and catalogs are kept.
type ClearCart struct{}

// SetCurrentView replaces the selected view.
type SetCurrentView struct {
	View domain.View
}

func (AddToCart) Name() string             { return "add_to_cart" }
func (RemoveFromCart) Name() string        { return "remove_from_cart" }
func (UpdateCartQuantity) Name() string    { return "update_cart_quantity" }
func (ToggleFavoriteArtwork) Name() string { return "toggle_favorite_artwork" }
func (ClearCart) Name() string             { return "clear_cart" }
func (SetCurrentView) Name() string        { return "set_current_view" }

func (AddToCart) isAction()             {}
func (RemoveFromCart) isAction()        {}
func (UpdateCartQuantity) isAction()    {}
func (ToggleFavoriteArtwork) isAction() {}
func (ClearCart) isAction()             {}
func (SetCurrentView) isAction()        {}
