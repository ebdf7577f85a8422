package store

import (
	"sort"

	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// catalogIndex is built once when the store is created and shared, read-only,
// by every state derived from it.
type catalogIndex struct {
	products   []domain.Product
	artworks   []domain.ArtWork
	productIdx map[string]int
	artworkIdx map[string]int
}

func newCatalogIndex(c domain.Catalog) *catalogIndex {
	idx := &catalogIndex{
		products:   append([]domain.Product(nil), c.Products...),
		artworks:   append([]domain.ArtWork(nil), c.Artworks...),
		productIdx: make(map[string]int, len(c.Products)),
		artworkIdx: make(map[string]int, len(c.Artworks)),
	}
	for i, p := range idx.products {
		idx.productIdx[p.ID] = i
	}
	for i, a := range idx.artworks {
		idx.artworkIdx[a.ID] = i
	}
	return idx
}

// State is an immutable snapshot of the application state. All accessors
// return copies; derived values are computed on every call.
type State struct {
	catalog   *catalogIndex
	cart      []domain.CartItem
	favorites map[string]struct{}
	view      domain.View
	version   uint64
}

// NewState returns the initial state for the given catalog: empty cart, no
// favorites, home view.
func NewState(c domain.Catalog) State {
	return State{
		catalog: newCatalogIndex(c),
		view:    domain.ViewHome,
	}
}

func (s State) Version() uint64 { return s.version }

func (s State) View() domain.View { return s.view }

func (s State) Products() []domain.Product {
	if s.catalog == nil {
		return nil
	}
	return append([]domain.Product(nil), s.catalog.products...)
}

func (s State) Artworks() []domain.ArtWork {
	if s.catalog == nil {
		return nil
	}
	return append([]domain.ArtWork(nil), s.catalog.artworks...)
}

func (s State) Product(id string) (domain.Product, bool) {
	if s.catalog == nil {
		return domain.Product{}, false
	}
	i, ok := s.catalog.productIdx[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.catalog.products[i], true
}

func (s State) Artwork(id string) (domain.ArtWork, bool) {
	if s.catalog == nil {
		return domain.ArtWork{}, false
	}
	i, ok := s.catalog.artworkIdx[id]
	if !ok {
		return domain.ArtWork{}, false
	}
	return s.catalog.artworks[i], true
}

// Cart returns the line items in the order they were first added.
func (s State) Cart() []domain.CartItem {
	return append([]domain.CartItem(nil), s.cart...)
}

func (s State) CartItem(productID string) (domain.CartItem, bool) {
	if i := findLine(s.cart, productID); i >= 0 {
		return s.cart[i], true
	}
	return domain.CartItem{}, false
}

func (s State) HasItems() bool { return len(s.cart) > 0 }

func (s State) LineCount() int { return len(s.cart) }

// ItemCount is the sum of quantities over all lines.
func (s State) ItemCount() int {
	n := 0
	for _, item := range s.cart {
		n += item.Quantity
	}
	return n
}

// Subtotal is the sum of price * quantity over all lines.
func (s State) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.cart {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (s State) IsFavorite(artworkID string) bool {
	_, ok := s.favorites[artworkID]
	return ok
}

func (s State) FavoriteCount() int { return len(s.favorites) }

// Favorites returns the favorite artwork ids sorted for stable output.
func (s State) Favorites() []string {
	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot is the serializable view of a State, without the catalog.
type Snapshot struct {
	Version       uint64            `json:"version"`
	View          domain.View       `json:"view"`
	Cart          []domain.CartItem `json:"cart"`
	Favorites     []string          `json:"favorites"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	ItemCount     int               `json:"item_count"`
	FavoriteCount int               `json:"favorite_count"`
}

func (s State) Snapshot() Snapshot {
	cart := s.Cart()
	if cart == nil {
		cart = []domain.CartItem{}
	}
	return Snapshot{
		Version:       s.version,
		View:          s.view,
		Cart:          cart,
		Favorites:     s.Favorites(),
		Subtotal:      s.Subtotal(),
		ItemCount:     s.ItemCount(),
		FavoriteCount: s.FavoriteCount(),
	}
}
