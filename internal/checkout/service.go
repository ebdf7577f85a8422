package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const Currency = "EUR"

var ErrEmptyCart = errors.New("cart is empty")

// Receipt is the record of a placed order.
type Receipt struct {
	ID        string            `json:"id"`
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
	Currency  string            `json:"currency"`
	PlacedAt  time.Time         `json:"placed_at"`
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, r *Receipt) error
}

// StateStore is the part of store.Store checkout needs.
type StateStore interface {
	State() store.State
	Update(fn func(store.State) []store.Action) store.State
}

type Service struct {
	// mu serializes checkouts from read to removal.
	mu sync.Mutex

	store     StateStore
	publisher OrderPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService builds the checkout service. A nil publisher places orders
// without announcing them.
func NewService(s StateStore, publisher OrderPublisher, logger *zap.Logger) *Service {
	return &Service{
		store:     s,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Checkout turns the current cart into a receipt and removes the ordered
// quantities from the cart. Items added while the order is being published
// stay in the cart. The cart is left untouched when publishing fails.
func (s *Service) Checkout(ctx context.Context) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.store.State()
	if !st.HasItems() {
		return nil, ErrEmptyCart
	}

	receipt := &Receipt{
		ID:        uuid.NewString(),
		Items:     st.Cart(),
		ItemCount: st.ItemCount(),
		Total:     st.Subtotal(),
		Currency:  Currency,
		PlacedAt:  s.now().UTC(),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrder(ctx, receipt); err != nil {
			s.logger.Error("failed to publish order",
				zap.String("order_id", receipt.ID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("publish order %s: %w", receipt.ID, err)
		}
	}

	s.store.Update(func(cur store.State) []store.Action {
		return removeOrdered(cur, receipt.Items)
	})

	s.logger.Info("order placed",
		zap.String("order_id", receipt.ID),
		zap.Int("items", receipt.ItemCount),
		zap.String("total", receipt.Total.StringFixed(2)),
	)
	return receipt, nil
}

// removeOrdered returns the actions that take the ordered quantities out of
// cur. A line whose remaining quantity drops to zero or below is removed.
func removeOrdered(cur store.State, ordered []domain.CartItem) []store.Action {
	actions := make([]store.Action, 0, len(ordered))
	for _, it := range ordered {
		line, ok := cur.CartItem(it.Product.ID)
		if !ok {
			continue
		}
		actions = append(actions, store.UpdateCartQuantity{
			ProductID: it.Product.ID,
			Quantity:  line.Quantity - it.Quantity,
		})
	}
	return actions
}
