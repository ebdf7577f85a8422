package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/fjod/storefront/internal/store"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CheckoutCompleted is the payload read from the checkout outbox topic.
type CheckoutCompleted struct {
	CheckoutID  string    `json:"checkout_id"`
	UserID      string    `json:"user_id,omitempty"`
	TotalAmount string    `json:"total_amount,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

type Applier interface {
	Apply(a store.Action) store.State
}

// CheckoutConsumer empties the cart when an external checkout completes.
type CheckoutConsumer struct {
	reader  MessageReader
	store   Applier
	logger  *zap.Logger
	backoff time.Duration
}

func NewCheckoutConsumer(r MessageReader, s Applier, logger *zap.Logger) *CheckoutConsumer {
	return &CheckoutConsumer{
		reader:  r,
		store:   s,
		logger:  logger,
		backoff: time.Second,
	}
}

// Run reads until ctx is cancelled or the reader is closed.
func (c *CheckoutConsumer) Run(ctx context.Context) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			c.logger.Error("error reading checkout message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff):
			}
			continue
		}
		c.handle(m)
	}
}

func (c *CheckoutConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Warn("error closing checkout reader", zap.Error(err))
	}
}

func (c *CheckoutConsumer) handle(m kafka.Message) {
	if et := header(m, "event_type"); et != "" && et != EventTypeCheckoutCompleted && et != "checkout" {
		c.logger.Debug("skipping checkout message", zap.String("event_type", et))
		return
	}

	var payload CheckoutCompleted
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		c.logger.Warn("malformed checkout message",
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		return
	}
	if payload.CheckoutID == "" {
		c.logger.Warn("checkout message without checkout_id", zap.Int64("offset", m.Offset))
		return
	}

	st := c.store.Apply(store.ClearCart{})
	c.logger.Info("cart cleared by completed checkout",
		zap.String("checkout_id", payload.CheckoutID),
		zap.Uint64("version", st.Version()),
	)
}
