package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/pkg/circuitbreaker"
	"github.com/segmentio/kafka-go"
)

// OrderWriter publishes placed orders, keyed by order id.
type OrderWriter struct {
	writer  MessageWriter
	breaker *circuitbreaker.Breaker
}

// NewOrderWriter returns a writer guarded by b. A nil breaker writes
// unguarded.
func NewOrderWriter(w MessageWriter, b *circuitbreaker.Breaker) *OrderWriter {
	return &OrderWriter{writer: w, breaker: b}
}

func (o *OrderWriter) PublishOrder(ctx context.Context, r *checkout.Receipt) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(r.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderPlaced)},
		},
	}
	write := func() error { return o.writer.WriteMessages(ctx, msg) }
	if o.breaker != nil {
		err = o.breaker.Do(write)
	} else {
		err = write()
	}
	if err != nil {
		return fmt.Errorf("write order message: %w", err)
	}
	return nil
}

func (o *OrderWriter) Close() error {
	return o.writer.Close()
}
