package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/store"
	"github.com/fjod/storefront/pkg/circuitbreaker"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const stateMessageKey = "storefront"

// StateChanged is published after every applied action.
type StateChanged struct {
	EventID       string          `json:"event_id"`
	Version       uint64          `json:"version"`
	Action        string          `json:"action"`
	LineCount     int             `json:"line_count"`
	ItemCount     int             `json:"item_count"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	FavoriteCount int             `json:"favorite_count"`
	View          domain.View     `json:"view"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func NewStateChanged(s store.State, a store.Action) StateChanged {
	return StateChanged{
		EventID:       uuid.NewString(),
		Version:       s.Version(),
		Action:        a.Name(),
		LineCount:     s.LineCount(),
		ItemCount:     s.ItemCount(),
		Subtotal:      s.Subtotal(),
		FavoriteCount: s.FavoriteCount(),
		View:          s.View(),
		OccurredAt:    time.Now().UTC(),
	}
}

// StatePublisher forwards store transitions to Kafka. Notify runs under the
// store lock, so it only enqueues; a single goroutine does the writes in
// apply order. When the buffer is full the event is dropped and logged.
type StatePublisher struct {
	writer       MessageWriter
	breaker      *circuitbreaker.Breaker
	logger       *zap.Logger
	writeTimeout time.Duration

	events    chan StateChanged
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewStatePublisher starts the publishing goroutine. b may be nil.
func NewStatePublisher(w MessageWriter, b *circuitbreaker.Breaker, logger *zap.Logger, buffer int) *StatePublisher {
	if buffer <= 0 {
		buffer = 256
	}
	p := &StatePublisher{
		writer:       w,
		breaker:      b,
		logger:       logger,
		writeTimeout: 10 * time.Second,
		events:       make(chan StateChanged, buffer),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
	go p.run()
	return p
}

// Notify has the store.Listener signature.
func (p *StatePublisher) Notify(s store.State, a store.Action) {
	ev := NewStateChanged(s, a)
	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.events <- ev:
	default:
		p.logger.Warn("state event buffer full, dropping event",
			zap.Uint64("version", ev.Version),
			zap.String("action", ev.Action),
		)
	}
}

// Close stops accepting events, writes what is already queued and closes
// the writer.
func (p *StatePublisher) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	<-p.stopped
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close state writer: %w", err)
	}
	return nil
}

func (p *StatePublisher) run() {
	defer close(p.stopped)
	for {
		select {
		case ev := <-p.events:
			p.publish(ev)
		case <-p.done:
			for {
				select {
				case ev := <-p.events:
					p.publish(ev)
				default:
					return
				}
			}
		}
	}
}

func (p *StatePublisher) publish(ev StateChanged) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("failed to marshal state event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(stateMessageKey),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeStateChanged)},
		},
	}
	write := func() error { return p.writer.WriteMessages(ctx, msg) }
	if p.breaker != nil {
		err = p.breaker.Do(write)
	} else {
		err = write()
	}
	if err != nil {
		p.logger.Error("failed to publish state event",
			zap.Uint64("version", ev.Version),
			zap.Error(err),
		)
	}
}
