package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/segmentio/kafka-go"
)

// OrderCompletedEvent is the payload published when the order backend confirms
// an order, regardless of which terminal submitted it.
type OrderCompletedEvent struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id"`
}

// CartClearer is the slice of the session service the consumer needs.
type CartClearer interface {
	ClearCart(ctx context.Context, sessionID string) (*domain.SessionState, error)
}

// Consumer drains orders-completed events and clears the matching session's
// cart, so a cart submitted from another terminal does not linger here.
type Consumer struct {
	sessions CartClearer
	reader   *kafka.Reader
}

func NewConsumer(sessions CartClearer, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "orders-completed",
		GroupID:  "restaurant-api",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{sessions: sessions, reader: reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	if err := c.handleMessage(ctx, m.Value); err != nil {
		log.Printf("failed to handle orders-completed event: %v", err)
	}
}

func (c *Consumer) handleMessage(ctx context.Context, value []byte) error {
	var event OrderCompletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("error parsing message: %w", err)
	}
	if event.SessionID == "" {
		return fmt.Errorf("missing session_id in event for order %q", event.OrderID)
	}

	if _, err := c.sessions.ClearCart(ctx, event.SessionID); err != nil {
		return fmt.Errorf("failed to clear cart for session %s: %w", event.SessionID, err)
	}

	log.Printf("cleared cart for session %s after order %s completed", event.SessionID, event.OrderID)
	return nil
}
