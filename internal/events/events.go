// Package events carries order lifecycle notifications out of the ledger.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

type Event struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"order_id"`
	Status     domain.OrderStatus `json:"status"`
	Previous   domain.OrderStatus `json:"previous,omitempty"`
	Total      decimal.Decimal    `json:"total"`
	OccurredAt time.Time          `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
