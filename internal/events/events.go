// Package events hands placed orders to the external fulfillment process.
package events

import (
	"context"

	"pizzapalace/internal/domain"
)

// EventOrderPlaced is the event_type header of a new-order record.
const EventOrderPlaced = "order.placed"

// Publisher announces placed orders. Failures never undo a checkout.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o domain.Order) error
	Close()
}

// Nop discards every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) PublishOrderPlaced(context.Context, domain.Order) error { return nil }
func (Nop) Close()                                               {}
