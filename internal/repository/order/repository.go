package order

import (
	"context"

	"pizzapalace/internal/domain"
)

// PlaceOrderInput is an order header plus the lines copied from the cart.
// IdempotencyKey, when set, makes repeated submissions return the first order.
type PlaceOrderInput struct {
	Order          domain.Order
	Lines          []domain.OrderLine
	IdempotencyKey string
}

type Repository interface {
	// PlaceOrder writes the header and every line atomically. The bool is true
	// when an order with the same idempotency key already existed.
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, bool, error)
	// ListByUser returns the user's orders newest first with their lines.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// GetLines returns the lines of one order owned by userID.
	GetLines(ctx context.Context, userID, orderID string) ([]domain.OrderLine, error)
}
