package checkout

import (
	"pizzapalace/internal/cart"
	"pizzapalace/internal/domain"
)

// Pricing holds the checkout constants.
type Pricing struct {
	TaxRate     float64
	DeliveryFee float64
}

// DefaultPricing is 8% tax and a flat 2.99 delivery fee.
var DefaultPricing = Pricing{TaxRate: 0.08, DeliveryFee: 2.99}

// Totals are unrounded; rounding happens only for display.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
}

// ComputeTotals derives the order totals from the cart lines.
func ComputeTotals(lines []domain.CartLine, p Pricing) Totals {
	subtotal := cart.Total(lines)
	tax := subtotal * p.TaxRate
	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: p.DeliveryFee,
		Total:       subtotal + p.DeliveryFee + tax,
	}
}
