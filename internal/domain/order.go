package domain

import "time"

// OrderStatus is the fulfillment state of an order. Status changes are made by
// an external fulfillment process; the storefront only creates pending orders.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

type statusPresentation struct {
	label string
	tone  string
}

var statusPresentations = map[OrderStatus]statusPresentation{
	StatusPending:        {label: "Pending", tone: "yellow"},
	StatusConfirmed:      {label: "Confirmed", tone: "blue"},
	StatusPreparing:      {label: "Preparing", tone: "orange"},
	StatusOutForDelivery: {label: "Out for delivery", tone: "purple"},
	StatusDelivered:      {label: "Delivered", tone: "green"},
	StatusCancelled:      {label: "Cancelled", tone: "red"},
}

var unknownStatus = statusPresentation{label: "Unknown", tone: "gray"}

// Known reports whether s is one of the enumerated statuses.
func (s OrderStatus) Known() bool {
	_, ok := statusPresentations[s]
	return ok
}

// Label returns the human-readable label, or "Unknown" for unrecognized values.
func (s OrderStatus) Label() string {
	if p, ok := statusPresentations[s]; ok {
		return p.label
	}
	return unknownStatus.label
}

// Tone returns the color token used to render the status badge.
func (s OrderStatus) Tone() string {
	if p, ok := statusPresentations[s]; ok {
		return p.tone
	}
	return unknownStatus.tone
}

// Order is the header record created once per successful checkout.
// Total always equals Subtotal + DeliveryFee + Tax.
type Order struct {
	ID                  string      `json:"id"`
	UserID              string      `json:"userId"`
	Subtotal            float64     `json:"subtotal"`
	DeliveryFee         float64     `json:"deliveryFee"`
	Tax                 float64     `json:"tax"`
	Total               float64     `json:"total"`
	DeliveryAddress     string      `json:"deliveryAddress"`
	City                string      `json:"city"`
	PostalCode          string      `json:"postalCode"`
	Phone               string      `json:"phone"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
	PaymentMethod       string      `json:"paymentMethod"`
	Status              OrderStatus `json:"status"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
	Lines               []OrderLine `json:"lines,omitempty"`
}

// OrderLine is an immutable copy of a cart line taken at checkout.
type OrderLine struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"price"`
	LineTotal   float64   `json:"total"`
	CreatedAt   time.Time `json:"createdAt"`
}
