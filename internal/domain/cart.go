package domain

// CartLine is one product entry in the shopping cart. Quantity is always >= 1;
// a line whose quantity would drop to zero is removed instead.
type CartLine struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// LineTotal returns unit price times quantity.
func (l CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
