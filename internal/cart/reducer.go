package cart

import "pizzapalace/internal/domain"

// Action is a cart mutation dispatched through a Store.
type Action interface {
	isAction()
}

// AddItem increments the line for Product.ID by Units, or appends it with
// quantity Units. Units below 1 count as 1.
type AddItem struct {
	Product domain.Product
	Units   int
}

// RemoveItem deletes the line for ProductID. Absent ids are a no-op.
type RemoveItem struct {
	ProductID int64
}

// UpdateQuantity replaces a line's quantity; Quantity <= 0 removes the line.
type UpdateQuantity struct {
	ProductID int64
	Quantity  int
}

// Clear empties the cart.
type Clear struct{}

// Hydrate replaces the cart with lines read back from storage.
type Hydrate struct {
	Lines []domain.CartLine
}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}
func (Hydrate) isAction()        {}

// Reduce applies a to lines and returns the new line set. The input slice is
// never modified.
func Reduce(lines []domain.CartLine, a Action) []domain.CartLine {
	switch a := a.(type) {
	case AddItem:
		units := max(a.Units, 1)
		out := make([]domain.CartLine, 0, len(lines)+1)
		found := false
		for _, l := range lines {
			if l.ProductID == a.Product.ID {
				l.Quantity += units
				found = true
			}
			out = append(out, l)
		}
		if !found {
			out = append(out, domain.CartLine{
				ProductID: a.Product.ID,
				Name:      a.Product.Name,
				UnitPrice: a.Product.UnitPrice,
				Quantity:  units,
				ImageURL:  a.Product.ImageURL,
			})
		}
		return out
	case RemoveItem:
		return removeLine(lines, a.ProductID)
	case UpdateQuantity:
		if a.Quantity <= 0 {
			return removeLine(lines, a.ProductID)
		}
		out := make([]domain.CartLine, len(lines))
		for i, l := range lines {
			if l.ProductID == a.ProductID {
				l.Quantity = a.Quantity
			}
			out[i] = l
		}
		return out
	case Clear:
		return []domain.CartLine{}
	case Hydrate:
		return normalize(a.Lines)
	default:
		return lines
	}
}

func removeLine(lines []domain.CartLine, productID int64) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}

// normalize drops lines with a non-positive quantity and folds duplicate
// product ids into the first occurrence.
func normalize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

// Total is the sum of unit price times quantity over lines.
func Total(lines []domain.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.LineTotal()
	}
	return sum
}

// TotalItems is the sum of quantities over lines.
func TotalItems(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
