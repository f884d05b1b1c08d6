package product

import (
	"context"

	"pizzapalace/internal/domain"
)

// Filter narrows a product listing. Only available products are ever listed.
type Filter struct {
	Category     string
	FeaturedOnly bool
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	// GetByID returns the product whatever its availability.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
