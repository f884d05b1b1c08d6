package seed

import (
	"context"
	"fmt"

	"pizzapalace/internal/catalog"
	"pizzapalace/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type TestimonialWriter interface {
	Upsert(ctx context.Context, t domain.Testimonial) (*domain.Testimonial, error)
}

// Result counts the records written by Apply.
type Result struct {
	Products     int
	Testimonials int
}

// Apply inserts the built-in menu and testimonials. It is idempotent: rows
// are upserted by product name and by (name, comment).
func Apply(ctx context.Context, products ProductWriter, testimonials TestimonialWriter) (Result, error) {
	var res Result
	for _, p := range catalog.FallbackProducts() {
		if _, err := products.Upsert(ctx, p); err != nil {
			return res, fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
		res.Products++
	}
	for _, t := range catalog.FallbackTestimonials() {
		if _, err := testimonials.Upsert(ctx, t); err != nil {
			return res, fmt.Errorf("upsert testimonial %s: %w", t.Name, err)
		}
		res.Testimonials++
	}
	return res, nil
}
