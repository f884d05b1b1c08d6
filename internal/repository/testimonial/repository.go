package testimonial

import (
	"context"

	"pizzapalace/internal/domain"
)

type Repository interface {
	// List returns up to limit testimonials, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.Testimonial, error)
	// AddReaction increments the like or dislike counter and returns the row.
	AddReaction(ctx context.Context, id string, r domain.Reaction) (*domain.Testimonial, error)
	Upsert(ctx context.Context, t domain.Testimonial) (*domain.Testimonial, error)
}
