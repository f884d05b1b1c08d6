package profile

import (
	"context"

	"pizzapalace/internal/domain"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	// Upsert writes every editable field of p, creating the row if needed.
	Upsert(ctx context.Context, p domain.Profile) (*domain.Profile, error)
	// EnsureExists creates an empty profile for the user unless one exists.
	EnsureExists(ctx context.Context, userID, email, fullName string) error
}
