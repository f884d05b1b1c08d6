package db

import (
	"errors"
	"fmt"
	"testing"

	"pizzapalace/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))
	assert.ErrorIs(t, Classify(pgx.ErrNoRows), domain.ErrNotFound)
	assert.ErrorIs(t, Classify(fmt.Errorf("scan: %w", pgx.ErrNoRows)), domain.ErrNotFound)
	assert.ErrorIs(t, Classify(&pgconn.PgError{Code: "23505"}), domain.ErrAlreadyExists)

	missing := Classify(&pgconn.PgError{Code: "42P01", Message: `relation "products" does not exist`})
	assert.ErrorIs(t, missing, domain.ErrSchemaMissing)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(missing, &pgErr))

	other := errors.New("connection refused")
	assert.Equal(t, other, Classify(other))
}
