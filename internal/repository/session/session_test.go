package session

import (
	"context"
	"testing"
	"time"

	"pizzapalace/internal/domain"
	"pizzapalace/internal/testutil/pgtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_Lifecycle(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool)
	accountID := pgtest.Account(t, pool, "s@example.com")

	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Create(ctx, Session{ID: "jti-1", AccountID: accountID, ExpiresAt: exp}))
	assert.ErrorIs(t, repo.Create(ctx, Session{ID: "jti-1", AccountID: accountID, ExpiresAt: exp}), domain.ErrAlreadyExists)

	got, err := repo.Get(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, accountID, got.AccountID)
	assert.True(t, exp.Equal(got.ExpiresAt))

	require.NoError(t, repo.Delete(ctx, "jti-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "jti-1"), domain.ErrNotFound)
	_, err = repo.Get(ctx, "jti-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
