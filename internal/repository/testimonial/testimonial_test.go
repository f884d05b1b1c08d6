package testimonial

import (
	"context"
	"testing"

	"pizzapalace/internal/domain"
	"pizzapalace/internal/testutil/pgtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_ReactionsIncrement(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Pool(t))

	created, err := repo.Upsert(ctx, domain.Testimonial{Name: "John D.", Rating: 5, Comment: "Best pizza in town"})
	require.NoError(t, err)

	_, err = repo.AddReaction(ctx, created.ID, domain.ReactionLike)
	require.NoError(t, err)
	got, err := repo.AddReaction(ctx, created.ID, domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Likes)

	got, err = repo.AddReaction(ctx, created.ID, domain.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Likes)
	assert.Equal(t, 1, got.Dislikes)

	_, err = repo.AddReaction(ctx, created.ID, domain.Reaction("love"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = repo.AddReaction(ctx, "00000000-0000-0000-0000-000000000000", domain.ReactionLike)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_ListLimitAndUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Pool(t))

	for _, name := range []string{"A", "B", "C"} {
		_, err := repo.Upsert(ctx, domain.Testimonial{Name: name, Rating: 4, Comment: "good"})
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, domain.Testimonial{Name: "A", Rating: 5, Comment: "good"})
	require.NoError(t, err)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	two, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}
