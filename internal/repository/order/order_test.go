package order

import (
	"context"
	"testing"
	"time"

	"pizzapalace/internal/domain"
	"pizzapalace/internal/testutil/pgtest"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput(userID string) PlaceOrderInput {
	return PlaceOrderInput{
		Order: domain.Order{
			UserID:          userID,
			Subtotal:        32.97,
			DeliveryFee:     2.99,
			Tax:             2.6376,
			Total:           38.5976,
			DeliveryAddress: "1 Main St",
			City:            "Springfield",
			PostalCode:      "12345",
			Phone:           "555-0100",
		},
		Lines: []domain.OrderLine{
			{ProductID: 1, ProductName: "Margherita", Quantity: 2, UnitPrice: 12.99, LineTotal: 25.98},
			{ProductID: 7, ProductName: "Garlic Bread", Quantity: 1, UnitPrice: 6.99, LineTotal: 6.99},
		},
	}
}

func countOrders(t *testing.T, pool *pgxpool.Pool) (orders, items int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&orders))
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM order_items`).Scan(&items))
	return orders, items
}

func TestPostgres_PlaceOrderWritesHeaderAndLines(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)
	user := pgtest.Account(t, pool, "o@example.com")

	o, replayed, err := repo.PlaceOrder(ctx, sampleInput(user))
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, "card", o.PaymentMethod)
	require.Len(t, o.Lines, 2)
	for _, l := range o.Lines {
		assert.Equal(t, o.ID, l.OrderID)
		assert.NotEmpty(t, l.ID)
	}

	orders, items := countOrders(t, pool)
	assert.Equal(t, 1, orders)
	assert.Equal(t, 2, items)
}

func TestPostgres_PlaceOrderIsAtomic(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)
	user := pgtest.Account(t, pool, "atomic@example.com")

	in := sampleInput(user)
	in.Lines[1].Quantity = 0 // violates the quantity check

	_, _, err := repo.PlaceOrder(ctx, in)
	require.Error(t, err)

	orders, items := countOrders(t, pool)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestPostgres_PlaceOrderRejectsEmpty(t *testing.T) {
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)
	in := sampleInput(pgtest.Account(t, pool, "empty@example.com"))
	in.Lines = nil

	_, _, err := repo.PlaceOrder(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostgres_PlaceOrderIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)
	user := pgtest.Account(t, pool, "idem@example.com")

	in := sampleInput(user)
	in.IdempotencyKey = "submit-1"
	first, replayed, err := repo.PlaceOrder(ctx, in)
	require.NoError(t, err)
	require.False(t, replayed)

	second, replayed, err := repo.PlaceOrder(ctx, in)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Lines, 2)

	orders, items := countOrders(t, pool)
	assert.Equal(t, 1, orders)
	assert.Equal(t, 2, items)
}

func TestPostgres_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)
	user := pgtest.Account(t, pool, "hist@example.com")
	other := pgtest.Account(t, pool, "other@example.com")

	older, _, err := repo.PlaceOrder(ctx, sampleInput(user))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE orders SET created_at = $1 WHERE id = $2`, time.Now().Add(-time.Hour), older.ID)
	require.NoError(t, err)
	newer, _, err := repo.PlaceOrder(ctx, sampleInput(user))
	require.NoError(t, err)
	_, _, err = repo.PlaceOrder(ctx, sampleInput(other))
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	assert.Len(t, list[0].Lines, 2)

	empty, err := repo.ListByUser(ctx, pgtest.Account(t, pool, "none@example.com"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostgres_GetLinesChecksOwner(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t)
	repo := NewPostgres(pool, nil)
	user := pgtest.Account(t, pool, "owner@example.com")
	other := pgtest.Account(t, pool, "thief@example.com")

	o, _, err := repo.PlaceOrder(ctx, sampleInput(user))
	require.NoError(t, err)

	lines, err := repo.GetLines(ctx, user, o.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	_, err = repo.GetLines(ctx, other, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
