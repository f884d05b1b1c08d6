package order

import (
	"context"
	"errors"
	"fmt"

	"pizzapalace/internal/db"
	"pizzapalace/internal/domain"
	"pizzapalace/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log).Named("order_repo")}
}

const orderColumns = `id::text, user_id::text, subtotal, delivery_fee, tax, total,
       COALESCE(delivery_address, ''), COALESCE(city, ''), COALESCE(postal_code, ''), COALESCE(phone, ''),
       COALESCE(special_instructions, ''), payment_method, status, created_at, updated_at`

const lineColumns = `id::text, order_id::text, COALESCE(product_id, 0), product_name, quantity, price, total, created_at`

func (r *postgresRepo) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, bool, error) {
	if len(in.Lines) == 0 {
		return nil, false, fmt.Errorf("%w: order has no lines", domain.ErrValidation)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	o := in.Order
	if o.Status == "" {
		o.Status = domain.StatusPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = "card"
	}

	const insertOrder = `
INSERT INTO orders (
    user_id, subtotal, delivery_fee, tax, total, delivery_address, city, postal_code, phone,
    special_instructions, payment_method, status, idempotency_key
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, NULLIF($13, ''))
ON CONFLICT (user_id, idempotency_key) WHERE idempotency_key IS NOT NULL DO NOTHING
RETURNING id::text, created_at, updated_at
`
	err = tx.QueryRow(ctx, insertOrder,
		o.UserID, o.Subtotal, o.DeliveryFee, o.Tax, o.Total,
		o.DeliveryAddress, o.City, o.PostalCode, o.Phone,
		o.SpecialInstructions, o.PaymentMethod, string(o.Status), in.IdempotencyKey,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := r.byIdempotencyKey(ctx, tx, o.UserID, in.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		r.logger.Info("replayed order", zap.String("order_id", existing.ID), zap.String("user_id", o.UserID))
		return existing, true, nil
	}
	if err != nil {
		r.logger.Warn("insert order failed", zap.String("user_id", o.UserID), zap.Error(err))
		return nil, false, db.Classify(err)
	}

	const insertLine = `
INSERT INTO order_items (order_id, product_id, product_name, quantity, price, total)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, created_at
`
	batch := &pgx.Batch{}
	for _, l := range in.Lines {
		batch.Queue(insertLine, o.ID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice, l.LineTotal)
	}
	results := tx.SendBatch(ctx, batch)
	o.Lines = make([]domain.OrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		l.OrderID = o.ID
		if err := results.QueryRow().Scan(&l.ID, &l.CreatedAt); err != nil {
			results.Close()
			r.logger.Warn("insert order line failed", zap.String("order_id", o.ID), zap.Error(err))
			return nil, false, db.Classify(err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := results.Close(); err != nil {
		return nil, false, db.Classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	r.logger.Info("placed order", zap.String("order_id", o.ID), zap.Int("lines", len(o.Lines)), zap.Float64("total", o.Total))
	return &o, false, nil
}

func (r *postgresRepo) byIdempotencyKey(ctx context.Context, tx pgx.Tx, userID, key string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 AND idempotency_key = $2`
	o, err := scanOrder(tx.QueryRow(ctx, q, userID, key))
	if err != nil {
		return nil, db.Classify(err)
	}
	lines, err := queryLines(ctx, tx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]
	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id::text = $1 ORDER BY created_at DESC, id`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lines, err := queryLines(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	r.logger.Debug("list orders", zap.String("user_id", userID), zap.Int("count", len(orders)))
	return orders, nil
}

func (r *postgresRepo) GetLines(ctx context.Context, userID, orderID string) ([]domain.OrderLine, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id::text = $1 AND user_id::text = $2)`,
		orderID, userID).Scan(&exists)
	if err != nil {
		return nil, db.Classify(err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	lines, err := queryLines(ctx, r.pool, []string{orderID})
	if err != nil {
		return nil, err
	}
	return lines[orderID], nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryLines(ctx context.Context, q querier, orderIDs []string) (map[string][]domain.OrderLine, error) {
	rows, err := q.Query(ctx,
		`SELECT `+lineColumns+` FROM order_items WHERE order_id::text = ANY($1) ORDER BY created_at, id`,
		orderIDs)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderLine, len(orderIDs))
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.LineTotal, &l.CreatedAt); err != nil {
			return nil, err
		}
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	return out, db.Classify(rows.Err())
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID, &o.UserID, &o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Total,
		&o.DeliveryAddress, &o.City, &o.PostalCode, &o.Phone,
		&o.SpecialInstructions, &o.PaymentMethod, &status, &o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = domain.OrderStatus(status)
	return o, err
}
