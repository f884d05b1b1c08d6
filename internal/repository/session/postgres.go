package session

import (
	"context"

	"pizzapalace/internal/db"
	"pizzapalace/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, s Session) error {
	const q = `INSERT INTO sessions (id, account_id, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, q, s.ID, s.AccountID, s.ExpiresAt); err != nil {
		return db.Classify(err)
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*Session, error) {
	const q = `
SELECT id, account_id::text, expires_at, created_at
FROM sessions
WHERE id = $1
LIMIT 1
`
	var out Session
	if err := r.pool.QueryRow(ctx, q, id).Scan(&out.ID, &out.AccountID, &out.ExpiresAt, &out.CreatedAt); err != nil {
		return nil, db.Classify(err)
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
