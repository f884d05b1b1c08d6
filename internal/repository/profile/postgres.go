package profile

import (
	"context"

	"pizzapalace/internal/db"
	"pizzapalace/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const profileColumns = `id::text, COALESCE(email, ''), COALESCE(full_name, ''), COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at`

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id::text = $1`, userID))
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	const q = `
INSERT INTO profiles (id, email, full_name, phone, address)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    email = EXCLUDED.email,
    full_name = EXCLUDED.full_name,
    phone = EXCLUDED.phone,
    address = EXCLUDED.address,
    updated_at = now()
RETURNING ` + profileColumns
	return scan(r.pool.QueryRow(ctx, q, p.ID, p.Email, p.FullName, p.Phone, p.Address))
}

func (r *postgresRepo) EnsureExists(ctx context.Context, userID, email, fullName string) error {
	const q = `
INSERT INTO profiles (id, email, full_name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING
`
	if _, err := r.pool.Exec(ctx, q, userID, email, fullName); err != nil {
		return db.Classify(err)
	}
	return nil
}

func scan(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, db.Classify(err)
	}
	return &p, nil
}
