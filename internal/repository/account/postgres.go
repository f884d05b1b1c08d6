package account

import (
	"context"
	"strings"

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

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, log *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log).Named("account_repo")}
}

const accountColumns = `id::text, email, password_hash, full_name, created_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO accounts (email, password_hash, full_name)
VALUES ($1, $2, $3)
RETURNING ` + accountColumns
	return r.scan(r.pool.QueryRow(ctx, q, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.FullName))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1) LIMIT 1`
	return r.scan(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE id::text = $1 LIMIT 1`
	return r.scan(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) scan(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt); err != nil {
		err = db.Classify(err)
		if err != domain.ErrNotFound && err != domain.ErrAlreadyExists {
			r.logger.Warn("scan failed", zap.Error(err))
		}
		return nil, err
	}
	return &u, nil
}
