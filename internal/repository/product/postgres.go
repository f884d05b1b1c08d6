package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pizzapalace/internal/db"
	"pizzapalace/internal/domain"
	"pizzapalace/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log).Named("product_repo")}
}

// productRow mirrors a products row before it crosses into the domain.
type productRow struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
	Featured    bool
	Available   bool
	CreatedAt   time.Time
}

func (r productRow) toDomain() (domain.Product, error) {
	if r.Price < 0 {
		return domain.Product{}, fmt.Errorf("product %d: negative price %v", r.ID, r.Price)
	}
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		UnitPrice:   r.Price,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		Featured:    r.Featured,
		Available:   r.Available,
		CreatedAt:   r.CreatedAt,
	}, nil
}

const selectColumns = `id, name, COALESCE(description, ''), price::float8, category, COALESCE(image_url, ''), featured, available, created_at`

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	conds := []string{"available = true"}
	var args []any
	if c := strings.TrimSpace(f.Category); c != "" {
		args = append(args, c)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.FeaturedOnly {
		conds = append(conds, "featured = true")
	}
	q := `SELECT ` + selectColumns + ` FROM products WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Debug("list failed", zap.String("category", f.Category), zap.Error(err))
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var row productRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Description, &row.Price, &row.Category, &row.ImageURL, &row.Featured, &row.Available, &row.CreatedAt); err != nil {
			return nil, err
		}
		p, err := row.toDomain()
		if err != nil {
			r.logger.Warn("skipping malformed product", zap.Error(err))
			continue
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	r.logger.Debug("list", zap.String("category", f.Category), zap.Bool("featured", f.FeaturedOnly), zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var row productRow
	err := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM products WHERE id = $1`, id).
		Scan(&row.ID, &row.Name, &row.Description, &row.Price, &row.Category, &row.ImageURL, &row.Featured, &row.Available, &row.CreatedAt)
	if err != nil {
		r.logger.Debug("get failed", zap.Int64("id", id), zap.Error(err))
		return nil, db.Classify(err)
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert inserts or updates a product keyed by name.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price, category, image_url, featured, available)
VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, $7)
ON CONFLICT (name) DO UPDATE SET
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    image_url = EXCLUDED.image_url,
    featured = EXCLUDED.featured,
    available = EXCLUDED.available,
    updated_at = now()
RETURNING id, created_at
`
	res := p
	err := r.pool.QueryRow(ctx, q, p.Name, p.Description, p.UnitPrice, p.Category, p.ImageURL, p.Featured, p.Available).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Warn("upsert failed", zap.String("name", p.Name), zap.Error(err))
		return nil, db.Classify(err)
	}
	r.logger.Debug("upserted", zap.String("name", res.Name), zap.Int64("id", res.ID))
	return &res, nil
}
