package testimonial

import (
	"context"
	"fmt"

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

const columns = `id::text, name, COALESCE(avatar_url, ''), COALESCE(rating, 0), comment, likes, dislikes, created_at`

func (r *postgresRepo) List(ctx context.Context, limit int) ([]domain.Testimonial, error) {
	q := `SELECT ` + columns + ` FROM testimonials ORDER BY created_at DESC, name`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []domain.Testimonial
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, db.Classify(rows.Err())
}

func (r *postgresRepo) AddReaction(ctx context.Context, id string, reaction domain.Reaction) (*domain.Testimonial, error) {
	var q string
	switch reaction {
	case domain.ReactionLike:
		q = `UPDATE testimonials SET likes = likes + 1 WHERE id::text = $1 RETURNING ` + columns
	case domain.ReactionDislike:
		q = `UPDATE testimonials SET dislikes = dislikes + 1 WHERE id::text = $1 RETURNING ` + columns
	default:
		return nil, fmt.Errorf("%w: unknown reaction %q", domain.ErrValidation, reaction)
	}
	t, err := scan(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, db.Classify(err)
	}
	return t, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, t domain.Testimonial) (*domain.Testimonial, error) {
	const q = `
INSERT INTO testimonials (name, avatar_url, rating, comment, likes, dislikes)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
ON CONFLICT (name, comment) DO UPDATE SET
    avatar_url = EXCLUDED.avatar_url,
    rating = EXCLUDED.rating
RETURNING ` + columns
	out, err := scan(r.pool.QueryRow(ctx, q, t.Name, t.AvatarURL, t.Rating, t.Comment, t.Likes, t.Dislikes))
	if err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}

func scan(row pgx.Row) (*domain.Testimonial, error) {
	var t domain.Testimonial
	if err := row.Scan(&t.ID, &t.Name, &t.AvatarURL, &t.Rating, &t.Comment, &t.Likes, &t.Dislikes, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
