package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pizzapalace/internal/domain"
	productrepo "pizzapalace/internal/repository/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubProducts struct {
	items      []domain.Product
	err        error
	lastFilter productrepo.Filter
}

func (s *stubProducts) List(_ context.Context, f productrepo.Filter) ([]domain.Product, error) {
	s.lastFilter = f
	return s.items, s.err
}

func (s *stubProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubTestimonials struct {
	items []domain.Testimonial
	err   error
	react *domain.Testimonial
}

func (s *stubTestimonials) List(context.Context, int) ([]domain.Testimonial, error) {
	return s.items, s.err
}

func (s *stubTestimonials) AddReaction(_ context.Context, id string, r domain.Reaction) (*domain.Testimonial, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.react, nil
}

func ids(ps []domain.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFallbackSetMatchesMenu(t *testing.T) {
	ps := FallbackProducts()
	assert.Equal(t, []int64{1, 2, 3, 7, 11, 14, 17}, ids(ps))
	prices := map[int64]float64{1: 12.99, 2: 14.99, 3: 13.99, 7: 6.99, 11: 8.99, 14: 6.99, 17: 2.99}
	for _, p := range ps {
		assert.InDelta(t, prices[p.ID], p.UnitPrice, 1e-9, p.Name)
		assert.True(t, p.Available)
	}
	assert.Len(t, FallbackTestimonials(), 3)
}

func TestFallbackIsCopied(t *testing.T) {
	ps := FallbackProducts()
	ps[0].Name = "changed"
	assert.Equal(t, "Margherita", FallbackProducts()[0].Name)
}

func TestLoadProducts_Success(t *testing.T) {
	repo := &stubProducts{items: []domain.Product{{ID: 99, Name: "Calzone", Available: true}}}
	svc := New(repo, &stubTestimonials{}, nil)

	res := svc.LoadProducts(context.Background(), Filter{Category: " pizza "})
	assert.False(t, res.FromFallback)
	assert.Empty(t, res.Warning)
	assert.Equal(t, []int64{99}, ids(res.Products))
	assert.Equal(t, "pizza", repo.lastFilter.Category)
}

func TestLoadProducts_EmptyIsNotFallback(t *testing.T) {
	svc := New(&stubProducts{}, &stubTestimonials{}, nil)
	res := svc.LoadProducts(context.Background(), Filter{})
	assert.False(t, res.FromFallback)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
}

func TestLoadProducts_SchemaMissingWarns(t *testing.T) {
	err := fmt.Errorf("list: %w", errors.Join(domain.ErrSchemaMissing, errors.New("relation does not exist")))
	svc := New(&stubProducts{err: err}, &stubTestimonials{}, nil)

	res := svc.LoadProducts(context.Background(), Filter{})
	assert.True(t, res.FromFallback)
	assert.Equal(t, SchemaMissingWarning, res.Warning)
	assert.Equal(t, []int64{1, 2, 3, 7, 11, 14, 17}, ids(res.Products))
}

func TestLoadProducts_OtherErrorFallsBackSilently(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	svc := New(&stubProducts{err: errors.New("connection refused")}, &stubTestimonials{}, zap.New(core))

	res := svc.LoadProducts(context.Background(), Filter{})
	assert.True(t, res.FromFallback)
	assert.Empty(t, res.Warning)
	assert.Len(t, res.Products, 7)
	assert.Equal(t, 1, logs.Len())
}

func TestLoadProducts_FallbackIsFiltered(t *testing.T) {
	svc := New(&stubProducts{err: errors.New("down")}, &stubTestimonials{}, nil)

	res := svc.LoadProducts(context.Background(), Filter{Category: "pizza"})
	assert.Equal(t, []int64{1, 2, 3}, ids(res.Products))

	featured := svc.FeaturedProducts(context.Background())
	assert.Equal(t, []int64{1, 2}, ids(featured.Products))
}

func TestLoadTestimonials(t *testing.T) {
	stored := []domain.Testimonial{{ID: "a", Name: "Real"}}
	got, fromFallback := New(&stubProducts{}, &stubTestimonials{items: stored}, nil).LoadTestimonials(context.Background())
	assert.False(t, fromFallback)
	assert.Equal(t, stored, got)

	got, fromFallback = New(&stubProducts{}, &stubTestimonials{err: errors.New("down")}, nil).LoadTestimonials(context.Background())
	assert.True(t, fromFallback)
	assert.Len(t, got, 3)

	_, fromFallback = New(&stubProducts{}, &stubTestimonials{}, nil).LoadTestimonials(context.Background())
	assert.True(t, fromFallback)
}

func TestReact(t *testing.T) {
	want := &domain.Testimonial{ID: "a", Likes: 1}
	svc := New(&stubProducts{}, &stubTestimonials{react: want}, nil)

	got, err := svc.React(context.Background(), "a", domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.React(context.Background(), "a", domain.Reaction("meh"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	failing := New(&stubProducts{}, &stubTestimonials{err: domain.ErrNotFound}, nil)
	_, err = failing.React(context.Background(), "missing", domain.ReactionDislike)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct(t *testing.T) {
	ctx := context.Background()
	products := &stubProducts{items: []domain.Product{
		{ID: 1, Name: "Margherita", UnitPrice: 13.49, Available: true},
		{ID: 9, Name: "Calzone", UnitPrice: 11.5, Available: false},
	}}
	svc := New(products, &stubTestimonials{}, nil)

	p, err := svc.Product(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 13.49, p.UnitPrice, 1e-9)

	_, err = svc.Product(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Product(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_StoreErrorUsesFallback(t *testing.T) {
	ctx := context.Background()
	svc := New(&stubProducts{err: errors.New("connection refused")}, &stubTestimonials{}, nil)

	p, err := svc.Product(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Pepperoni", p.Name)
	assert.InDelta(t, 14.99, p.UnitPrice, 1e-9)

	_, err = svc.Product(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
