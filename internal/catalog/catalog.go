// Package catalog loads the menu and testimonials, substituting a built-in
// set when the remote store cannot serve them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pizzapalace/internal/domain"
	"pizzapalace/internal/logger"
	productrepo "pizzapalace/internal/repository/product"

	"go.uber.org/zap"
)

// SchemaMissingWarning is shown when the products table has not been created.
const SchemaMissingWarning = "The database is not set up yet. Run the setup scripts. Showing sample data meanwhile."

// testimonialLimit matches the three cards shown on the home page.
const testimonialLimit = 3

type productRepo interface {
	List(ctx context.Context, f productrepo.Filter) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type testimonialRepo interface {
	List(ctx context.Context, limit int) ([]domain.Testimonial, error)
	AddReaction(ctx context.Context, id string, r domain.Reaction) (*domain.Testimonial, error)
}

// Filter selects a subset of the available menu.
type Filter = productrepo.Filter

// Result is a product listing. FromFallback is set when the built-in menu was
// served; Warning is non-empty only for the missing-schema case.
type Result struct {
	Products     []domain.Product `json:"products"`
	Warning      string           `json:"warning,omitempty"`
	FromFallback bool             `json:"fallback"`
}

type Service struct {
	products     productRepo
	testimonials testimonialRepo
	logger       *zap.Logger
}

func New(products productRepo, testimonials testimonialRepo, log *zap.Logger) *Service {
	return &Service{
		products:     products,
		testimonials: testimonials,
		logger:       logger.OrNop(log).Named("catalog"),
	}
}

// LoadProducts never fails: store errors degrade to the fallback menu.
func (s *Service) LoadProducts(ctx context.Context, f Filter) Result {
	f.Category = strings.TrimSpace(f.Category)
	items, err := s.products.List(ctx, f)
	if err == nil {
		if items == nil {
			items = []domain.Product{}
		}
		return Result{Products: items}
	}

	res := Result{Products: filterProducts(FallbackProducts(), f), FromFallback: true}
	if errors.Is(err, domain.ErrSchemaMissing) {
		s.logger.Warn("products table missing, serving fallback menu", zap.Error(err))
		res.Warning = SchemaMissingWarning
		return res
	}
	s.logger.Error("load products failed, serving fallback menu", zap.Error(err))
	return res
}

// Product resolves id to the menu item a cart line is built from. When the
// store cannot answer, the built-in menu is consulted. Unknown ids are
// ErrNotFound and unavailable items ErrValidation.
func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, err
	case err != nil:
		fb, ok := fallbackProduct(id)
		if !ok {
			s.logger.Warn("product lookup failed, not in fallback menu", zap.Int64("product_id", id), zap.Error(err))
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		s.logger.Info("product lookup failed, using fallback menu", zap.Int64("product_id", id), zap.Error(err))
		p = &fb
	}
	if !p.Available {
		return nil, fmt.Errorf("%w: %s is not available", domain.ErrValidation, p.Name)
	}
	return p, nil
}

// FeaturedProducts returns the featured pizzas for the home page.
func (s *Service) FeaturedProducts(ctx context.Context) Result {
	return s.LoadProducts(ctx, Filter{Category: "pizza", FeaturedOnly: true})
}

// LoadTestimonials returns the newest testimonials, or the built-in ones when
// the store errors or holds none.
func (s *Service) LoadTestimonials(ctx context.Context) ([]domain.Testimonial, bool) {
	items, err := s.testimonials.List(ctx, testimonialLimit)
	if err != nil {
		s.logger.Info("load testimonials failed, serving fallback", zap.Error(err))
		return FallbackTestimonials(), true
	}
	if len(items) == 0 {
		return FallbackTestimonials(), true
	}
	return items, false
}

// React records a like or dislike. Unlike reads, failures are returned.
func (s *Service) React(ctx context.Context, id string, r domain.Reaction) (*domain.Testimonial, error) {
	if !r.Valid() {
		return nil, domain.ErrValidation
	}
	t, err := s.testimonials.AddReaction(ctx, id, r)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("reaction failed", zap.String("testimonial_id", id), zap.String("reaction", string(r)), zap.Error(err))
		}
		return nil, err
	}
	return t, nil
}

func filterProducts(items []domain.Product, f Filter) []domain.Product {
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if !p.Available {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, p)
	}
	return out
}

func fallbackProduct(id int64) (domain.Product, bool) {
	for _, p := range FallbackProducts() {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
