// Package checkout turns the live cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pizzapalace/internal/cart"
	"pizzapalace/internal/domain"
	"pizzapalace/internal/events"
	"pizzapalace/internal/logger"
	orderrepo "pizzapalace/internal/repository/order"
	"pizzapalace/internal/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type orderRepo interface {
	PlaceOrder(ctx context.Context, in orderrepo.PlaceOrderInput) (*domain.Order, bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetLines(ctx context.Context, userID, orderID string) ([]domain.OrderLine, error)
}

// productLookup resolves current menu prices.
type productLookup interface {
	Product(ctx context.Context, id int64) (*domain.Product, error)
}

// CartStore is the part of *cart.Store checkout reads and mutates.
type CartStore interface {
	Lines() []domain.CartLine
	AddToCart(ctx context.Context, p domain.Product) cart.Snapshot
	AddUnits(ctx context.Context, p domain.Product, units int) cart.Snapshot
	ClearCart(ctx context.Context) cart.Snapshot
	Snapshot() cart.Snapshot
}

// Form is the delivery form submitted at checkout.
type Form struct {
	DeliveryAddress     string `json:"deliveryAddress" validate:"required"`
	City                string `json:"city" validate:"required"`
	PostalCode          string `json:"postalCode" validate:"required"`
	Phone               string `json:"phone" validate:"required,phone"`
	SpecialInstructions string `json:"specialInstructions"`
	PaymentMethod       string `json:"paymentMethod" validate:"omitempty,oneof=card cash"`
	IdempotencyKey      string `json:"idempotencyKey"`
}

func (f Form) normalized() Form {
	f.DeliveryAddress = strings.TrimSpace(f.DeliveryAddress)
	f.City = strings.TrimSpace(f.City)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Phone = strings.TrimSpace(f.Phone)
	f.SpecialInstructions = strings.TrimSpace(f.SpecialInstructions)
	f.PaymentMethod = strings.ToLower(strings.TrimSpace(f.PaymentMethod))
	if f.PaymentMethod == "" {
		f.PaymentMethod = "card"
	}
	return f
}

type Service struct {
	orders    orderRepo
	menu      productLookup
	publisher events.Publisher
	pricing   Pricing
	validate  *validator.Validate
	logger    *zap.Logger

	inflight sync.Map // user id -> struct{}
}

// New builds the checkout service. menu may be nil, in which case reorders
// keep the prices stored with the order.
func New(orders orderRepo, menu productLookup, publisher events.Publisher, pricing Pricing, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		orders:    orders,
		menu:      menu,
		publisher: publisher,
		pricing:   pricing,
		validate:  validation.New(),
		logger:    logger.OrNop(log).Named("checkout"),
	}
}

// Summary returns the totals for lines under the configured pricing.
func (s *Service) Summary(lines []domain.CartLine) Totals {
	return ComputeTotals(lines, s.pricing)
}

// Submit places an order for the cart in store. Preconditions are checked
// before anything is written. The cart is cleared only after the order and
// all of its lines are stored.
func (s *Service) Submit(ctx context.Context, user *domain.User, store CartStore, form Form) (*domain.Order, error) {
	if err := s.Precheck(user, store); err != nil {
		return nil, err
	}
	lines := store.Lines()
	form = form.normalized()
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, validation.Describe(err))
	}

	if _, busy := s.inflight.LoadOrStore(user.ID, struct{}{}); busy {
		return nil, ErrBusy
	}
	defer s.inflight.Delete(user.ID)

	totals := s.Summary(lines)
	in := orderrepo.PlaceOrderInput{
		Order: domain.Order{
			UserID:              user.ID,
			Subtotal:            totals.Subtotal,
			DeliveryFee:         totals.DeliveryFee,
			Tax:                 totals.Tax,
			Total:               totals.Total,
			DeliveryAddress:     form.DeliveryAddress,
			City:                form.City,
			PostalCode:          form.PostalCode,
			Phone:               form.Phone,
			SpecialInstructions: form.SpecialInstructions,
			PaymentMethod:       form.PaymentMethod,
			Status:              domain.StatusPending,
		},
		Lines:          orderLines(lines),
		IdempotencyKey: strings.TrimSpace(form.IdempotencyKey),
	}

	order, replayed, err := s.orders.PlaceOrder(ctx, in)
	if err != nil {
		s.logger.Error("place order failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPlaceOrder, err)
	}

	store.ClearCart(ctx)
	if replayed {
		s.logger.Info("checkout replayed", zap.String("order_id", order.ID))
		return order, nil
	}
	if err := s.publisher.PublishOrderPlaced(ctx, *order); err != nil {
		s.logger.Warn("publish order event failed", zap.String("order_id", order.ID), zap.Error(err))
	}
	s.logger.Info("order placed", zap.String("order_id", order.ID), zap.String("user_id", user.ID), zap.Float64("total", order.Total))
	return order, nil
}

// Precheck reports the redirect a checkout attempt gets before its form is
// looked at: sign in first, then have something in the cart.
func (s *Service) Precheck(user *domain.User, store CartStore) error {
	if user == nil {
		return &RedirectError{Location: LoginPath, Reason: "sign in to check out"}
	}
	if len(store.Lines()) == 0 {
		return &RedirectError{Location: MenuPath, Reason: "cart is empty"}
	}
	return nil
}

func orderLines(lines []domain.CartLine) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal(),
		})
	}
	return out
}

// Reorder adds every unit of a past order back into the cart with one write
// per line. Each line takes the current menu name and price when the menu
// still offers the product, and the stored values otherwise.
func (s *Service) Reorder(ctx context.Context, user *domain.User, orderID string, store CartStore) (cart.Snapshot, error) {
	if user == nil {
		return cart.Snapshot{}, &RedirectError{Location: LoginPath, Reason: "sign in to reorder"}
	}
	lines, err := s.orders.GetLines(ctx, user.ID, orderID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("reorder lookup failed", zap.String("order_id", orderID), zap.Error(err))
		}
		return cart.Snapshot{}, err
	}
	for _, l := range lines {
		store.AddUnits(ctx, s.reorderProduct(ctx, l), l.Quantity)
	}
	return store.Snapshot(), nil
}

func (s *Service) reorderProduct(ctx context.Context, l domain.OrderLine) domain.Product {
	stored := domain.Product{ID: l.ProductID, Name: l.ProductName, UnitPrice: l.UnitPrice, Available: true}
	if s.menu == nil {
		return stored
	}
	p, err := s.menu.Product(ctx, l.ProductID)
	if err != nil {
		s.logger.Debug("reorder keeps stored price", zap.Int64("product_id", l.ProductID), zap.Error(err))
		return stored
	}
	return *p
}

// History returns the user's orders, newest first.
func (s *Service) History(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	if user == nil {
		return nil, &RedirectError{Location: LoginPath, Reason: "sign in to view orders"}
	}
	orders, err := s.orders.ListByUser(ctx, user.ID)
	if err != nil {
		s.logger.Warn("order history failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return orders, nil
}
