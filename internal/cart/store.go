// Package cart implements the persistent shopping cart of one client session.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"pizzapalace/internal/domain"
	"pizzapalace/internal/logger"

	"go.uber.org/zap"
)

// StorageKey is the fixed key the cart is persisted under.
const StorageKey = "pizza-palace-cart"

// Backend is the durable storage a Store mirrors its lines to.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Snapshot is an immutable view of the cart after a mutation.
type Snapshot struct {
	Lines      []domain.CartLine `json:"items"`
	Total      float64           `json:"total"`
	TotalItems int               `json:"totalItems"`
}

// Store is one session's cart. Every mutation first rereads the backend, so
// stores on other replicas sharing it see each other's writes, and then
// persists the full line set under key. Persistence failures are logged and
// do not fail the mutation.
type Store struct {
	mu        sync.Locker
	key       string
	backend   Backend
	logger    *zap.Logger
	lines     []domain.CartLine
	listeners map[int]func(Snapshot)
	nextID    int
}

// NewStore creates a Store and rehydrates it from backend. An absent key or
// malformed content yields an empty cart.
func NewStore(ctx context.Context, key string, backend Backend, log *zap.Logger) *Store {
	return newStore(ctx, key, backend, log, &sync.Mutex{})
}

// newStore builds a Store guarded by mu, which may be shared with other
// stores of the same session.
func newStore(ctx context.Context, key string, backend Backend, log *zap.Logger, mu sync.Locker) *Store {
	s := &Store{
		mu:        mu,
		key:       key,
		backend:   backend,
		logger:    logger.OrNop(log),
		lines:     []domain.CartLine{},
		listeners: make(map[int]func(Snapshot)),
	}
	s.mu.Lock()
	s.refreshLocked(ctx)
	s.mu.Unlock()
	return s
}

// refreshLocked replaces the lines with the backend's copy. A read error
// keeps the current lines; an absent key or malformed content reads as empty.
func (s *Store) refreshLocked(ctx context.Context) {
	if s.backend == nil {
		return
	}
	raw, err := s.backend.Get(ctx, s.key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.lines = []domain.CartLine{}
		return
	case err != nil:
		s.logger.Warn("cart load failed", zap.String("key", s.key), zap.Error(err))
		return
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.logger.Debug("cart content malformed, starting empty", zap.String("key", s.key), zap.Error(err))
		s.lines = []domain.CartLine{}
		return
	}
	s.lines = Reduce(nil, Hydrate{Lines: lines})
}

// Dispatch applies a to the latest persisted lines, persists the result and
// notifies subscribers.
func (s *Store) Dispatch(ctx context.Context, a Action) Snapshot {
	s.mu.Lock()
	s.refreshLocked(ctx)
	s.lines = Reduce(s.lines, a)
	snap := s.snapshotLocked()
	s.persistLocked(ctx)
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.backend == nil {
		return
	}
	raw, err := json.Marshal(s.lines)
	if err != nil {
		s.logger.Error("cart encode failed", zap.String("key", s.key), zap.Error(err))
		return
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		s.logger.Warn("cart persist failed", zap.String("key", s.key), zap.Error(err))
	}
}

// Subscribe registers fn to run after every mutation. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) AddToCart(ctx context.Context, p domain.Product) Snapshot {
	return s.Dispatch(ctx, AddItem{Product: p})
}

// AddUnits has the effect of units AddToCart calls with a single write.
func (s *Store) AddUnits(ctx context.Context, p domain.Product, units int) Snapshot {
	return s.Dispatch(ctx, AddItem{Product: p, Units: units})
}

func (s *Store) RemoveFromCart(ctx context.Context, productID int64) Snapshot {
	return s.Dispatch(ctx, RemoveItem{ProductID: productID})
}

func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) Snapshot {
	return s.Dispatch(ctx, UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Store) ClearCart(ctx context.Context) Snapshot {
	return s.Dispatch(ctx, Clear{})
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine(nil), s.lines...)
}

func (s *Store) GetTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.lines)
}

func (s *Store) GetTotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalItems(s.lines)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Lines:      append([]domain.CartLine{}, s.lines...),
		Total:      Total(s.lines),
		TotalItems: TotalItems(s.lines),
	}
}
