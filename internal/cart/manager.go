package cart

import (
	"context"
	"hash/fnv"
	"sync"

	"pizzapalace/internal/logger"

	"go.uber.org/zap"
)

const lockStripes = 64

// Manager builds a Store per request from the shared backend. Nothing is
// cached between requests, so any number of replicas can serve one session;
// mutations of one session inside this process are serialized.
type Manager struct {
	backend Backend
	logger  *zap.Logger
	locks   [lockStripes]sync.Mutex
}

func NewManager(backend Backend, log *zap.Logger) *Manager {
	return &Manager{
		backend: backend,
		logger:  logger.OrNop(log).Named("cart"),
	}
}

// Key returns the storage key for a session's cart.
func Key(sessionID string) string {
	return StorageKey + ":" + sessionID
}

// Get returns a Store for sessionID hydrated from the backend.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	return newStore(ctx, Key(sessionID), m.backend, m.logger.With(zap.String("session", sessionID)), m.lock(sessionID))
}

func (m *Manager) lock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &m.locks[h.Sum32()%lockStripes]
}
