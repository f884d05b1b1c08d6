package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	r, err := NewRedis(context.Background(), RedisOptions{Addr: addr, DB: 15})
	require.NoError(t, err)
	defer r.Close()
	r.keyPrefix = "storefront-test:"
	exerciseStorage(t, r)
}
