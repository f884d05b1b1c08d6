// Package pgtest provides a migrated Postgres pool for repository tests.
package pgtest

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"pizzapalace/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	once     sync.Once
	shared   string
	startErr error
)

// DSN returns TEST_DB_DSN when set, otherwise starts one Postgres container
// per test binary. Tests are skipped when neither is available.
func DSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		return dsn
	}
	if testing.Short() {
		t.Skip("postgres tests skipped in -short mode")
	}
	once.Do(func() {
		shared, startErr = startContainer(context.Background())
	})
	if startErr != nil {
		t.Skipf("postgres unavailable: %v", startErr)
	}
	return shared
}

func startContainer(ctx context.Context) (dsn string, err error) {
	defer func() {
		// testcontainers panics when no docker daemon is reachable
		if r := recover(); r != nil {
			err = fmt.Errorf("start container: %v", r)
		}
	}()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pizzapalace_test"),
		tcpostgres.WithUsername("pizza"),
		tcpostgres.WithPassword("pizza"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return "", err
	}
	return container.ConnectionString(ctx, "sslmode=disable")
}

// Pool connects, applies migrations and truncates every table.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, DSN(t))
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	Truncate(t, pool)
	return pool
}

// Truncate empties every storefront table.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	const q = `TRUNCATE order_items, orders, testimonials, products, profiles, sessions, accounts RESTART IDENTITY CASCADE`
	if _, err := pool.Exec(context.Background(), q); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

// Account inserts a bare account row and returns its id.
func Account(t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO accounts (email, password_hash) VALUES ($1, 'x') RETURNING id::text`, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}
	return id
}
