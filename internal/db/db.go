package db

import (
	"context"
	"fmt"
	"time"

	"pizzapalace/internal/config"
	"pizzapalace/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// Open builds the remote store pool without dialing; connections are made on
// first use. Zero-valued pool settings keep pgxpool's defaults.
func Open(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.MaxConnLifetime = 30 * time.Minute

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping checks the pool can reach the server.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("ping %s: %w", pool.Config().ConnConfig.Host, err)
	}
	return nil
}

// Connect opens the pool and requires one successful ping. Tools that cannot
// do anything without the store use it; the API starts with Open instead.
func Connect(ctx context.Context, cfg config.DBConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	connCfg := pool.Config()
	logger.OrNop(log).Named("db").Info("connected",
		zap.String("host", connCfg.ConnConfig.Host),
		zap.String("database", connCfg.ConnConfig.Database),
		zap.Int32("max_conns", connCfg.MaxConns),
	)
	return pool, nil
}
