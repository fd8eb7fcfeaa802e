// Package db provides PostgreSQL connection helpers for scribe.
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	scerrors "github.com/opencommittee/scribe/pkg/errors"
)

// PoolConfig holds connection-pool tuning settings.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultPoolConfig returns pool settings sized for a single-process CLI:
// one transaction per run plus the catalog load.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// Connect creates a connection pool from a PostgreSQL connection string
// and verifies it with a ping. The caller owns pool.Close().
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	return ConnectWithConfig(ctx, databaseURL, DefaultPoolConfig())
}

// ConnectWithConfig creates a connection pool with explicit pool settings.
func ConnectWithConfig(ctx context.Context, databaseURL string, cfg PoolConfig) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, scerrors.Configuration("database connection string is required", nil)
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, scerrors.Configuration("parsing database connection string", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, scerrors.Configuration("creating connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, scerrors.Configuration("pinging database", err)
	}

	return pool, nil
}

// Close gracefully closes a connection pool if it is not nil.
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
