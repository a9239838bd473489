// Package db implements the data access interfaces defined in internal/store
// against PostgreSQL using pgx.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the subset of pgxpool.Pool the stores use. Tests substitute a
// pgxmock pool through the same interface.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// DatabaseClient wraps the connection pool shared by the entity stores.
type DatabaseClient struct {
	pool PgxPool
}

// NewDatabaseClient wraps an existing pool.
func NewDatabaseClient(pool PgxPool) *DatabaseClient {
	return &DatabaseClient{pool: pool}
}

// GetPool returns the underlying pool.
func (dc *DatabaseClient) GetPool() PgxPool {
	return dc.pool
}

// Close closes the pool.
func (dc *DatabaseClient) Close() {
	dc.pool.Close()
}

// Connect creates a pgx pool from configuration and verifies connectivity.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	log := logger.GetLogger()

	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConnections)
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Infow("Connected to database",
		"host", cfg.Host,
		"database", cfg.Name,
		"max_connections", cfg.MaxConnections,
	)
	return pool, nil
}
