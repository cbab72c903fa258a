package db

import (
	"context"
	"fmt"

	"mealdesk/internal/xpkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

// Start initializes and returns a new DB instance backed by a connection pool.
func Start(ctx context.Context, dbCfg *config.Postgres) (*DB, error) {
	pool, err := pgxpool.New(ctx, dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) IsAlive(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Stop closes the pool and waits for checked-out connections to be released.
func (db *DB) Stop() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
