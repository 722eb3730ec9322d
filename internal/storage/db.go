package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func NewDB(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// EnsureSchema creates the tables this service writes to.
func (d *DB) EnsureSchema(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS external_calls (
	call_id     uuid PRIMARY KEY,
	operation   text NOT NULL,
	provider    text NOT NULL,
	model       text,
	input_hash  text,
	status      text NOT NULL,
	error_kind  text,
	error_type  text,
	latency_ms  bigint NOT NULL DEFAULT 0,
	created_at  timestamptz NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}
