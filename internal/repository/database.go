package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDatabase opens a connection pool and verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     name,
		RawQuery: "sslmode=disable",
	}

	pool, err := pgxpool.New(ctx, dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id       UUID PRIMARY KEY,
		status       TEXT NOT NULL,
		error        TEXT NOT NULL DEFAULT '',
		launch_lat   DOUBLE PRECISION,
		launch_lon   DOUBLE PRECISION,
		aim_lat      DOUBLE PRECISION,
		aim_lon      DOUBLE PRECISION,
		sim_aim_lat  DOUBLE PRECISION,
		sim_aim_lon  DOUBLE PRECISION,
		strike_count INTEGER NOT NULL DEFAULT 0,
		cep_m        DOUBLE PRECISION NOT NULL DEFAULT 0,
		started_at   TIMESTAMPTZ NOT NULL,
		duration_ms  BIGINT NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS strike_points (
		run_id    UUID NOT NULL REFERENCES runs (run_id) ON DELETE CASCADE,
		idx       INTEGER NOT NULL,
		latitude  DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, idx)
	);
	CREATE INDEX IF NOT EXISTS runs_started_at_idx ON runs (started_at DESC);
`

// Migrate creates the journal tables when they do not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply journal schema: %w", err)
	}
	r.log.DebugContext(ctx, "Journal schema is up to date")

	return nil
}
