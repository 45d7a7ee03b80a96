package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"primenum/internal/platform/config"
)

// Open connects to Postgres with lib/pq and verifies the connection.
// Returns nil if the DSN is empty (Postgres not configured).
func Open(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}
