package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"primenum/internal/primes/registry"
	"primenum/pkg/platform/sentinel"
)

// NUMERIC(20,0) holds the full uint64 range, which BIGINT does not.
const schema = `
	CREATE TABLE IF NOT EXISTS primes (
		value NUMERIC(20, 0) PRIMARY KEY
	)
`

// Store persists primes in the primes table.
type Store struct {
	db *sql.DB
}

// New constructs a Postgres-backed prime store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the primes table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create primes table: %w", err)
	}
	return nil
}

// Load appends stored primes greater than the registry's last entry, in
// ascending order.
func (s *Store) Load(ctx context.Context, reg *registry.Registry) (int, error) {
	query := `SELECT value::text FROM primes ORDER BY value`
	var args []any
	if last, ok := reg.Last(); ok {
		query = `SELECT value::text FROM primes WHERE value > $1 ORDER BY value`
		args = append(args, strconv.FormatUint(last, 10))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("query primes: %w", err)
	}
	defer rows.Close()

	added := 0
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return added, fmt.Errorf("scan prime: %w", err)
		}
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return added, fmt.Errorf("parse stored prime %q: %w", raw, err)
		}
		if _, err := reg.Append(value); err != nil {
			return added, err
		}
		added++
	}
	if err := rows.Err(); err != nil {
		return added, fmt.Errorf("iterate primes: %w", err)
	}
	return added, nil
}

// Append inserts one prime. Re-inserting a known prime is a no-op.
func (s *Store) Append(ctx context.Context, value uint64) error {
	query := `INSERT INTO primes (value) VALUES ($1) ON CONFLICT (value) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, strconv.FormatUint(value, 10)); err != nil {
		return fmt.Errorf("append prime %d: %v: %w", value, err, sentinel.ErrStorageExhausted)
	}
	return nil
}

// Save replaces the table content with values using COPY.
func (s *Store) Save(ctx context.Context, values []uint64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %v: %w", err, sentinel.ErrStorageExhausted)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `TRUNCATE primes`); err != nil {
		return fmt.Errorf("truncate primes: %v: %w", err, sentinel.ErrStorageExhausted)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("primes", "value"))
	if err != nil {
		return fmt.Errorf("prepare copy: %v: %w", err, sentinel.ErrStorageExhausted)
	}
	for _, v := range values {
		if _, err = stmt.ExecContext(ctx, strconv.FormatUint(v, 10)); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy prime %d: %v: %w", v, err, sentinel.ErrStorageExhausted)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush copy: %v: %w", err, sentinel.ErrStorageExhausted)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %v: %w", err, sentinel.ErrStorageExhausted)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %v: %w", err, sentinel.ErrStorageExhausted)
	}
	return nil
}

// Count returns the number of stored primes.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM primes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count primes: %w", err)
	}
	return n, nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *Store) Close() error {
	return nil
}
