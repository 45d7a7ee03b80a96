package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"primenum/internal/primes/registry"
	"primenum/pkg/platform/sentinel"
)

const (
	// DefaultKey is the list holding the primes, oldest first.
	DefaultKey = "primenum:primes"

	pageSize = 4096
)

// Store keeps the registry in a Redis list of decimal strings so several
// processes can share one set of discovered primes.
type Store struct {
	client *redis.Client
	key    string
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the list key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New constructs a Redis-backed prime store.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, key: DefaultKey}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load appends the stored primes greater than the registry's last entry,
// reading the list page by page.
func (s *Store) Load(ctx context.Context, reg *registry.Registry) (int, error) {
	added := 0
	for start := int64(0); ; start += pageSize {
		page, err := s.client.LRange(ctx, s.key, start, start+pageSize-1).Result()
		if err != nil {
			return added, fmt.Errorf("load primes from %s: %w", s.key, err)
		}
		for _, raw := range page {
			value, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return added, fmt.Errorf("parse stored prime %q: %w", raw, err)
			}
			if last, ok := reg.Last(); ok && value <= last {
				continue
			}
			if _, err := reg.Append(value); err != nil {
				return added, err
			}
			added++
		}
		if len(page) < pageSize {
			return added, nil
		}
	}
}

// Append pushes one prime to the tail of the list.
func (s *Store) Append(ctx context.Context, value uint64) error {
	if err := s.client.RPush(ctx, s.key, strconv.FormatUint(value, 10)).Err(); err != nil {
		return fmt.Errorf("append prime %d: %v: %w", value, err, sentinel.ErrStorageExhausted)
	}
	return nil
}

// Save replaces the list with values in one transaction.
func (s *Store) Save(ctx context.Context, values []uint64) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		for start := 0; start < len(values); start += pageSize {
			end := min(start+pageSize, len(values))
			chunk := make([]any, 0, end-start)
			for _, v := range values[start:end] {
				chunk = append(chunk, strconv.FormatUint(v, 10))
			}
			pipe.RPush(ctx, s.key, chunk...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save primes: %v: %w", err, sentinel.ErrStorageExhausted)
	}
	return nil
}

// Count returns the number of stored primes.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.key).Result()
}

// Close is a no-op; the client is owned by the caller.
func (s *Store) Close() error {
	return nil
}
