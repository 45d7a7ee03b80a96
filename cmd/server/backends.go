package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"primenum/internal/platform/config"
	"primenum/internal/platform/postgres"
	"primenum/internal/platform/redis"
	"primenum/internal/primes/publish"
	"primenum/internal/primes/service"
	filestore "primenum/internal/primes/store/file"
	pgstore "primenum/internal/primes/store/postgres"
	redisstore "primenum/internal/primes/store/redis"
	httptransport "primenum/internal/transport/http"
)

type backends struct {
	store     service.Store
	publisher service.Publisher
	closers   []func() error
	checks    []httptransport.ReadyCheck
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

// openBackends connects the configured store and publisher. On error every
// connection opened so far is closed.
func openBackends(ctx context.Context, cfg config.Config) (_ *backends, err error) {
	b := &backends{}
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	switch cfg.Store.Backend {
	case config.StoreFile:
		s := filestore.NewStore(cfg.Store.Path)
		b.closers = append(b.closers, s.Close)
		b.store = s
	case config.StoreRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Close)
		b.checks = append(b.checks, client.Health)
		b.store = redisstore.New(client.Client, redisstore.WithKey(cfg.Redis.Key))
	case config.StorePostgres:
		var db *sql.DB
		db, err = postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		b.checks = append(b.checks, db.PingContext)
		s := pgstore.New(db)
		if err = s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		b.store = s
	}

	if len(cfg.Kafka.Brokers) > 0 {
		p, err := publish.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() error { p.Close(); return nil })
		if err := p.EnsureTopic(ctx, 1, 1); err != nil {
			return nil, fmt.Errorf("ensure kafka topic: %w", err)
		}
		guarded := publish.Guard(p,
			publish.WithThreshold(cfg.Kafka.BreakerThreshold),
			publish.WithCooldown(cfg.Kafka.BreakerCooldown),
		)
		b.checks = append(b.checks, func(context.Context) error {
			if guarded.IsOpen() {
				return errors.New("kafka publisher circuit open")
			}
			return nil
		})
		b.publisher = guarded
	}
	return b, nil
}
