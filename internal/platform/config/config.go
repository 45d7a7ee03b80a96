package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends accepted by PRIMENUM_STORE.
const (
	StoreNone     = ""
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"PRIMENUM_ADDR"             envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"PRIMENUM_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Store selects where discovered primes are persisted.
type Store struct {
	Backend string `env:"PRIMENUM_STORE"`
	Path    string `env:"PRIMENUM_STORE_PATH" envDefault:"primes.bin"`
}

// RedisConfig configures the Redis-backed prime store.
type RedisConfig struct {
	URL          string        `env:"PRIMENUM_REDIS_URL"`
	Key          string        `env:"PRIMENUM_REDIS_KEY"            envDefault:"primenum:primes"`
	PoolSize     int           `env:"PRIMENUM_REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"PRIMENUM_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"PRIMENUM_REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"PRIMENUM_REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"PRIMENUM_REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

// PostgresConfig configures the Postgres-backed prime store.
type PostgresConfig struct {
	DSN          string `env:"PRIMENUM_POSTGRES_DSN"`
	MaxOpenConns int    `env:"PRIMENUM_POSTGRES_MAX_OPEN_CONNS" envDefault:"5"`
}

// KafkaConfig configures publishing of found primes. Publishing is off when
// no brokers are set.
type KafkaConfig struct {
	Brokers          []string      `env:"PRIMENUM_KAFKA_BROKERS"           envSeparator:","`
	Topic            string        `env:"PRIMENUM_KAFKA_TOPIC"             envDefault:"primenum.primes"`
	BreakerThreshold int           `env:"PRIMENUM_KAFKA_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"PRIMENUM_KAFKA_BREAKER_COOLDOWN"  envDefault:"30s"`
}

// Limits protects a shared service from requests that would sieve for hours.
type Limits struct {
	MaxBound         uint64 `env:"PRIMENUM_MAX_BOUND"         envDefault:"10000000"`
	MaxCount         uint64 `env:"PRIMENUM_MAX_COUNT"         envDefault:"1000000"`
	RegistryCapacity int    `env:"PRIMENUM_REGISTRY_CAPACITY" envDefault:"0"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `env:"PRIMENUM_LOG_LEVEL"  envDefault:"info"`
	Format string `env:"PRIMENUM_LOG_FORMAT" envDefault:"text"`
}

// Config is the full server configuration.
type Config struct {
	Server   Server
	Store    Store
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
	Limits   Limits
	Log      Log
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreNone:
	case StoreFile:
		if c.Store.Path == "" {
			return fmt.Errorf("PRIMENUM_STORE_PATH is required for the file store")
		}
	case StoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("PRIMENUM_REDIS_URL is required for the redis store")
		}
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("PRIMENUM_POSTGRES_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Limits.MaxBound == 0 || c.Limits.MaxCount == 0 {
		return fmt.Errorf("limits must be positive")
	}
	return nil
}
