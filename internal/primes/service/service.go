package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"primenum/internal/primes/factor"
	"primenum/internal/primes/metrics"
	"primenum/internal/primes/registry"
	"primenum/internal/primes/sieve"
	"primenum/pkg/platform/sentinel"
)

const tracerName = "primenum/internal/primes/service"

// Store persists discovered primes.
type Store interface {
	Load(ctx context.Context, reg *registry.Registry) (int, error)
	Append(ctx context.Context, value uint64) error
}

// Publisher streams discovered primes to other consumers.
type Publisher interface {
	Publish(ctx context.Context, runID string, value uint64) error
}

// Limits bounds the work one request may trigger.
type Limits struct {
	MaxBound uint64
	MaxCount uint64
}

// DefaultLimits keeps a single request under a few seconds of sieving.
var DefaultLimits = Limits{MaxBound: 10_000_000, MaxCount: 1_000_000}

// Service owns one registry for the lifetime of a process. Every operation
// that may extend the registry holds the lock for its whole run, so the
// registry always has exactly one writer.
type Service struct {
	mu  sync.Mutex
	reg *registry.Registry

	store     Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	limits    Limits
}

type Option func(s *Service)

func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

func WithPublisher(publisher Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithLimits overrides DefaultLimits. Zero fields keep their default.
func WithLimits(limits Limits) Option {
	return func(s *Service) {
		if limits.MaxBound > 0 {
			s.limits.MaxBound = limits.MaxBound
		}
		if limits.MaxCount > 0 {
			s.limits.MaxCount = limits.MaxCount
		}
	}
}

// New constructs a Service around reg.
func New(reg *registry.Registry, opts ...Option) (*Service, error) {
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	s := &Service{
		reg:    reg,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
		limits: DefaultLimits,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Restore loads previously persisted primes into the registry.
func (s *Service) Restore(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	ctx, span := s.tracer.Start(ctx, "primes.Restore")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	n, err := s.store.Load(ctx, s.reg)
	s.record(ctx, span, "restore", err)
	if err != nil {
		return n, fmt.Errorf("restore registry: %w", err)
	}
	s.logger.InfoContext(ctx, "registry restored",
		"loaded", n,
		"size", s.reg.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n, nil
}

// Sieve extends the registry until stop is reached and returns the primes
// found by this run. Unbounded runs are refused.
func (s *Service) Sieve(ctx context.Context, stop sieve.StopPolicy) (*SieveResult, error) {
	if err := s.checkStop(stop); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "primes.Sieve", trace.WithAttributes(
		attribute.String("stop", stop.String()),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.extend(ctx, stop)
	s.record(ctx, span, "sieve", err)
	if err != nil {
		return nil, err
	}
	return &SieveResult{
		RunID:   run.id,
		Policy:  stop.String(),
		Found:   run.found,
		Tested:  run.stats.Tested,
		Total:   s.reg.Len(),
		Largest: s.largest(),
	}, nil
}

// Factorize extends the registry to value and returns its prime factors.
func (s *Service) Factorize(ctx context.Context, value uint64) (*FactorResult, error) {
	if value == 0 {
		return nil, fmt.Errorf("factorize 0: %w", sentinel.ErrInvalidInput)
	}
	if value > s.limits.MaxBound {
		return nil, fmt.Errorf("factorize %d above limit %d: %w", value, s.limits.MaxBound, sentinel.ErrInvalidInput)
	}
	ctx, span := s.tracer.Start(ctx, "primes.Factorize", trace.WithAttributes(
		attribute.Int64("value", int64(value)),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	// Extending first routes newly found primes through the store; the
	// factorizer's own extension then finds nothing left to do.
	_, err := s.extend(ctx, sieve.AtValue(value))
	var factors []uint64
	if err == nil {
		factors, err = factor.Factorize(s.reg, value)
	}
	s.metrics.ObserveFactorize(time.Since(start))
	s.record(ctx, span, "factorize", err)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "value factorized",
		"value", value,
		"factors", len(factors),
	)
	return &FactorResult{
		Value:   value,
		Factors: factors,
		Powers:  factor.Powers(factors),
	}, nil
}

// IsPrime extends the registry to floor(sqrt(value)) and tests value.
func (s *Service) IsPrime(ctx context.Context, value uint64) (bool, error) {
	root := sieve.ISqrt(value)
	if root > s.limits.MaxBound {
		return false, fmt.Errorf("test %d: root above limit %d: %w", value, s.limits.MaxBound, sentinel.ErrInvalidInput)
	}
	ctx, span := s.tracer.Start(ctx, "primes.IsPrime")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.extend(ctx, sieve.AtValue(root))
	s.record(ctx, span, "is_prime", err)
	if err != nil {
		return false, err
	}
	return sieve.IsPrime(s.reg, value), nil
}

// Primes returns every prime <= upper, extending the registry as needed.
func (s *Service) Primes(ctx context.Context, upper uint64) ([]uint64, error) {
	if upper > s.limits.MaxBound {
		return nil, fmt.Errorf("list primes to %d above limit %d: %w", upper, s.limits.MaxBound, sentinel.ErrInvalidInput)
	}
	ctx, span := s.tracer.Start(ctx, "primes.Primes")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.extend(ctx, sieve.AtValue(upper))
	s.record(ctx, span, "primes", err)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, 0, 64)
	for p := range s.reg.All() {
		if p > upper {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

// FirstN returns the first n primes, extending the registry as needed.
func (s *Service) FirstN(ctx context.Context, n uint64) ([]uint64, error) {
	if n > s.limits.MaxCount {
		return nil, fmt.Errorf("list %d primes above limit %d: %w", n, s.limits.MaxCount, sentinel.ErrInvalidInput)
	}
	ctx, span := s.tracer.Start(ctx, "primes.FirstN")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.extend(ctx, sieve.AtCount(n))
	s.record(ctx, span, "first_n", err)
	if err != nil {
		return nil, err
	}
	count := min(int(n), s.reg.Len())
	out := make([]uint64, 0, count)
	for p := range s.reg.All() {
		if len(out) == count {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

// Snapshot reports the registry's current size and largest prime.
func (s *Service) Snapshot(_ context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Count: s.reg.Len(), Largest: s.largest()}
}

func (s *Service) checkStop(stop sieve.StopPolicy) error {
	switch stop.Kind {
	case sieve.StopAtValue:
		if stop.Bound > s.limits.MaxBound {
			return fmt.Errorf("sieve to %d above limit %d: %w", stop.Bound, s.limits.MaxBound, sentinel.ErrInvalidInput)
		}
	case sieve.StopAtCount:
		if stop.Bound > s.limits.MaxCount {
			return fmt.Errorf("sieve %d primes above limit %d: %w", stop.Bound, s.limits.MaxCount, sentinel.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("unbounded sieve: %w", sentinel.ErrInvalidInput)
	}
	return nil
}

type run struct {
	id    string
	stats sieve.Stats
	found []uint64
}

// extend runs the sieve with the persistence observer. Callers hold s.mu.
func (s *Service) extend(ctx context.Context, stop sieve.StopPolicy) (*run, error) {
	r := &run{id: uuid.NewString()}
	observer := sieve.FoundFunc(func(value uint64) error {
		if s.store != nil {
			if err := s.store.Append(ctx, value); err != nil {
				return err
			}
		}
		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, r.id, value); err != nil {
				return err
			}
		}
		r.found = append(r.found, value)
		return ctx.Err()
	})

	start := time.Now()
	stats, err := sieve.Run(s.reg, stop, observer)
	r.stats = stats
	elapsed := time.Since(start)

	s.metrics.ObserveSieve(stats.Tested, stats.Found, elapsed)
	s.metrics.SetRegistry(s.reg.Len(), s.largest())

	if stats.Found > 0 || err != nil {
		s.logger.InfoContext(ctx, "sieve run finished",
			"run_id", r.id,
			"stop", stop.String(),
			"tested", stats.Tested,
			"found", stats.Found,
			"size", s.reg.Len(),
			"status", sentinel.Status(err),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	if err != nil {
		return r, fmt.Errorf("sieve run %s: %w", r.id, err)
	}
	return r, nil
}

func (s *Service) largest() uint64 {
	last, _ := s.reg.Last()
	return last
}

func (s *Service) record(ctx context.Context, span trace.Span, operation string, err error) {
	status := sentinel.Status(err)
	s.metrics.IncrementOutcome(operation, status)
	span.SetAttributes(attribute.String("status", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		s.logger.WarnContext(ctx, "operation failed",
			"operation", operation,
			"status", status,
			"error", err,
		)
	}
}
