package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the prime engine.
type Metrics struct {
	CandidatesTested prometheus.Counter
	PrimesFound      prometheus.Counter
	RegistrySize     prometheus.Gauge
	LargestPrime     prometheus.Gauge

	// Outcomes by operation ("sieve", "factorize", "is_prime", "restore")
	// and status ("ok", "overflow", "resource_exhausted", ...).
	Outcomes *prometheus.CounterVec

	SieveDuration     prometheus.Histogram
	FactorizeDuration prometheus.Histogram
}

// New registers all prime engine metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers all metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CandidatesTested: factory.NewCounter(prometheus.CounterOpts{
			Name: "primenum_candidates_tested_total",
			Help: "Total number of candidates passed to the primality test",
		}),
		PrimesFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "primenum_primes_found_total",
			Help: "Total number of primes appended to the registry",
		}),
		RegistrySize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "primenum_registry_size",
			Help: "Current number of primes held by the registry",
		}),
		LargestPrime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "primenum_registry_largest_prime",
			Help: "Largest prime held by the registry",
		}),
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "primenum_operation_outcomes_total",
			Help: "Total engine operations by operation and status",
		}, []string{"operation", "status"}),
		SieveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "primenum_sieve_duration_seconds",
			Help:    "Duration of sieve runs",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		}),
		FactorizeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "primenum_factorize_duration_seconds",
			Help:    "Duration of factorizations including registry extension",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		}),
	}
}

// ObserveSieve records one sieve run.
func (m *Metrics) ObserveSieve(tested, found uint64, d time.Duration) {
	if m != nil {
		m.CandidatesTested.Add(float64(tested))
		m.PrimesFound.Add(float64(found))
		m.SieveDuration.Observe(d.Seconds())
	}
}

// ObserveFactorize records one factorization.
func (m *Metrics) ObserveFactorize(d time.Duration) {
	if m != nil {
		m.FactorizeDuration.Observe(d.Seconds())
	}
}

// SetRegistry records the registry's size and largest entry.
func (m *Metrics) SetRegistry(size int, largest uint64) {
	if m != nil {
		m.RegistrySize.Set(float64(size))
		m.LargestPrime.Set(float64(largest))
	}
}

// IncrementOutcome records an operation outcome.
func (m *Metrics) IncrementOutcome(operation, status string) {
	if m != nil {
		m.Outcomes.WithLabelValues(operation, status).Inc()
	}
}
