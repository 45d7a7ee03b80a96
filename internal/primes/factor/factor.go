// Package factor splits integers into their prime factors using the primes
// held by a registry.
package factor

import (
	"fmt"

	"primenum/internal/primes/registry"
	"primenum/internal/primes/sieve"
	"primenum/pkg/platform/sentinel"
)

// Observer is called once per division with the value being factored at that
// moment (before the division). It exists for progress reporting only.
type Observer func(remaining uint64)

type options struct {
	observer Observer
}

// Option configures a Factorize call.
type Option func(*options)

// WithObserver registers fn to be called on every division.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Factorize returns the prime factors of value in non-decreasing order, one
// entry per division, so that their product is value.
//
// The registry is first extended to every prime <= value; if that run fails
// its error is returned with no factors. 1 has no prime factors and yields an
// empty slice. 0 is divisible by every prime and yields
// sentinel.ErrInvalidInput.
func Factorize(reg *registry.Registry, value uint64, opts ...Option) ([]uint64, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if value == 0 {
		return nil, fmt.Errorf("factorize 0: %w", sentinel.ErrInvalidInput)
	}

	if _, err := sieve.Run(reg, sieve.AtValue(value), nil); err != nil {
		return nil, fmt.Errorf("extend registry to %d: %w", value, err)
	}

	factors := make([]uint64, 0, 8)
	remaining := value
	for p := range reg.All() {
		if p > remaining {
			break
		}
		if p < 2 {
			continue
		}
		for remaining%p == 0 {
			factors = append(factors, p)
			if o.observer != nil {
				o.observer(remaining)
			}
			remaining /= p
		}
	}
	return factors, nil
}

// Power is a prime base raised to the number of times it divides a value.
type Power struct {
	Base     uint64 `json:"base"`
	Exponent uint   `json:"exponent"`
}

// Powers collapses runs of equal factors into base/exponent pairs. factors
// must be sorted, as Factorize returns them.
func Powers(factors []uint64) []Power {
	powers := make([]Power, 0, len(factors))
	for _, f := range factors {
		if n := len(powers); n > 0 && powers[n-1].Base == f {
			powers[n-1].Exponent++
			continue
		}
		powers = append(powers, Power{Base: f, Exponent: 1})
	}
	return powers
}
