package sieve

import (
	"fmt"
	"math"

	"primenum/internal/primes/registry"
	"primenum/pkg/platform/sentinel"
)

// Stats counts the work done by one Run.
type Stats struct {
	Tested uint64 // candidates passed to the primality test
	Found  uint64 // primes appended to the registry
}

// Run extends reg forward from its last entry until stop is reached,
// reporting each new prime to found (which may be nil).
//
// Candidates start at Last+2 and stay odd. Past 5, any candidate ending in 5
// is skipped, so multi-digit candidates walk the residues 1, 3, 7, 9 mod 10
// with steps of +2, +4, +2, +2.
//
// Run returns nil when stop is reached, sentinel.ErrOverflow when the next
// candidate is not representable, sentinel.ErrInvalidCandidate when the
// registry cannot seed an odd candidate, the registry's error when an
// append fails, and the observer's error verbatim. The registry keeps every
// prime appended before the halt.
func Run(reg *registry.Registry, stop StopPolicy, found FoundObserver) (Stats, error) {
	var stats Stats

	last, ok := reg.Last()
	if !ok {
		return stats, fmt.Errorf("sieve from empty registry: %w", sentinel.ErrInvalidCandidate)
	}
	if last > math.MaxUint64-2 {
		return stats, fmt.Errorf("next candidate after %d: %w", last, sentinel.ErrOverflow)
	}

	candidate := last + 2
	if candidate > 2 && candidate%2 == 0 {
		return stats, fmt.Errorf("even candidate %d: %w", candidate, sentinel.ErrInvalidCandidate)
	}
	if candidate > 5 && candidate%5 == 0 {
		if candidate > math.MaxUint64-2 {
			return stats, fmt.Errorf("next candidate after %d: %w", candidate, sentinel.ErrOverflow)
		}
		candidate += 2
	}

	for {
		if stop.Reached(reg, candidate) {
			return stats, nil
		}

		stats.Tested++
		added, err := Test(reg, candidate, found)
		if added {
			stats.Found++
		}
		if err != nil {
			return stats, err
		}

		step := nextStep(candidate)
		if candidate > math.MaxUint64-step {
			return stats, fmt.Errorf("next candidate after %d: %w", candidate, sentinel.ErrOverflow)
		}
		candidate += step
	}
}

// nextStep skips the multiple of 5 that follows a candidate ending in 3.
func nextStep(candidate uint64) uint64 {
	if candidate > 5 && candidate%10 == 3 {
		return 4
	}
	return 2
}
