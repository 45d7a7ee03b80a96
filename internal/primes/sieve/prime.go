// Package sieve finds primes by trial division against a registry of the
// primes already known.
package sieve

import (
	"fmt"

	"primenum/internal/primes/registry"
	"primenum/pkg/platform/sentinel"
)

// FoundObserver is told about every prime a sieve run appends. A non-nil
// error halts the run and is returned to the caller unchanged.
type FoundObserver interface {
	Found(value uint64) error
}

// FoundFunc adapts a plain function to FoundObserver.
type FoundFunc func(value uint64) error

// Found calls f(value).
func (f FoundFunc) Found(value uint64) error {
	return f(value)
}

// Observers fans one found event out to several observers in order,
// stopping at the first error.
func Observers(observers ...FoundObserver) FoundObserver {
	return FoundFunc(func(value uint64) error {
		for _, o := range observers {
			if o == nil {
				continue
			}
			if err := o.Found(value); err != nil {
				return err
			}
		}
		return nil
	})
}

// IsPrime reports whether no registered prime up to floor(sqrt(value))
// divides value.
//
// The answer is only meaningful when the registry already holds every prime
// up to that root; the sieve loop guarantees this for its own candidates.
// Values below 2 are not prime.
func IsPrime(reg *registry.Registry, value uint64) bool {
	if value < 2 {
		return false
	}
	root := ISqrt(value)
	for p := range reg.All() {
		if p > root {
			break
		}
		// Loaded data is trusted, but a zero or one would make every
		// division meaningless.
		if p < 2 {
			continue
		}
		if value%p == 0 {
			return false
		}
	}
	return true
}

// Test runs IsPrime on value and registers it when prime, then notifies
// found. It reports whether value was added.
//
// A value below the registry's largest entry cannot be placed without
// breaking the ordering, so it yields sentinel.ErrOverflow.
func Test(reg *registry.Registry, value uint64, found FoundObserver) (bool, error) {
	if last, ok := reg.Last(); ok {
		if value < last {
			return false, fmt.Errorf("test %d below known maximum %d: %w", value, last, sentinel.ErrOverflow)
		}
		if value == last {
			return false, nil
		}
	}
	if !IsPrime(reg, value) {
		return false, nil
	}
	if _, err := reg.Append(value); err != nil {
		return false, err
	}
	if found != nil {
		return true, found.Found(value)
	}
	return true, nil
}
