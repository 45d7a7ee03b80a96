// Package registry holds the ordered, append-only list of discovered primes.
//
// A Registry is owned by a single writer for the duration of a sieve or
// factorization session. Entries are never removed, so read-only consumers
// may iterate while no append is in progress. The registry does not lock;
// callers that share one across goroutines serialize access themselves.
package registry

import (
	"fmt"
	"iter"

	"primenum/pkg/platform/sentinel"
)

// Seed is the set of single-digit primes a seeded registry starts with.
// Trial division against known primes needs them to get going.
var Seed = [...]uint64{2, 3, 5, 7}

// Registry is a strictly increasing sequence of primes backed by a growable
// slice. Append is amortized O(1); first/last/len are O(1).
type Registry struct {
	values   []uint64
	capacity int // 0 means unbounded
}

// Option configures a Registry.
type Option func(*Registry)

// WithCapacity caps the number of entries the registry may hold. Appending
// past the cap fails with sentinel.ErrResourceExhausted, which is how the
// engine surfaces out-of-resources conditions without relying on the runtime
// to run out of memory.
func WithCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// New returns an empty registry, or one holding Seed when seeded is true.
func New(seeded bool, opts ...Option) (*Registry, error) {
	r := &Registry{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if !seeded {
		return r, nil
	}
	if r.capacity > 0 && r.capacity < len(Seed) {
		return nil, fmt.Errorf("seed registry with capacity %d: %w", r.capacity, sentinel.ErrResourceExhausted)
	}
	r.values = make([]uint64, len(Seed), max(len(Seed), 64))
	copy(r.values, Seed[:])
	return r, nil
}

// Append adds value as the new last entry and returns its index.
//
// The caller guarantees value is greater than Last; the registry does not
// re-check ordering.
func (r *Registry) Append(value uint64) (int, error) {
	if r.capacity > 0 && len(r.values) >= r.capacity {
		return -1, fmt.Errorf("append %d: registry full at %d entries: %w", value, r.capacity, sentinel.ErrResourceExhausted)
	}
	r.values = append(r.values, value)
	return len(r.values) - 1, nil
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.values)
}

// Capacity returns the configured entry cap, or 0 when unbounded.
func (r *Registry) Capacity() int {
	return r.capacity
}

// First returns the smallest entry. ok is false on an empty registry.
func (r *Registry) First() (value uint64, ok bool) {
	if len(r.values) == 0 {
		return 0, false
	}
	return r.values[0], true
}

// Last returns the largest entry. ok is false on an empty registry.
func (r *Registry) Last() (value uint64, ok bool) {
	if len(r.values) == 0 {
		return 0, false
	}
	return r.values[len(r.values)-1], true
}

// At returns the entry at index i. It panics when i is out of range, like a
// slice index.
func (r *Registry) At(i int) uint64 {
	return r.values[i]
}

// All yields the entries in ascending order. The sequence can be ranged over
// any number of times; each pass sees the entries present when it started
// plus any appended before it reaches them.
func (r *Registry) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for i := 0; i < len(r.values); i++ {
			if !yield(r.values[i]) {
				return
			}
		}
	}
}

// Values returns a copy of the entries.
func (r *Registry) Values() []uint64 {
	out := make([]uint64, len(r.values))
	copy(out, r.values)
	return out
}
