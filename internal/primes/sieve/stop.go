package sieve

import (
	"fmt"

	"primenum/internal/primes/registry"
)

// StopKind selects how a sieve run decides to halt.
type StopKind uint8

const (
	// StopNever runs until resources or the integer domain run out.
	StopNever StopKind = iota
	// StopAtValue halts once the candidate exceeds Bound.
	StopAtValue
	// StopAtCount halts once the registry holds at least Bound entries.
	StopAtCount
)

// StopPolicy is evaluated with the current candidate before it is tested.
type StopPolicy struct {
	Kind  StopKind
	Bound uint64
}

// Never returns a policy that never halts the loop on its own.
func Never() StopPolicy {
	return StopPolicy{Kind: StopNever}
}

// AtValue halts before testing any candidate greater than upper.
func AtValue(upper uint64) StopPolicy {
	return StopPolicy{Kind: StopAtValue, Bound: upper}
}

// AtCount halts once the registry size reaches n.
func AtCount(n uint64) StopPolicy {
	return StopPolicy{Kind: StopAtCount, Bound: n}
}

// Reached reports whether the loop should halt before testing candidate.
func (p StopPolicy) Reached(reg *registry.Registry, candidate uint64) bool {
	switch p.Kind {
	case StopAtValue:
		return candidate > p.Bound
	case StopAtCount:
		return uint64(reg.Len()) >= p.Bound
	default:
		return false
	}
}

func (p StopPolicy) String() string {
	switch p.Kind {
	case StopAtValue:
		return fmt.Sprintf("value<=%d", p.Bound)
	case StopAtCount:
		return fmt.Sprintf("count>=%d", p.Bound)
	default:
		return "never"
	}
}
