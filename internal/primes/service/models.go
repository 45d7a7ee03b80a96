package service

import "primenum/internal/primes/factor"

// SieveResult describes one sieve run.
type SieveResult struct {
	RunID   string   `json:"run_id"`
	Policy  string   `json:"policy"`
	Found   []uint64 `json:"found"`
	Tested  uint64   `json:"tested"`
	Total   int      `json:"total"`
	Largest uint64   `json:"largest"`
}

// FactorResult is the factorization of Value. Factors is owned by the caller
// and never aliases the registry.
type FactorResult struct {
	Value   uint64         `json:"value"`
	Factors []uint64       `json:"factors"`
	Powers  []factor.Power `json:"powers"`
}

// Stats summarizes the registry.
type Stats struct {
	Count   int    `json:"count"`
	Largest uint64 `json:"largest"`
}
