package sieve

import "math"

// maxRoot is the largest integer whose square fits in a uint64.
const maxRoot = 1<<32 - 1

// ISqrt returns floor(sqrt(v)).
//
// The float estimate can be off by one near perfect squares and above 2^53,
// so it is corrected until r*r <= v < (r+1)*(r+1) holds exactly.
func ISqrt(v uint64) uint64 {
	r := uint64(math.Sqrt(float64(v)))
	if r > maxRoot {
		r = maxRoot
	}
	for r*r > v {
		r--
	}
	for r < maxRoot && (r+1)*(r+1) <= v {
		r++
	}
	return r
}
