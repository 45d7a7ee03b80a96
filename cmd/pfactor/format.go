package main

import (
	"strconv"
	"strings"

	"primenum/internal/primes/factor"
)

// formatLine renders "value: f1 f2 ..." or, with exponents, "value: b^e ...".
// An exponent of 1 is left implicit.
func formatLine(value uint64, factors []uint64, exponents bool) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte(':')
	if !exponents {
		for _, f := range factors {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatUint(f, 10))
		}
		return b.String()
	}
	for _, p := range factor.Powers(factors) {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(p.Base, 10))
		if p.Exponent > 1 {
			b.WriteByte('^')
			b.WriteString(strconv.FormatUint(uint64(p.Exponent), 10))
		}
	}
	return b.String()
}
