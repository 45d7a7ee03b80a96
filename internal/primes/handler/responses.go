package handler

// ListResponse is returned by GET /primes.
type ListResponse struct {
	Count  int      `json:"count"`
	Primes []uint64 `json:"primes"`
}

// PrimalityResponse is returned by GET /primes/{value}.
type PrimalityResponse struct {
	Value uint64 `json:"value"`
	Prime bool   `json:"prime"`
}
