package testutil

import (
	"net/http"

	"primenum/pkg/requestcontext"
)

// WithRequestID adds a request ID to the request context.
// This simulates what the request ID middleware does for every request.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
