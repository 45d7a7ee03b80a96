// Package requestid tags every request with an ID for log correlation.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"primenum/pkg/requestcontext"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

const maxIncomingLength = 128

// Middleware reuses a well-formed incoming X-Request-ID or generates a new
// UUID, stores it in the context, and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxIncomingLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
