package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primenum/pkg/requestcontext"
)

func serve(t *testing.T, incoming string) (seen string, echoed string) {
	t.Helper()
	handler := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/primes?max=10", nil)
	if incoming != "" {
		req.Header.Set(Header, incoming)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return seen, w.Header().Get(Header)
}

func TestMiddleware(t *testing.T) {
	t.Run("generates an id when none is sent", func(t *testing.T) {
		seen, echoed := serve(t, "")
		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, echoed)
	})

	t.Run("reuses a caller supplied id", func(t *testing.T) {
		seen, echoed := serve(t, "trace-abc-123")
		assert.Equal(t, "trace-abc-123", seen)
		assert.Equal(t, "trace-abc-123", echoed)
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		seen, _ := serve(t, strings.Repeat("x", 129))
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
	})
}
