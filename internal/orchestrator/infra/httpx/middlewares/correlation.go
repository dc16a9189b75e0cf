package middlewares

import (
	"net/http"

	"github.com/commercekit/order-orchestrator/internal/pkg/correlation"
)

// CaptureCorrelation stores an inbound X-Correlation-Id header in the
// request context. The handler prefers the body's correlation_id field;
// the header is the fallback for callers who propagate it transport-level.
func CaptureCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(correlation.Header); id != "" {
			r = r.WithContext(correlation.WithID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
