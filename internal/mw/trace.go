package mw

import (
	"net/http"

	"github.com/TwigBush/indexgate/internal/trace"
)

// Trace reuses an inbound trace id or mints one, stores it on the context
// and echoes it on the response.
func Trace() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(trace.Header)
			if id == "" {
				id = trace.NewID()
			}
			ctx := trace.With(r.Context(), id)

			w.Header().Set(trace.Header, id)
			w.Header().Set("X-Request-ID", id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
