package middleware

import (
	"log/slog"
	"net/http"

	"github.com/bansalKrishna311/tryo/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, origin, trace_id and span_id. Handlers and the collection
// engines read it back with logger.FromContext.
//
// Mount it after RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if logger.OriginFromContext(ctx) == "" {
				if screen := r.Header.Get(HeaderScreen); screen != "" {
					ctx = logger.WithOrigin(ctx, screen)
				}
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
