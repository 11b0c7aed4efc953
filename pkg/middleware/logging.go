package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bansalKrishna311/tryo/pkg/logger"
)

const (
	// HeaderCorrelationID carries the request correlation ID in both directions.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderScreen names the UI screen that issued the request (cart, wishlist, try-on...).
	HeaderScreen = "X-Tryo-Screen"
)

// RequestLogging logs one line per request with status, duration and the
// correlation ID. A correlation ID is generated when the caller sends none.
func RequestLogging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			correlationID := r.Header.Get(HeaderCorrelationID)
			if correlationID == "" {
				correlationID = uuid.NewString()
			}
			ctx := logger.WithCorrelationID(r.Context(), correlationID)
			if screen := r.Header.Get(HeaderScreen); screen != "" {
				ctx = logger.WithOrigin(ctx, screen)
			}
			r = r.WithContext(ctx)

			w.Header().Set(HeaderCorrelationID, correlationID)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.WithContext(ctx, l).LogAttrs(ctx, level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", rec.bytes),
				slog.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
