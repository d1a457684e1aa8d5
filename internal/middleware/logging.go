package middleware

import (
	"net/http"
	"time"

	logpkg "github.com/benvon/lemonaid/internal/logger"
	"github.com/benvon/lemonaid/internal/request"
	"go.uber.org/zap"
)

// Logging writes one access-log line per request once the response is done.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := newStatusRecorder(w)
			next.ServeHTTP(wrapped, r)

			var fields []zap.Field
			if id := request.RequestID(r); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}
			logpkg.Request(logger, r.Method, r.URL.Path, wrapped.statusCode, time.Since(start), fields...)
		})
	}
}
