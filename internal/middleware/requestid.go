package middleware

import (
	"net/http"

	"github.com/benvon/lemonaid/internal/logger"
	"github.com/benvon/lemonaid/internal/request"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// RequestID reuses a sane incoming X-Request-ID or assigns a new UUID, stores it
// in the request context and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := logger.SanitizeString(r.Header.Get(request.RequestIDHeader), maxRequestIDLength)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(request.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(request.WithRequestID(r.Context(), id)))
	})
}
