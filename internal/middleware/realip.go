package middleware

import (
	"net/http"

	"github.com/benvon/lemonaid/internal/request"
)

// RealIP resolves the client IP once and stores it in the request context for
// the audit log and the rate limiter. Forwarding headers are honoured only
// from trusted proxies; with none configured the TCP peer is the client.
func RealIP(trusted request.TrustedProxies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := trusted.Resolve(r)
			next.ServeHTTP(w, r.WithContext(request.WithClientIP(r.Context(), ip)))
		})
	}
}
