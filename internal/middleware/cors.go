package middleware

import (
	"net/http"

	"github.com/benvon/lemonaid/internal/security"
	"github.com/rs/cors"
)

// CORS answers preflight requests and adds CORS headers to every other response.
// OPTIONS requests never reach next, so they bypass the API key gate and handlers.
func CORS(c *security.CORS) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if preflight := c.Preflight(r); preflight != nil {
				preflight.ServeHTTP(w, r)
				return
			}

			c.Apply(w.Header(), r)
			next.ServeHTTP(w, r)
		})
	}
}

// StrictCORS delegates to rs/cors with the same origins, methods and headers.
// Unlike CORS it reflects origins only for real cross-origin requests and only
// answers OPTIONS requests that carry Access-Control-Request-Method.
func StrictCORS(c *security.CORS) func(http.Handler) http.Handler {
	if !c.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}
	opts := cors.Options{
		AllowedOrigins:   c.Origins(),
		AllowedMethods:   security.CORSMethods,
		AllowedHeaders:   security.CORSHeaders,
		AllowCredentials: true,
		MaxAge:           86400,
	}
	return cors.New(opts).Handler
}
