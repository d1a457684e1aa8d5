package middleware

import (
	"net/http"

	"github.com/benvon/lemonaid/internal/request"
	"github.com/benvon/lemonaid/internal/response"
	"github.com/benvon/lemonaid/internal/security"
)

// UnauthorizedMessage is the error body of a rejected API request.
const UnauthorizedMessage = "Unauthorized: Invalid or missing API key"

// APIKey rejects requests below prefix that fail validation with 401.
// Requests outside prefix pass through untouched.
func APIKey(v *security.APIKeyValidator, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if request.IsUnder(r.URL.Path, prefix) && !v.Validate(r) {
				response.Error(w, http.StatusUnauthorized, UnauthorizedMessage)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
