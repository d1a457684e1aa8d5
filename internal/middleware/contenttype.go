package middleware

import (
	"mime"
	"net/http"

	"github.com/benvon/lemonaid/internal/request"
	"github.com/benvon/lemonaid/internal/response"
)

// ContentType requires JSON bodies on POST, PUT and PATCH requests below prefix.
func ContentType(prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !request.IsUnder(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				contentType := r.Header.Get("Content-Type")
				if contentType == "" {
					response.Error(w, http.StatusBadRequest, "Content-Type header is required")
					return
				}
				mediaType, _, err := mime.ParseMediaType(contentType)
				if err != nil || mediaType != "application/json" {
					response.Error(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
