package security

import (
	"crypto/subtle"
	"net/http"

	"github.com/benvon/lemonaid/internal/config"
	"github.com/benvon/lemonaid/internal/logger"
	"go.uber.org/zap"
)

// APIKeyValidator checks requests against the configured API key.
//
// When no key is configured every request is accepted: API routes are
// unprotected by default until API_KEY is set.
type APIKeyValidator struct {
	key    string
	header string
	log    *zap.Logger
}

// NewAPIKeyValidator creates a validator from settings.
func NewAPIKeyValidator(cfg *config.Settings, log *zap.Logger) *APIKeyValidator {
	return &APIKeyValidator{
		key:    cfg.APIKey,
		header: cfg.APIKeyHeader,
		log:    log,
	}
}

// Header returns the request header the key is read from.
func (v *APIKeyValidator) Header() string { return v.header }

// Validate reports whether r carries the configured key. It only logs;
// writing the 401 is up to the caller.
func (v *APIKeyValidator) Validate(r *http.Request) bool {
	if v.key == "" {
		return true
	}

	provided := r.Header.Get(v.header)
	if provided == "" {
		v.log.Warn("API key missing from request",
			zap.String("header", v.header),
			zap.String("path", logger.SanitizePath(r.URL.Path)),
		)
		return false
	}

	if !ConstantTimeEqual(provided, v.key) {
		v.log.Warn("Invalid API key provided",
			zap.String("path", logger.SanitizePath(r.URL.Path)),
			zap.Bool("length_match", len(provided) == len(v.key)),
		)
		return false
	}

	return true
}

// ConstantTimeEqual compares a and b without exiting at the first differing byte.
// Strings of different length are rejected immediately, so the length of the
// secret is observable through timing.
func ConstantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
