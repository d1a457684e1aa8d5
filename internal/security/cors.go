package security

import (
	"net/http"
	"slices"
	"strings"

	"github.com/benvon/lemonaid/internal/config"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, x-api-key"
	corsMaxAge       = "86400" // 24 hours
)

// CORSMethods and CORSHeaders list the same values as the emitted headers.
var (
	CORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions}
	CORSHeaders = []string{"Content-Type", "Authorization", "x-api-key"}
)

// CORS computes cross-origin response headers from settings.
type CORS struct {
	enabled  bool
	wildcard bool
	// allowList is set when the configured origin is a comma-separated list.
	allowList []string
	// fixed is the single configured origin, emitted regardless of the request.
	fixed string
}

// NewCORS creates a CORS calculator from settings.
func NewCORS(cfg *config.Settings) *CORS {
	c := &CORS{enabled: cfg.CORSEnabled}
	origin := strings.TrimSpace(cfg.CORSOrigin)
	switch {
	case origin == "*":
		c.wildcard = true
	case strings.Contains(origin, ","):
		c.allowList = AllowedOrigins(origin)
	default:
		c.fixed = origin
	}
	return c
}

// Enabled reports whether CORS headers are emitted at all.
func (c *CORS) Enabled() bool { return c.enabled }

// Origins returns the origins the policy admits, "*" for the wildcard.
func (c *CORS) Origins() []string {
	switch {
	case c.wildcard:
		return []string{"*"}
	case c.allowList != nil:
		return append([]string(nil), c.allowList...)
	case c.fixed != "":
		return []string{c.fixed}
	}
	return nil
}

// Headers returns the CORS headers for r. The set is empty when CORS is disabled.
func (c *CORS) Headers(r *http.Request) http.Header {
	h := make(http.Header)
	if !c.enabled {
		return h
	}

	origin := r.Header.Get("Origin")
	switch {
	case c.wildcard:
		h.Set("Access-Control-Allow-Origin", "*")
	case c.allowList != nil:
		if origin != "" && slices.Contains(c.allowList, origin) {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
		}
	case c.fixed != "":
		h.Set("Access-Control-Allow-Origin", c.fixed)
	}

	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Max-Age", corsMaxAge)
	return h
}

// Apply copies the CORS headers for r onto dst. Vary is appended rather than
// replaced so values set by other layers survive.
func (c *CORS) Apply(dst http.Header, r *http.Request) {
	for key, values := range c.Headers(r) {
		if key == "Vary" {
			for _, v := range values {
				dst.Add(key, v)
			}
			continue
		}
		dst[key] = values
	}
}

// Preflight returns a handler answering r with 204 and the CORS headers when r
// is an OPTIONS request, and nil for every other method.
func (c *CORS) Preflight(r *http.Request) http.Handler {
	if r.Method != http.MethodOptions {
		return nil
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		c.Apply(w.Header(), req)
		w.WriteHeader(http.StatusNoContent)
	})
}

// AllowedOrigins splits a comma-separated origin list, trimming whitespace and
// dropping empty and duplicate entries.
func AllowedOrigins(list string) []string {
	var origins []string
	for _, origin := range strings.Split(list, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" || slices.Contains(origins, trimmed) {
			continue
		}
		origins = append(origins, trimmed)
	}
	return origins
}
