package handlers

import (
	"net/http"

	"github.com/benvon/lemonaid/internal/config"
	"github.com/benvon/lemonaid/internal/response"
)

// PublicConfig is the browser-safe subset of the settings.
type PublicConfig struct {
	Environment string          `json:"environment"`
	APIURL      string          `json:"apiUrl,omitempty"`
	AnalyticsID string          `json:"analyticsId,omitempty"`
	APIPrefix   string          `json:"apiPrefix"`
	Supabase    *PublicSupabase `json:"supabase,omitempty"`
}

// PublicSupabase holds the client-side Supabase values. The service role key is never exposed.
type PublicSupabase struct {
	URL     string `json:"url"`
	AnonKey string `json:"anonKey"`
}

// NewPublicConfig projects cfg onto the fields a browser may see.
func NewPublicConfig(cfg *config.Settings) PublicConfig {
	pc := PublicConfig{
		Environment: string(cfg.Env),
		APIURL:      cfg.PublicAPIURL,
		AnalyticsID: cfg.PublicAnalyticsID,
		APIPrefix:   cfg.APIPrefix,
	}
	if sb := cfg.Supabase(); sb != nil {
		pc.Supabase = &PublicSupabase{URL: sb.URL, AnonKey: sb.AnonKey}
	}
	return pc
}

// PublicConfigHandler serves GET /config.json.
func PublicConfigHandler(cfg *config.Settings) http.HandlerFunc {
	body := NewPublicConfig(cfg)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		response.JSON(w, http.StatusOK, body)
	}
}
