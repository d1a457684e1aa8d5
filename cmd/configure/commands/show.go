package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/benvon/lemonaid/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const redacted = "********"

// settingsView is the printable form of the settings. Secrets are masked.
type settingsView struct {
	Env                    string `json:"env" yaml:"env"`
	Host                   string `json:"host" yaml:"host"`
	Port                   int    `json:"port" yaml:"port"`
	APIKey                 string `json:"apiKey" yaml:"api_key"`
	APIKeyHeader           string `json:"apiKeyHeader" yaml:"api_key_header"`
	APIPrefix              string `json:"apiPrefix" yaml:"api_prefix"`
	CORSEnabled            bool   `json:"corsEnabled" yaml:"cors_enabled"`
	CORSStrict             bool   `json:"corsStrict" yaml:"cors_strict"`
	CORSOrigin             string `json:"corsOrigin" yaml:"cors_origin"`
	TrustedProxies         string `json:"trustedProxies" yaml:"trusted_proxies"`
	PublicAPIURL           string `json:"publicApiUrl" yaml:"public_api_url"`
	PublicAnalyticsID      string `json:"publicAnalyticsId" yaml:"public_analytics_id"`
	SupabaseURL            string `json:"supabaseUrl" yaml:"supabase_url"`
	SupabaseAnonKey        string `json:"supabaseAnonKey" yaml:"supabase_anon_key"`
	SupabaseServiceRoleKey string `json:"supabaseServiceRoleKey" yaml:"supabase_service_role_key"`
	DatabaseURL            string `json:"databaseUrl" yaml:"database_url"`
	LogFormat              string `json:"logFormat" yaml:"log_format"`
	EnableHSTS             bool   `json:"enableHsts" yaml:"enable_hsts"`
	RateLimit              string `json:"rateLimit" yaml:"rate_limit"`
	RedisURL               string `json:"redisUrl" yaml:"redis_url"`
	RequestTimeout         string `json:"requestTimeout" yaml:"request_timeout"`
	MaxRequestBytes        int64  `json:"maxRequestBytes" yaml:"max_request_bytes"`
	OTELEnabled            bool   `json:"otelEnabled" yaml:"otel_enabled"`
	OTELEndpoint           string `json:"otelEndpoint" yaml:"otel_endpoint"`
}

func newSettingsView(cfg *config.Settings) settingsView {
	return settingsView{
		Env:                    string(cfg.Env),
		Host:                   cfg.Host,
		Port:                   cfg.Port,
		APIKey:                 mask(cfg.APIKey),
		APIKeyHeader:           cfg.APIKeyHeader,
		APIPrefix:              cfg.APIPrefix,
		CORSEnabled:            cfg.CORSEnabled,
		CORSStrict:             cfg.CORSStrict,
		CORSOrigin:             cfg.CORSOrigin,
		TrustedProxies:         joinProxies(cfg),
		PublicAPIURL:           cfg.PublicAPIURL,
		PublicAnalyticsID:      cfg.PublicAnalyticsID,
		SupabaseURL:            cfg.SupabaseURL,
		SupabaseAnonKey:        cfg.SupabaseAnonKey,
		SupabaseServiceRoleKey: mask(cfg.SupabaseServiceRoleKey),
		DatabaseURL:            redactURL(cfg.DatabaseURL),
		LogFormat:              cfg.LogFormat,
		EnableHSTS:             cfg.EnableHSTS,
		RateLimit:              cfg.RateLimit,
		RedisURL:               redactURL(cfg.RedisURL),
		RequestTimeout:         cfg.RequestTimeout.String(),
		MaxRequestBytes:        cfg.MaxRequestBytes,
		OTELEnabled:            cfg.OTELEnabled,
		OTELEndpoint:           cfg.OTELEndpoint,
	}
}

func joinProxies(cfg *config.Settings) string {
	entries := make([]string, 0, len(cfg.TrustedProxies))
	for _, prefix := range cfg.TrustedProxies {
		entries = append(entries, prefix.String())
	}
	return strings.Join(entries, ",")
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return redacted
}

// redactURL hides the password of a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return redacted
	}
	return u.Redacted()
}

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Long:  "Print the settings the server would run with, read from the environment and .env. Secrets are redacted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return writeSettings(cmd.OutOrStdout(), newSettingsView(cfg), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, yaml or json")

	return cmd
}

func writeSettings(out io.Writer, view settingsView, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		rows := [][2]string{
			{"ENV", view.Env},
			{"HOST", view.Host},
			{"PORT", strconv.Itoa(view.Port)},
			{"API_KEY", view.APIKey},
			{"API_KEY_HEADER", view.APIKeyHeader},
			{"API_PREFIX", view.APIPrefix},
			{"CORS_ENABLED", strconv.FormatBool(view.CORSEnabled)},
			{"CORS_STRICT", strconv.FormatBool(view.CORSStrict)},
			{"CORS_ORIGIN", view.CORSOrigin},
			{"TRUSTED_PROXIES", view.TrustedProxies},
			{"PUBLIC_API_URL", view.PublicAPIURL},
			{"PUBLIC_ANALYTICS_ID", view.PublicAnalyticsID},
			{"SUPABASE_URL", view.SupabaseURL},
			{"SUPABASE_ANON_KEY", view.SupabaseAnonKey},
			{"SUPABASE_SERVICE_ROLE_KEY", view.SupabaseServiceRoleKey},
			{"DATABASE_URL", view.DatabaseURL},
			{"LOG_FORMAT", view.LogFormat},
			{"ENABLE_HSTS", strconv.FormatBool(view.EnableHSTS)},
			{"RATE_LIMIT", view.RateLimit},
			{"REDIS_URL", view.RedisURL},
			{"REQUEST_TIMEOUT", view.RequestTimeout},
			{"MAX_REQUEST_BYTES", strconv.FormatInt(view.MaxRequestBytes, 10)},
			{"OTEL_ENABLED", strconv.FormatBool(view.OTELEnabled)},
			{"OTEL_EXPORTER_OTLP_ENDPOINT", view.OTELEndpoint},
		}
		for _, row := range rows {
			value := row[1]
			if value == "" {
				value = "(unset)"
			}
			if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], value); err != nil {
				return err
			}
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}
}
