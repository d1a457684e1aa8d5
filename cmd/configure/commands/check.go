package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/benvon/lemonaid/internal/config"
	"github.com/benvon/lemonaid/internal/database"
	"github.com/benvon/lemonaid/internal/middleware"
	"github.com/benvon/lemonaid/internal/security"
	"github.com/benvon/lemonaid/internal/validation"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	var connect bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		Long:  "Load the settings, report problems and optionally test the database and Redis connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			fmt.Fprintln(out, "✓ Configuration is valid")

			for _, warning := range settingsWarnings(cfg) {
				fmt.Fprintf(out, "⚠ %s\n", warning)
			}

			if cfg.RateLimit != "" {
				if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
					return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
				}
				fmt.Fprintf(out, "✓ Rate limit %s\n", cfg.RateLimit)
			}

			if !connect {
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			if cfg.DatabaseURL != "" {
				db, err := database.New(ctx, cfg.DatabaseURL)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
				fmt.Fprintln(out, "✓ Database is reachable")
			}

			if cfg.RedisURL != "" {
				client, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
				if err != nil {
					return err
				}
				if err := client.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close Redis client: %v\n", err)
				}
				fmt.Fprintln(out, "✓ Redis is reachable")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&connect, "connect", false, "Also test the database and Redis connections")

	return cmd
}

// settingsWarnings lists non-fatal problems worth fixing before production.
func settingsWarnings(cfg *config.Settings) []string {
	var warnings []string

	if !cfg.APIKeyConfigured() {
		warnings = append(warnings, fmt.Sprintf("API_KEY is not set; routes under %s are open", cfg.APIPrefix))
	}
	if cfg.IsProduction() && cfg.CORSEnabled && cfg.CORSOrigin == "*" {
		warnings = append(warnings, "CORS_ORIGIN is * in production")
	}
	for _, origin := range security.AllowedOrigins(cfg.CORSOrigin) {
		if origin != "*" && !validation.IsValidURL(origin) {
			warnings = append(warnings, fmt.Sprintf("CORS origin %q is not a valid URL", origin))
		}
	}
	if cfg.Supabase() == nil && (cfg.SupabaseURL != "" || cfg.SupabaseAnonKey != "") {
		warnings = append(warnings, "Supabase configuration incomplete: SUPABASE_URL and SUPABASE_ANON_KEY are both required")
	}
	if cfg.PublicAPIURL != "" && !validation.IsValidURL(cfg.PublicAPIURL) {
		warnings = append(warnings, fmt.Sprintf("PUBLIC_API_URL %q is not a valid URL", cfg.PublicAPIURL))
	}
	if cfg.RedisURL != "" && cfg.RateLimit == "" {
		warnings = append(warnings, "REDIS_URL is set but RATE_LIMIT is not; Redis will not be used")
	}

	return warnings
}
