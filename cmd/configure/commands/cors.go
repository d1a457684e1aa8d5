package commands

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/benvon/lemonaid/internal/config"
	"github.com/benvon/lemonaid/internal/security"
	"github.com/spf13/cobra"
)

// NewCorsCmd creates the cors command, which previews the CORS headers the
// server would send for a given request origin.
func NewCorsCmd() *cobra.Command {
	var origin string
	var preflight bool

	cmd := &cobra.Command{
		Use:   "cors",
		Short: "Preview CORS headers",
		Long:  "Show the CORS headers computed from CORS_ORIGIN and CORS_ENABLED for a request from --origin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()

			c := security.NewCORS(cfg)
			if !c.Enabled() {
				fmt.Fprintln(out, "CORS is disabled (CORS_ENABLED=false); no headers are sent.")
				return nil
			}

			method := http.MethodGet
			if preflight {
				method = http.MethodOptions
			}
			req, err := http.NewRequest(method, cfg.APIPrefix, nil)
			if err != nil {
				return fmt.Errorf("build request for %s: %w", cfg.APIPrefix, err)
			}
			if origin = strings.TrimSpace(origin); origin != "" {
				req.Header.Set("Origin", origin)
			}

			fmt.Fprintf(out, "Allowed origins: %s\n", strings.Join(c.Origins(), ", "))
			if preflight {
				fmt.Fprintln(out, "Preflight response: 204 No Content")
			}

			headers := c.Headers(req)
			names := make([]string, 0, len(headers))
			for name := range headers {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %s: %s\n", name, strings.Join(headers.Values(name), ", "))
			}
			if headers.Get("Access-Control-Allow-Origin") == "" {
				fmt.Fprintln(out, "  (origin not allowed: no Access-Control-Allow-Origin)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "", "Request Origin header to evaluate")
	cmd.Flags().BoolVar(&preflight, "preflight", false, "Evaluate an OPTIONS preflight request")

	return cmd
}
