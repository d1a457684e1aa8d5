package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/benvon/lemonaid/internal/request"
	"github.com/benvon/lemonaid/internal/validation"
)

// Environment names the deployment mode the server runs in.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
	EnvTest        Environment = "test"
)

// Log output formats accepted by LOG_FORMAT.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const (
	defaultPort            = 8000
	defaultHost            = "0.0.0.0"
	defaultAPIKeyHeader    = "x-api-key"
	defaultAPIPrefix       = "/api"
	defaultCORSOrigin      = "*"
	defaultRequestTimeout  = 30
	defaultMaxRequestBytes = 1 << 20 // 1MB
)

// Settings holds the validated process configuration.
// A Settings value is never modified after Load returns it.
type Settings struct {
	Env  Environment
	Port int `validate:"min=1,max=65535"`
	Host string

	// An empty APIKey leaves API routes unprotected.
	APIKey       string
	APIKeyHeader string
	APIPrefix    string

	// TrustedProxies are the peers allowed to report the client IP through
	// X-Forwarded-For or X-Real-IP. Empty trusts nobody.
	TrustedProxies request.TrustedProxies

	CORSOrigin  string
	CORSEnabled bool
	CORSStrict  bool

	PublicAPIURL      string
	PublicAnalyticsID string

	SupabaseURL            string
	SupabaseAnonKey        string
	SupabaseServiceRoleKey string

	DatabaseURL string

	LogFormat       string
	EnableHSTS      bool
	RateLimit       string
	RedisURL        string
	RequestTimeout  time.Duration
	MaxRequestBytes int64

	OTELEnabled  bool
	OTELEndpoint string
}

// Error reports an environment variable that could not be turned into a setting.
type Error struct {
	Key   string
	Value string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %q: %v", e.Key, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load loads configuration from environment variables
func Load() (*Settings, error) {
	rawPort := Env("PORT", strconv.Itoa(defaultPort))
	port, err := strconv.Atoi(strings.TrimSpace(rawPort))
	if err != nil {
		return nil, &Error{Key: "PORT", Value: rawPort, Err: fmt.Errorf("not a number")}
	}

	rawPrefix := Env("API_PREFIX", defaultAPIPrefix)
	apiPrefix, err := normalizePrefix(rawPrefix)
	if err != nil {
		return nil, &Error{Key: "API_PREFIX", Value: rawPrefix, Err: err}
	}

	rawProxies := os.Getenv("TRUSTED_PROXIES")
	proxies, err := request.ParseTrustedProxies(rawProxies)
	if err != nil {
		return nil, &Error{Key: "TRUSTED_PROXIES", Value: rawProxies, Err: err}
	}

	cfg := &Settings{
		Env:                    Environment(Env("ENV", string(EnvDevelopment))),
		Port:                   port,
		Host:                   Env("HOST", defaultHost),
		APIKey:                 os.Getenv("API_KEY"),
		APIKeyHeader:           Env("API_KEY_HEADER", defaultAPIKeyHeader),
		APIPrefix:              apiPrefix,
		TrustedProxies:         proxies,
		CORSOrigin:             Env("CORS_ORIGIN", defaultCORSOrigin),
		CORSEnabled:            EnvFlag("CORS_ENABLED"),
		CORSStrict:             EnvBool("CORS_STRICT", false),
		PublicAPIURL:           os.Getenv("PUBLIC_API_URL"),
		PublicAnalyticsID:      os.Getenv("PUBLIC_ANALYTICS_ID"),
		SupabaseURL:            os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:        os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		LogFormat:              strings.ToLower(Env("LOG_FORMAT", LogFormatText)),
		EnableHSTS:             EnvBool("ENABLE_HSTS", false),
		RateLimit:              os.Getenv("RATE_LIMIT"),
		RedisURL:               os.Getenv("REDIS_URL"),
		RequestTimeout:         time.Duration(EnvInt("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)) * time.Second,
		MaxRequestBytes:        int64(EnvInt("MAX_REQUEST_BYTES", defaultMaxRequestBytes)),
		OTELEnabled:            EnvBool("OTEL_ENABLED", false),
		OTELEndpoint:           os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := validation.Validate.Struct(cfg); err != nil {
		return nil, &Error{Key: "PORT", Value: rawPort, Err: fmt.Errorf("must be between 1 and 65535")}
	}

	return cfg, nil
}

var (
	once     sync.Once
	settings *Settings
	loadErr  error
)

// Get returns the process-wide settings, loading them on first use.
// Every call after the first returns the same pointer (or the same error).
func Get() (*Settings, error) {
	once.Do(func() {
		settings, loadErr = Load()
	})
	return settings, loadErr
}

// IsDevelopment reports whether the server runs in development mode.
func (s *Settings) IsDevelopment() bool { return s.Env == EnvDevelopment }

// IsProduction reports whether the server runs in production mode.
func (s *Settings) IsProduction() bool { return s.Env == EnvProduction }

// APIKeyConfigured reports whether API routes require a key.
func (s *Settings) APIKeyConfigured() bool { return s.APIKey != "" }

// Addr is the listen address built from Host and Port.
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Supabase holds the Supabase project settings application code may consume.
type Supabase struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
}

// Supabase returns the Supabase settings, or nil when the URL or anon key is missing.
func (s *Settings) Supabase() *Supabase {
	if s.SupabaseURL == "" || s.SupabaseAnonKey == "" {
		return nil
	}
	return &Supabase{
		URL:            s.SupabaseURL,
		AnonKey:        s.SupabaseAnonKey,
		ServiceRoleKey: s.SupabaseServiceRoleKey,
	}
}

// normalizePrefix gives an API prefix a single leading slash and no trailing one.
func normalizePrefix(prefix string) (string, error) {
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "/" {
		return "", fmt.Errorf("must name a path below /")
	}
	if strings.ContainsAny(prefix, " ?#") {
		return "", fmt.Errorf("must be a plain URL path")
	}
	return prefix, nil
}

// Env returns the value of key, or defaultValue when it is unset or empty.
func Env(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EnvBool parses an opt-in flag: only "true" or "1" (any case) enable it.
func EnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.EqualFold(value, "true") || value == "1"
	}
	return defaultValue
}

// EnvFlag parses an opt-out flag: anything other than "false" (any case) keeps it on.
func EnvFlag(key string) bool {
	return !strings.EqualFold(os.Getenv(key), "false")
}

// EnvInt returns key parsed as a base-10 integer, or defaultValue when unset or malformed.
func EnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
