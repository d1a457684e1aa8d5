package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benvon/lemonaid/internal/config"
	"github.com/benvon/lemonaid/internal/security"
	"go.uber.org/zap"
)

// newPipeline wires the gating middleware around a tiny mux the same way the server does.
func newPipeline(cfg *config.Settings) http.Handler {
	log := zap.NewNop()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/items", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/api/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})
	mux.HandleFunc("/public", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	mux.Handle("/", NotFound(log))

	return Chain(mux,
		RequestID,
		Logging(log),
		Audit(log),
		CORS(security.NewCORS(cfg)),
		SecurityHeaders(false),
		APIKey(security.NewAPIKeyValidator(cfg, log), cfg.APIPrefix),
		ContentType(cfg.APIPrefix),
		MaxRequestSize(1024),
		ErrorHandler(log, cfg.IsProduction()),
	)
}

func testSettings() *config.Settings {
	return &config.Settings{
		Env:          config.EnvProduction,
		APIKey:       "secret",
		APIKeyHeader: "x-api-key",
		APIPrefix:    "/api",
		CORSOrigin:   "https://a.com,https://b.com",
		CORSEnabled:  true,
	}
}

func TestPipeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		body       string
		wantStatus int
		wantBody   string
		wantOrigin string
	}{
		{
			name: "preflight short-circuits before the key gate", method: "OPTIONS", path: "/api/items",
			headers:    map[string]string{"Origin": "https://a.com"},
			wantStatus: http.StatusNoContent, wantBody: "", wantOrigin: "https://a.com",
		},
		{
			name: "preflight on unknown path", method: "OPTIONS", path: "/nowhere",
			wantStatus: http.StatusNoContent, wantBody: "",
		},
		{
			name: "missing key", method: "GET", path: "/api/items",
			headers:    map[string]string{"Origin": "https://b.com"},
			wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Unauthorized: Invalid or missing API key"}`,
			wantOrigin: "https://b.com",
		},
		{
			name: "wrong key", method: "GET", path: "/api/items",
			headers:    map[string]string{"x-api-key": "secreT"},
			wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Unauthorized: Invalid or missing API key"}`,
		},
		{
			name: "unknown api route still gated", method: "GET", path: "/api/unknown",
			wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Unauthorized: Invalid or missing API key"}`,
		},
		{
			name: "valid key", method: "GET", path: "/api/items",
			headers:    map[string]string{"x-api-key": "secret", "Origin": "https://a.com"},
			wantStatus: http.StatusOK, wantBody: `{"data":[]}`, wantOrigin: "https://a.com",
		},
		{
			name: "non-api route needs no key", method: "GET", path: "/public",
			wantStatus: http.StatusOK, wantBody: "hello",
		},
		{
			name: "unmatched route", method: "GET", path: "/missing",
			wantStatus: http.StatusNotFound, wantBody: `{"error":"Not Found"}`,
		},
		{
			name: "panic becomes generic 500 in production", method: "GET", path: "/api/panic",
			headers:    map[string]string{"x-api-key": "secret"},
			wantStatus: http.StatusInternalServerError, wantBody: `{"error":"Internal Server Error"}`,
		},
		{
			name: "non-json api body rejected", method: "POST", path: "/api/items",
			headers:    map[string]string{"x-api-key": "secret", "Content-Type": "text/plain"},
			body:       "x",
			wantStatus: http.StatusUnsupportedMediaType, wantBody: `{"error":"Content-Type must be application/json"}`,
		},
		{
			name: "oversized body rejected", method: "POST", path: "/api/items",
			headers:    map[string]string{"x-api-key": "secret", "Content-Type": "application/json"},
			body:       strings.Repeat("x", 2048),
			wantStatus: http.StatusRequestEntityTooLarge, wantBody: `{"error":"Request Entity Too Large"}`,
		},
	}

	handler := newPipeline(testSettings())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.wantBody {
				t.Errorf("Body = %q, want %q", got, tt.wantBody)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if w.Header().Get("Access-Control-Allow-Methods") == "" {
				t.Error("Expected CORS headers on every response")
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("Expected request id on every response")
			}
		})
	}
}

func TestPipeline_NoKeyConfiguredIsOpen(t *testing.T) {
	t.Parallel()

	cfg := testSettings()
	cfg.APIKey = ""
	handler := newPipeline(cfg)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/items", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected open access with no key configured, got %d", w.Code)
	}
}

func TestPipeline_CORSDisabled(t *testing.T) {
	t.Parallel()

	cfg := testSettings()
	cfg.CORSEnabled = false
	handler := newPipeline(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/public", nil)
	req.Header.Set("Origin", "https://a.com")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for OPTIONS, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "" || w.Header().Get("Access-Control-Allow-Methods") != "" {
		t.Errorf("Expected no CORS headers when disabled, got %v", w.Header())
	}
}

func TestStrictCORS(t *testing.T) {
	t.Parallel()

	cfg := testSettings()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := StrictCORS(security.NewCORS(cfg))(next)

	req := httptest.NewRequest("OPTIONS", "/api/items", nil)
	req.Header.Set("Origin", "https://a.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://a.com" {
		t.Errorf("Allow-Origin = %q, want https://a.com", got)
	}

	req = httptest.NewRequest("GET", "/api/items", nil)
	req.Header.Set("Origin", "https://c.com")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected request to pass through, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no Allow-Origin for disallowed origin, got %q", got)
	}
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	Chain(final, mark("first"), nil, mark("second")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("Unexpected order %v", order)
	}
}
