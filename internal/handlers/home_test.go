package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benvon/lemonaid/internal/config"
	"go.uber.org/zap"
)

func TestHomeHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		apiKey      string
		wantKeyHint bool
	}{
		{"open api", "", false},
		{"protected api", "secret", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Settings{
				Env: config.EnvDevelopment, APIPrefix: "/api", APIKey: tt.apiKey, APIKeyHeader: "x-api-key",
			}
			w := httptest.NewRecorder()
			NewHomeHandler(cfg, zap.NewNop()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
				t.Errorf("Unexpected Content-Type %q", ct)
			}
			body := w.Body.String()
			if !strings.Contains(body, "<h1>"+AppTitle+"</h1>") {
				t.Error("Expected title in page")
			}
			if !strings.Contains(body, "development") {
				t.Error("Expected environment in page")
			}
			if got := strings.Contains(body, "x-api-key"); got != tt.wantKeyHint {
				t.Errorf("API key hint present = %v, want %v", got, tt.wantKeyHint)
			}
			if strings.Contains(body, "secret") {
				t.Error("API key leaked into page")
			}
		})
	}
}

func TestStaticHandler(t *testing.T) {
	t.Parallel()

	h := StaticHandler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/css") {
		t.Errorf("Unexpected Content-Type %q", w.Header().Get("Content-Type"))
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
