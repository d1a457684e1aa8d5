package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/benvon/lemonaid/internal/config"
)

func TestInitTracer(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		environment string
		endpoint    string
		wantErr     bool
	}{
		{
			name:        "valid configuration",
			serviceName: "test-service",
			environment: "development",
			endpoint:    "localhost:4318",
		},
		{
			name:        "production uses TLS",
			serviceName: "test-service",
			environment: "production",
			endpoint:    "collector.example.com:4318",
		},
		{
			name:        "default endpoint",
			serviceName: ServiceName,
			environment: "test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			tp, err := InitTracer(ctx, tt.serviceName, tt.environment, tt.endpoint)
			if (err != nil) != tt.wantErr {
				t.Errorf("InitTracer() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tp != nil {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := Shutdown(shutdownCtx, tp); err != nil {
					t.Errorf("Shutdown() error = %v", err)
				}
			}
		})
	}
}

func TestSetup_Disabled(t *testing.T) {
	tp, err := Setup(context.Background(), &config.Settings{Env: config.EnvDevelopment})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if tp != nil {
		t.Error("Expected nil provider when tracing is disabled")
	}
}

func TestSetup_Enabled(t *testing.T) {
	cfg := &config.Settings{Env: config.EnvDevelopment, OTELEnabled: true, OTELEndpoint: "localhost:4318"}
	tp, err := Setup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if tp == nil {
		t.Fatal("Expected provider when tracing is enabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Shutdown(ctx, tp); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestShutdown(t *testing.T) {
	t.Run("shutdown with nil provider", func(t *testing.T) {
		if err := Shutdown(context.Background(), nil); err != nil {
			t.Errorf("Shutdown() with nil provider should not error, got: %v", err)
		}
	})
}
