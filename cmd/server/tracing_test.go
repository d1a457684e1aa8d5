package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benvon/lemonaid/internal/database"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

// Not parallel: installs the global tracer provider and propagator.
func TestHandler_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})

	h := newHandler(testSettings(), zap.NewNop(), dependencies{items: database.NewMemoryItemStore(), tracing: true})

	const incomingTrace = "4bf92f3577b34da6a3ce929d0e0e4736"

	tests := []struct {
		name        string
		withKey     bool
		traceParent string
		wantStatus  int
		wantSpans   int
		wantTraceID string
	}{
		{
			name:       "new trace for routed request",
			withKey:    true,
			wantStatus: http.StatusOK,
			wantSpans:  1,
		},
		{
			name:        "joins incoming trace",
			withKey:     true,
			traceParent: "00-" + incomingTrace + "-00f067aa0ba902b7-01",
			wantStatus:  http.StatusOK,
			wantSpans:   1,
			wantTraceID: incomingTrace,
		},
		{
			name:       "rejected before routing",
			wantStatus: http.StatusUnauthorized,
			wantSpans:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter.Reset()

			req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
			if tt.withKey {
				req.Header.Set("x-api-key", "secret")
			}
			if tt.traceParent != "" {
				req.Header.Set("traceparent", tt.traceParent)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if err := tp.ForceFlush(context.Background()); err != nil {
				t.Fatalf("ForceFlush() error = %v", err)
			}

			spans := exporter.GetSpans()
			if len(spans) != tt.wantSpans {
				t.Fatalf("Expected %d spans, got %d", tt.wantSpans, len(spans))
			}
			if tt.wantSpans == 0 {
				return
			}
			span := spans[0]
			if !span.SpanContext.TraceID().IsValid() {
				t.Error("Expected valid trace ID in span")
			}
			if !strings.Contains(span.Name, "/api/items") {
				t.Errorf("Expected span named after the route, got %q", span.Name)
			}
			if tt.wantTraceID != "" && span.SpanContext.TraceID().String() != tt.wantTraceID {
				t.Errorf("Expected span to join trace %s, got %s", tt.wantTraceID, span.SpanContext.TraceID())
			}
		})
	}
}
