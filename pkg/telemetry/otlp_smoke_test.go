// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"os"
	"testing"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/jllopis/gitagent/pkg/compliance"
)

func TestOTLPSmoke(t *testing.T) {
	if os.Getenv("GITAGENT_OTLP_SMOKE_TEST") != "1" {
		t.Skip("set GITAGENT_OTLP_SMOKE_TEST=1 to run")
	}

	endpoint := os.Getenv("GITAGENT_TELEMETRY_OTLP_ENDPOINT")
	if endpoint == "" {
		t.Skip("set GITAGENT_TELEMETRY_OTLP_ENDPOINT for OTLP smoke test")
	}

	cfg := Config{
		ServiceName:  "gitagent-smoke-test",
		Exporter:     "otlp",
		OTLPEndpoint: endpoint,
		OTLPInsecure: os.Getenv("GITAGENT_TELEMETRY_OTLP_INSECURE") == "true",
		OTLPTimeout:  5 * time.Second,
	}
	shutdown, err := Init(context.Background(), "v0.0.0", cfg)
	if err != nil {
		t.Fatalf("failed to init telemetry: %v", err)
	}

	ctx, span := otel.Tracer("gitagent/telemetry-smoke").Start(context.Background(), "smoke.span")
	span.SetAttributes(AgentAttributes("smoke", "0.0.0", ".")...)
	span.End()

	metrics, err := NewComplianceMetrics()
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	metrics.RecordEvaluation(ctx, compliance.Result{
		Valid:    false,
		Errors:   []string{"[FINRA 3110] smoke"},
		Warnings: []string{"smoke warning"},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("telemetry shutdown failed: %v", err)
	}
}
