// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	agenterrors "github.com/jllopis/gitagent/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gitagent.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults %+v", cfg.Log)
	}
	if !cfg.Output.Color || cfg.Output.JSON {
		t.Errorf("unexpected output defaults %+v", cfg.Output)
	}
	if cfg.Agent.Dir != "." {
		t.Errorf("expected agent dir '.', got %q", cfg.Agent.Dir)
	}
	if cfg.Telemetry.Enabled || cfg.Telemetry.Exporter != "stdout" || cfg.Telemetry.ServiceName != "gitagent" {
		t.Errorf("unexpected telemetry defaults %+v", cfg.Telemetry)
	}
	if cfg.Watch.Interval != time.Second {
		t.Errorf("expected 1s watch interval, got %s", cfg.Watch.Interval)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
telemetry:
  enabled: true
  exporter: otlp
  otlp_endpoint: collector:4317
watch:
  interval: 250ms
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Exporter != "otlp" || cfg.Telemetry.OTLPEndpoint != "collector:4317" {
		t.Errorf("unexpected telemetry config %+v", cfg.Telemetry)
	}
	if cfg.Watch.Interval != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.Watch.Interval)
	}
	// Untouched keys keep their defaults.
	if !cfg.Output.Color {
		t.Errorf("expected default color output")
	}
}

func TestLoadEnv(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	t.Setenv("GITAGENT_LOG_LEVEL", "error")
	t.Setenv("GITAGENT_TELEMETRY_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("GITAGENT_OUTPUT_JSON", "true")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected env to override file, got %s", cfg.Log.Level)
	}
	if cfg.Telemetry.OTLPEndpoint != "otel:4317" {
		t.Errorf("expected multi-word key from env, got %q", cfg.Telemetry.OTLPEndpoint)
	}
	if !cfg.Output.JSON {
		t.Errorf("expected output.json from env")
	}
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	t.Setenv(EnvConfigFile, writeConfig(t, "agent:\n  dir: agents/desk\n"))
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Agent.Dir != "agents/desk" {
		t.Errorf("expected dir from GITAGENT_CONFIG file, got %q", cfg.Agent.Dir)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GITAGENT_LOG_LEVEL", "error")
	overrides, err := ParseSet([]string{"log.level=debug", "output.color=false", "watch.interval=5s"})
	if err != nil {
		t.Fatalf("ParseSet failed: %v", err)
	}
	cfg, err := Load("", overrides)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected override to win over env, got %s", cfg.Log.Level)
	}
	if cfg.Output.Color {
		t.Errorf("expected color disabled")
	}
	if cfg.Watch.Interval != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.Watch.Interval)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		overrides map[string]any
		code      agenterrors.ErrorCode
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.yaml"), code: agenterrors.CodeIO},
		{name: "bad format", overrides: map[string]any{"log.format": "xml"}, code: agenterrors.CodeInvalidInput},
		{name: "bad level", overrides: map[string]any{"log.level": "loud"}, code: agenterrors.CodeInvalidInput},
		{name: "bad exporter", overrides: map[string]any{"telemetry.exporter": "zipkin"}, code: agenterrors.CodeInvalidInput},
		{name: "zero interval", overrides: map[string]any{"watch.interval": "0s"}, code: agenterrors.CodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path, tc.overrides)
			if !agenterrors.HasCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestParseSetErrors(t *testing.T) {
	for _, v := range []string{"invalid", "=value", " =x"} {
		if _, err := ParseSet([]string{v}); err == nil {
			t.Errorf("expected error for %q", v)
		}
	}
	got, err := ParseSet([]string{"agent.dir = ./desk"})
	if err != nil || got["agent.dir"] != "./desk" {
		t.Fatalf("unexpected result %v, %v", got, err)
	}
}
