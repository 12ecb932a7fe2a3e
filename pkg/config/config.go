// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads gitagent CLI settings. Sources are layered, later
// ones winning: built-in defaults, an optional YAML file, GITAGENT_*
// environment variables and finally command-line overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	agenterrors "github.com/jllopis/gitagent/pkg/errors"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "GITAGENT_"

// EnvConfigFile names the config file when --config is not given.
const EnvConfigFile = EnvPrefix + "CONFIG"

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Output    OutputConfig    `koanf:"output"`
	Agent     AgentConfig     `koanf:"agent"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Watch     WatchConfig     `koanf:"watch"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type OutputConfig struct {
	Color bool `koanf:"color"`
	JSON  bool `koanf:"json"`
}

type AgentConfig struct {
	Dir string `koanf:"dir"`
}

type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
	ServiceName  string `koanf:"service_name"`
}

type WatchConfig struct {
	Interval time.Duration `koanf:"interval"`
}

func setDefaults(k *koanf.Koanf) {
	k.Set("log.level", "warn")
	k.Set("log.format", "text")
	k.Set("output.color", true)
	k.Set("output.json", false)
	k.Set("agent.dir", ".")
	k.Set("telemetry.enabled", false)
	k.Set("telemetry.exporter", "stdout")
	k.Set("telemetry.otlp_endpoint", "localhost:4317")
	k.Set("telemetry.otlp_insecure", true)
	k.Set("telemetry.service_name", "gitagent")
	k.Set("watch.interval", "1s")
}

// Load builds the configuration. path names a YAML file; when empty the
// GITAGENT_CONFIG variable is consulted and, failing that, no file is
// read. overrides holds dotted keys set from the command line.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")
	setDefaults(k)

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, agenterrors.New(agenterrors.CodeIO, "load config file", err).
				WithContext("path", path)
		}
	}

	// GITAGENT_TELEMETRY_OTLP_ENDPOINT -> telemetry.otlp_endpoint
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, agenterrors.New(agenterrors.CodeInvalidInput, "apply override "+key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, agenterrors.New(agenterrors.CodeInvalidInput, "decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps an environment variable onto a config key. Only the first
// underscore separates the section, so multi-word keys survive.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate rejects values the CLI cannot act on.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format", c.Log.Format, "text or json")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", c.Log.Level, "debug, info, warn or error")
	}
	switch c.Telemetry.Exporter {
	case "stdout", "otlp":
	default:
		return invalid("telemetry.exporter", c.Telemetry.Exporter, "stdout or otlp")
	}
	if c.Watch.Interval <= 0 {
		return invalid("watch.interval", c.Watch.Interval.String(), "a positive duration")
	}
	return nil
}

func invalid(key, value, want string) error {
	return agenterrors.New(agenterrors.CodeInvalidInput,
		fmt.Sprintf("invalid %s %q: expected %s", key, value, want), nil).
		WithContext("key", key)
}

// ParseSet turns repeated key=value arguments (as given to --set) into
// an override map.
func ParseSet(values []string) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, agenterrors.New(agenterrors.CodeInvalidInput,
				fmt.Sprintf("invalid override %q: expected key=value", v), nil)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
