// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	agenterrors "github.com/jllopis/gitagent/pkg/errors"
)

// FileName is the manifest file expected at the root of an agent directory.
const FileName = "agent.yaml"

// Path returns the manifest path for an agent directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether dir contains an agent.yaml.
func Exists(dir string) bool {
	info, err := os.Stat(Path(dir))
	return err == nil && !info.IsDir()
}

// Load reads and decodes <dir>/agent.yaml.
//
// Only YAML syntax is checked. A missing file yields a NOT_FOUND error,
// an unreadable one IO_ERROR and malformed YAML PARSE_ERROR.
func Load(dir string) (*AgentManifest, error) {
	data, abs, err := read(dir)
	if err != nil {
		return nil, err
	}
	return Parse(data, abs)
}

// Parse decodes manifest bytes. source is only used in error context.
func Parse(data []byte, source string) (*AgentManifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, agenterrors.New(agenterrors.CodeParse, "agent.yaml is empty", nil).
			WithContext("path", source)
	}
	var m AgentManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, agenterrors.New(agenterrors.CodeParse, "invalid agent.yaml", err).
			WithContext("path", source)
	}
	return &m, nil
}

// LoadDocument decodes agent.yaml into generic JSON-compatible values for
// structural schema validation.
func LoadDocument(dir string) (any, error) {
	data, abs, err := read(dir)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, agenterrors.New(agenterrors.CodeParse, "invalid agent.yaml", err).
			WithContext("path", abs)
	}
	return Normalize(doc), nil
}

func read(dir string) ([]byte, string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", agenterrors.New(agenterrors.CodeInvalidInput, "invalid agent directory", err).
			WithContext("dir", dir)
	}
	path := Path(abs)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, path, agenterrors.New(agenterrors.CodeNotFound, fmt.Sprintf("agent.yaml not found in %s", abs), nil).
				WithContext("dir", abs)
		}
		return nil, path, agenterrors.New(agenterrors.CodeIO, "read agent.yaml", err).
			WithContext("path", path)
	}
	return data, path, nil
}

// LoadFileIfExists returns the file contents, or "" and false when the
// file does not exist or cannot be read.
func LoadFileIfExists(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// LoadYAMLIfExists decodes path into out when the file exists.
// It reports false without error when the file is missing.
func LoadYAMLIfExists(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, agenterrors.New(agenterrors.CodeIO, "read "+filepath.Base(path), err).
			WithContext("path", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return true, agenterrors.New(agenterrors.CodeParse, "invalid "+filepath.Base(path), err).
			WithContext("path", path)
	}
	return true, nil
}

// Normalize converts decoded YAML into values a JSON schema validator
// accepts: string-keyed maps, float64 numbers and RFC 3339 strings for
// timestamps.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
