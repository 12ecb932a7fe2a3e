// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("permission denied")
	ae := New(CodeIO, "read agent.yaml", cause)

	if ae.Code != CodeIO {
		t.Errorf("expected CodeIO, got %v", ae.Code)
	}
	if ae.Message != "read agent.yaml" {
		t.Errorf("expected message 'read agent.yaml', got %q", ae.Message)
	}
	if ae.Err != cause {
		t.Errorf("expected cause to be preserved")
	}
	if !errors.Is(ae, cause) {
		t.Errorf("expected errors.Is to work with wrapped error")
	}
}

func TestWithContext(t *testing.T) {
	ae := New(CodeNotFound, "agent.yaml not found", nil)
	ae.WithContext("dir", "/tmp/agent").
		WithContext("file", "agent.yaml")

	if ae.Context["dir"] != "/tmp/agent" {
		t.Errorf("expected context dir to be '/tmp/agent'")
	}
	if ae.Context["file"] != "agent.yaml" {
		t.Errorf("expected context file to be set")
	}
}

func TestWithRecoverable(t *testing.T) {
	ae := New(CodeParse, "bad yaml", nil)
	if ae.Recoverable {
		t.Errorf("expected recoverable to be false by default")
	}

	ae.WithRecoverable(true)
	if !ae.Recoverable {
		t.Errorf("expected recoverable to be true after WithRecoverable")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		ae       *AgentError
		expected string
	}{
		{
			name:     "with cause",
			ae:       New(CodeParse, "parse agent.yaml", errors.New("line 3: mapping values are not allowed")),
			expected: "[PARSE_ERROR] parse agent.yaml: line 3: mapping values are not allowed",
		},
		{
			name:     "without cause",
			ae:       New(CodeNotFound, "agent.yaml not found in /x", nil),
			expected: "[NOT_FOUND] agent.yaml not found in /x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ae.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAsAgentError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "already AgentError",
			err:      New(CodeParse, "failed", nil),
			expected: CodeParse,
		},
		{
			name:     "generic error",
			err:      errors.New("generic error"),
			expected: CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := AsAgentError(tt.err)
			if tt.expected == "" {
				if ae != nil {
					t.Errorf("expected nil for nil error")
				}
			} else {
				if ae == nil {
					t.Errorf("expected non-nil AgentError")
				} else if ae.Code != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, ae.Code)
				}
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	inner := New(CodeNotFound, "agent.yaml not found", nil)
	wrapped := fmt.Errorf("load: %w", inner)

	if !HasCode(wrapped, CodeNotFound) {
		t.Errorf("expected wrapped error to carry NOT_FOUND")
	}
	if HasCode(wrapped, CodeParse) {
		t.Errorf("did not expect PARSE_ERROR")
	}
	if HasCode(nil, CodeNotFound) {
		t.Errorf("nil error has no code")
	}
}

func TestMarshalJSON(t *testing.T) {
	ae := New(CodeParse, "parse agent.yaml", errors.New("bad indent"))
	ae.WithContext("path", "agent.yaml").WithRecoverable(true)

	data, err := json.Marshal(ae)
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unexpected error unmarshaling: %v", err)
	}

	if result["code"] != "PARSE_ERROR" {
		t.Errorf("expected code 'PARSE_ERROR', got %v", result["code"])
	}
	if result["error"] != "bad indent" {
		t.Errorf("expected cause in payload, got %v", result["error"])
	}
	if result["recoverable"] != true {
		t.Errorf("expected recoverable true")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{CodeInvalidInput, 2},
		{CodeNotFound, 1},
		{CodeParse, 1},
		{CodeIO, 1},
		{CodeInternal, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			ae := New(tt.code, "test", nil)
			if ae.ExitCode != tt.expected {
				t.Errorf("expected exit code %d, got %d", tt.expected, ae.ExitCode)
			}
		})
	}
}
