// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	agenterrors "github.com/jllopis/gitagent/pkg/errors"
)

// CLIError wraps AgentError with CLI-specific formatting and hints.
type CLIError struct {
	*agenterrors.AgentError
	Hint string
}

// NewCLIError creates a new CLI error.
func NewCLIError(ae *agenterrors.AgentError, hint string) *CLIError {
	return &CLIError{
		AgentError: ae,
		Hint:       hint,
	}
}

// Error returns the formatted error message with hints.
func (e *CLIError) Error() string {
	if e.AgentError == nil {
		return "unknown error"
	}

	msg := e.AgentError.Error()
	if e.Hint != "" {
		msg += "\n  Hint: " + e.Hint
	}
	return msg
}

func (e *CLIError) Unwrap() error {
	if e.AgentError == nil {
		return nil
	}
	return e.AgentError
}

type errorPayload struct {
	Error struct {
		Code    agenterrors.ErrorCode `json:"code"`
		Message string                `json:"message"`
		Hint    string                `json:"hint,omitempty"`
	} `json:"error"`
}

// PrintError prints the error with appropriate formatting.
func (e *CLIError) PrintError(w io.Writer, asJSON bool) {
	msg := e.AgentError.Message
	if e.AgentError.Err != nil {
		msg += ": " + e.AgentError.Err.Error()
	}
	if asJSON {
		var p errorPayload
		p.Error.Code = e.AgentError.Code
		p.Error.Message = msg
		p.Error.Hint = e.Hint
		data, _ := json.Marshal(p)
		fmt.Fprintln(w, string(data))
		return
	}

	fmt.Fprintf(w, "Error [%s]: %s\n", e.AgentError.Code, msg)
	if e.Hint != "" {
		fmt.Fprintf(w, "  Hint: %s\n", e.Hint)
	}
}

// NewConfigError creates a configuration error with CLI hints.
func NewConfigError(err error, configPath string) *CLIError {
	ae := agenterrors.AsAgentError(err)
	if ae.Code == agenterrors.CodeInternal {
		ae = agenterrors.New(agenterrors.CodeInvalidInput, "configuration error", err)
	}
	ae = ae.WithContext("config_path", configPath)

	hint := "check --set values and GITAGENT_* environment variables"
	if configPath != "" {
		hint = fmt.Sprintf("check %s for syntax errors", configPath)
	}
	return NewCLIError(ae, hint)
}

// WrapAgentError attaches a hint to an error returned while loading an
// agent directory.
func WrapAgentError(err error, dir string) *CLIError {
	var ce *CLIError
	if errors.As(err, &ce) {
		return ce
	}
	ae := agenterrors.AsAgentError(err)
	var hint string
	switch ae.Code {
	case agenterrors.CodeNotFound:
		hint = fmt.Sprintf("%s has no agent.yaml; pass -d <dir> to point at an agent repository", dir)
	case agenterrors.CodeParse:
		hint = "fix the YAML syntax in agent.yaml, then run 'gitagent validate'"
	case agenterrors.CodeIO:
		hint = "check file permissions in the agent directory"
	}
	return NewCLIError(ae, hint)
}

// NewUnknownFormatError wraps an unsupported export format.
func NewUnknownFormatError(err error) *CLIError {
	return NewCLIError(agenterrors.AsAgentError(err), "run 'gitagent export --list' to see available formats")
}

// fail reports err on stderr and returns the exit code for it.
func (c *cli) fail(err error) int {
	var ce *CLIError
	if !errors.As(err, &ce) {
		var ae *agenterrors.AgentError
		if errors.As(err, &ae) {
			ce = NewCLIError(ae, "")
		} else {
			// cobra usage errors: unknown flags, bad arguments
			ce = NewCLIError(agenterrors.New(agenterrors.CodeInvalidInput, err.Error(), nil), "run 'gitagent --help' for usage information")
		}
	}
	c.metrics.RecordFailure(context.Background(), c.command, ce.AgentError)
	ce.PrintError(c.stderr, c.jsonOutput())
	if ce.AgentError.ExitCode == 0 {
		return 1
	}
	return ce.AgentError.ExitCode
}
