// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for gitagent.
//
// Rule violations found by the compliance engine are not errors in this
// sense: they are reported as strings inside a compliance.Result. This
// package covers the fatal cases, such as a missing or unparseable
// agent.yaml, that abort a command before any rule runs.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies gitagent errors for reporting and exit codes.
type ErrorCode string

const (
	// CodeInternal indicates an internal error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input (flags, formats) was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeNotFound indicates a required file or resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeParse indicates a document could not be parsed.
	CodeParse ErrorCode = "PARSE_ERROR"

	// CodeIO indicates a file could not be read or written.
	CodeIO ErrorCode = "IO_ERROR"
)

// AgentError is a typed error with context for logs and CLI output.
// It implements the error interface and can be unwrapped with errors.As().
type AgentError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
	ExitCode    int
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *AgentError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for --json output.
func (e *AgentError) MarshalJSON() ([]byte, error) {
	out := struct {
		Code        string                 `json:"code"`
		Message     string                 `json:"message"`
		Err         string                 `json:"error,omitempty"`
		Context     map[string]interface{} `json:"context,omitempty"`
		Recoverable bool                   `json:"recoverable"`
	}{
		Code:        string(e.Code),
		Message:     e.Message,
		Context:     e.Context,
		Recoverable: e.Recoverable,
	}
	if e.Err != nil {
		out.Err = e.Err.Error()
	}
	return json.Marshal(out)
}

// New creates a new AgentError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *AgentError {
	return &AgentError{
		Code:     code,
		Message:  msg,
		Err:      cause,
		Context:  make(map[string]interface{}),
		ExitCode: codeToExitCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *AgentError) WithContext(key string, value interface{}) *AgentError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *AgentError) WithRecoverable(recoverable bool) *AgentError {
	e.Recoverable = recoverable
	return e
}

// AsAgentError attempts to convert an error to an AgentError.
// Returns the error as AgentError if it is one, or wraps it otherwise.
func AsAgentError(err error) *AgentError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AgentError); ok {
		return ae
	}
	return New(CodeInternal, "wrapped error", err)
}

// HasCode reports whether err is an AgentError carrying code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if ae, ok := err.(*AgentError); ok && ae.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// codeToExitCode maps error codes to process exit codes.
func codeToExitCode(code ErrorCode) int {
	switch code {
	case CodeInvalidInput:
		return 2
	case CodeNotFound, CodeParse, CodeIO:
		return 1
	default:
		return 1
	}
}
