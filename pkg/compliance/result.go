// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package compliance evaluates the regulatory configuration of an agent
// manifest against FINRA, SEC, Federal Reserve SR 11-7 and CFPB rules,
// checks segregation of duties, and builds the audit report.
//
// Rule violations are plain strings carrying a bracketed rule tag such
// as "[FINRA 3110]". They are never Go errors: an evaluation always runs
// every rule group and returns the complete picture.
package compliance

import (
	"fmt"
	"strings"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Findings accumulates the output of a single rule group.
type Findings struct {
	Errors   []string
	Warnings []string
}

func (f *Findings) errorf(format string, args ...any) {
	f.Errors = append(f.Errors, fmt.Sprintf(format, args...))
}

func (f *Findings) warnf(format string, args ...any) {
	f.Warnings = append(f.Warnings, fmt.Sprintf(format, args...))
}

func (f *Findings) add(sev Severity, msg string) {
	if sev == SeverityError {
		f.Errors = append(f.Errors, msg)
		return
	}
	f.Warnings = append(f.Warnings, msg)
}

// Merge appends other after f, keeping order.
func (f *Findings) Merge(other Findings) {
	f.Errors = append(f.Errors, other.Errors...)
	f.Warnings = append(f.Warnings, other.Warnings...)
}

// Empty reports whether nothing was found.
func (f Findings) Empty() bool {
	return len(f.Errors) == 0 && len(f.Warnings) == 0
}

// Result is the outcome of a validation pass. It is valid when no
// errors were recorded; warnings never affect validity.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewResult turns accumulated findings into a Result.
func NewResult(f Findings) Result {
	r := Result{
		Errors:   append([]string{}, f.Errors...),
		Warnings: append([]string{}, f.Warnings...),
	}
	r.Valid = len(r.Errors) == 0
	return r
}

// Findings returns the result's messages as an accumulator.
func (r Result) Findings() Findings {
	return Findings{Errors: r.Errors, Warnings: r.Warnings}
}

// Summary renders the one-line validation verdict.
func (r Result) Summary() string {
	if r.Valid {
		return fmt.Sprintf("Validation passed (%d warning(s))", len(r.Warnings))
	}
	return fmt.Sprintf("Validation failed: %d error(s), %d warning(s)", len(r.Errors), len(r.Warnings))
}

// RuleTag extracts the bracketed rule identifier that prefixes msg,
// e.g. "FINRA 3110" from "[FINRA 3110] Risk tier ...". Messages without
// a tag return "".
func RuleTag(msg string) string {
	if !strings.HasPrefix(msg, "[") {
		return ""
	}
	end := strings.IndexByte(msg, ']')
	if end < 0 {
		return ""
	}
	return msg[1:end]
}
