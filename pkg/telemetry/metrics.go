// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jllopis/gitagent/pkg/compliance"
	agenterrors "github.com/jllopis/gitagent/pkg/errors"
)

// untagged labels findings that carry no bracketed rule identifier.
const untagged = "none"

// ComplianceMetrics counts validation runs and findings per rule.
type ComplianceMetrics struct {
	evaluations metric.Int64Counter
	findings    metric.Int64Counter
	advisories  metric.Int64Histogram
	failures    metric.Int64Counter
}

// NewComplianceMetrics registers the instruments on the global meter
// provider.
func NewComplianceMetrics() (*ComplianceMetrics, error) {
	meter := otel.Meter("gitagent/compliance")

	evaluations, err := meter.Int64Counter(
		"gitagent.compliance.evaluations",
		metric.WithDescription("Validation runs by outcome"),
	)
	if err != nil {
		return nil, err
	}

	findings, err := meter.Int64Counter(
		"gitagent.compliance.findings",
		metric.WithDescription("Compliance findings by rule tag and severity"),
	)
	if err != nil {
		return nil, err
	}

	advisories, err := meter.Int64Histogram(
		"gitagent.audit.advisories",
		metric.WithDescription("Advisory lines per audit report"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"gitagent.command.failures",
		metric.WithDescription("Command failures by error code"),
	)
	if err != nil {
		return nil, err
	}

	return &ComplianceMetrics{
		evaluations: evaluations,
		findings:    findings,
		advisories:  advisories,
		failures:    failures,
	}, nil
}

// RecordEvaluation counts one validation run and each of its findings.
func (m *ComplianceMetrics) RecordEvaluation(ctx context.Context, r compliance.Result) {
	if m == nil {
		return
	}
	m.evaluations.Add(ctx, 1, metric.WithAttributes(attribute.Bool(AttrValid, r.Valid)))
	for _, msg := range r.Errors {
		m.RecordFinding(ctx, compliance.SeverityError, msg)
	}
	for _, msg := range r.Warnings {
		m.RecordFinding(ctx, compliance.SeverityWarning, msg)
	}
}

// RecordFinding counts a single finding under its rule tag.
func (m *ComplianceMetrics) RecordFinding(ctx context.Context, sev compliance.Severity, msg string) {
	if m == nil {
		return
	}
	tag := compliance.RuleTag(msg)
	if tag == "" {
		tag = untagged
	}
	m.findings.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrRuleTag, tag),
		attribute.String(AttrSeverity, string(sev)),
	))
}

// RecordAudit records the advisory count of an audit report.
func (m *ComplianceMetrics) RecordAudit(ctx context.Context, r *compliance.Report) {
	if m == nil || r == nil {
		return
	}
	m.advisories.Record(ctx, int64(r.Advisories()), metric.WithAttributes(
		attribute.Bool("gitagent.audit.configured", r.Configured),
	))
}

// RecordFailure counts a command that ended in err.
func (m *ComplianceMetrics) RecordFailure(ctx context.Context, command string, err error) {
	if m == nil || err == nil {
		return
	}
	code := agenterrors.AsAgentError(err).Code
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrCommand, command),
		attribute.String("error.code", string(code)),
	))
}
