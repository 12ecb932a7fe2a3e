// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry provides OpenTelemetry integration for gitagent
// commands: providers, trace-aware logging and compliance metrics.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for gitagent spans and metrics.
const (
	// Agent attributes
	AttrAgentName    = "gitagent.agent.name"
	AttrAgentVersion = "gitagent.agent.version"
	AttrAgentDir     = "gitagent.agent.dir"

	// Compliance attributes
	AttrRiskTier    = "gitagent.compliance.risk_tier"
	AttrFrameworks  = "gitagent.compliance.frameworks"
	AttrRuleTag     = "gitagent.compliance.rule"
	AttrSeverity    = "gitagent.compliance.severity"
	AttrValid       = "gitagent.compliance.valid"
	AttrErrorCount  = "gitagent.compliance.errors"
	AttrWarnCount   = "gitagent.compliance.warnings"
	AttrAdvisories  = "gitagent.audit.advisories"
	AttrAuditReport = "gitagent.audit.id"

	// Command attributes
	AttrCommand      = "gitagent.command"
	AttrSection      = "gitagent.validate.section"
	AttrExportFormat = "gitagent.export.format"
)

// AgentAttributes describes the agent a command operates on.
func AgentAttributes(name, version, dir string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrAgentDir, dir),
	}
	if name != "" {
		attrs = append(attrs, attribute.String(AttrAgentName, name))
	}
	if version != "" {
		attrs = append(attrs, attribute.String(AttrAgentVersion, version))
	}
	return attrs
}

// ComplianceAttributes describes the regulatory scope of an agent.
func ComplianceAttributes(riskTier string, frameworks []string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	if riskTier != "" {
		attrs = append(attrs, attribute.String(AttrRiskTier, riskTier))
	}
	if len(frameworks) > 0 {
		attrs = append(attrs, attribute.StringSlice(AttrFrameworks, frameworks))
	}
	return attrs
}

// ResultAttributes summarizes a validation outcome.
func ResultAttributes(valid bool, errors, warnings int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(AttrValid, valid),
		attribute.Int(AttrErrorCount, errors),
		attribute.Int(AttrWarnCount, warnings),
	}
}

// AuditAttributes identifies an audit report.
func AuditAttributes(reportID string, advisories int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAuditReport, reportID),
		attribute.Int(AttrAdvisories, advisories),
	}
}
