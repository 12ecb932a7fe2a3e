// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compliance

import (
	"log/slog"
	"slices"

	"github.com/jllopis/gitagent/pkg/manifest"
)

// RuleGroup is one independent family of rules. Check is only called
// when the manifest has a compliance section.
type RuleGroup struct {
	ID    string
	Check func(m *manifest.AgentManifest, c *manifest.Compliance, facts Facts) Findings
}

// DefaultRuleGroups lists the built-in rule groups in evaluation order.
var DefaultRuleGroups = []RuleGroup{
	{ID: "risk-tier", Check: checkRiskTier},
	{ID: "tier-gate", Check: checkTierGate},
	{ID: "frameworks", Check: checkFrameworks},
	{ID: "artifacts", Check: checkArtifacts},
	{ID: "vendors", Check: checkVendors},
	{ID: "sod", Check: checkSoDGroup},
	{ID: "multi-agent", Check: checkMultiAgent},
}

// Engine evaluates rule groups in order and merges their findings.
type Engine struct {
	groups []RuleGroup
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRuleGroups replaces the rule groups.
func WithRuleGroups(groups ...RuleGroup) EngineOption {
	return func(e *Engine) {
		e.groups = append([]RuleGroup(nil), groups...)
	}
}

// WithLogger sets the logger used for per-group debug output.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine with the default rule groups.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		groups: slices.Clone(DefaultRuleGroups),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs every rule group against m. It is a pure function of
// its inputs: the same manifest and facts always give the same result.
func (e *Engine) Evaluate(m *manifest.AgentManifest, facts Facts) Result {
	var all Findings
	c := m.Compliance
	if c == nil {
		all.warnf("No compliance section in agent.yaml")
		return NewResult(all)
	}
	for _, g := range e.groups {
		f := g.Check(m, c, facts)
		e.logger.Debug("compliance rule group evaluated",
			"group", g.ID,
			"errors", len(f.Errors),
			"warnings", len(f.Warnings),
		)
		all.Merge(f)
	}
	return NewResult(all)
}

// Evaluate runs the default engine.
func Evaluate(m *manifest.AgentManifest, facts Facts) Result {
	return NewEngine().Evaluate(m, facts)
}

func checkRiskTier(_ *manifest.AgentManifest, c *manifest.Compliance, _ Facts) Findings {
	var f Findings
	if c.RiskTier == manifest.RiskTierUnspecified {
		f.errorf("compliance.risk_tier is required when compliance section is present")
	}
	return f
}

func checkTierGate(_ *manifest.AgentManifest, c *manifest.Compliance, _ Facts) Findings {
	var f Findings
	if !c.RiskTier.Elevated() {
		return f
	}
	hitl := manifest.HITLUnset
	if c.Supervision != nil {
		hitl = c.Supervision.HumanInTheLoop
	}
	if !hitl.Supervised() {
		got := string(hitl)
		if hitl == manifest.HITLUnset {
			got = "unset"
		}
		f.errorf(`[FINRA 3110] Risk tier "%s" requires supervision.human_in_the_loop to be "always" or "conditional", got "%s"`, c.RiskTier, got)
	}
	if c.Recordkeeping == nil || !manifest.IsTrue(c.Recordkeeping.AuditLogging) {
		f.errorf(`[FINRA 4511] Risk tier "%s" requires recordkeeping.audit_logging to be true`, c.RiskTier)
	}
	if c.ModelRisk != nil {
		switch cadence := c.ModelRisk.ValidationCadence; cadence {
		case "annual", "semi_annual":
			f.warnf(`[SR 11-7] Risk tier "%s" recommends validation_cadence of "quarterly" or more frequent, got "%s"`, c.RiskTier, cadence)
		}
	}
	return f
}

// checkFrameworks applies each distinct framework once, in listed order.
// Unknown frameworks are ignored.
func checkFrameworks(_ *manifest.AgentManifest, c *manifest.Compliance, _ Facts) Findings {
	var f Findings
	seen := make(map[string]bool, len(c.Frameworks))
	for _, name := range c.Frameworks {
		if seen[name] {
			continue
		}
		seen[name] = true
		switch name {
		case manifest.FrameworkFINRA:
			f.Merge(checkFINRA(c))
		case manifest.FrameworkFederalReserve:
			f.Merge(checkFederalReserve(c))
		case manifest.FrameworkSEC:
			f.Merge(checkSEC(c))
		case manifest.FrameworkCFPB:
			f.Merge(checkCFPB(c))
		}
	}
	return f
}

func checkFINRA(c *manifest.Compliance) Findings {
	var f Findings
	comm := c.Communications
	if comm == nil || !manifest.IsTrue(comm.FairBalanced) {
		f.errorf(`[FINRA 2210] Framework "finra" requires communications.fair_balanced to be true`)
	}
	if comm == nil || !manifest.IsTrue(comm.NoMisleading) {
		f.errorf(`[FINRA 2210] Framework "finra" requires communications.no_misleading to be true`)
	}
	if c.Supervision == nil {
		f.warnf(`[FINRA 3110] Framework "finra" recommends configuring supervision section`)
	}
	if c.Recordkeeping == nil {
		f.warnf(`[FINRA 4511] Framework "finra" recommends configuring recordkeeping section`)
	}
	return f
}

func checkFederalReserve(c *manifest.Compliance) Findings {
	var f Findings
	if c.ModelRisk == nil {
		f.errorf(`[SR 11-7] Framework "federal_reserve" requires model_risk section`)
		return f
	}
	if !manifest.IsTrue(c.ModelRisk.OngoingMonitoring) {
		f.errorf(`[SR 11-7] Framework "federal_reserve" requires model_risk.ongoing_monitoring to be true`)
	}
	return f
}

func checkSEC(c *manifest.Compliance) Findings {
	var f Findings
	if c.Recordkeeping == nil || !manifest.IsTrue(c.Recordkeeping.AuditLogging) {
		f.warnf(`[SEC 17a-4] Framework "sec" recommends audit_logging for recordkeeping compliance`)
	}
	if c.DataGovernance != nil && c.DataGovernance.PIIHandling == manifest.PIIAllow {
		f.warnf(`[Reg S-P] Framework "sec" with pii_handling "allow" may conflict with customer privacy requirements`)
	}
	return f
}

func checkCFPB(c *manifest.Compliance) Findings {
	var f Findings
	if c.DataGovernance == nil || !manifest.IsTrue(c.DataGovernance.BiasTesting) {
		f.warnf(`[CFPB] Framework "cfpb" recommends data_governance.bias_testing to be true`)
	}
	return f
}

func checkArtifacts(_ *manifest.AgentManifest, c *manifest.Compliance, facts Facts) Findings {
	var f Findings
	if !c.RiskTier.Elevated() {
		return f
	}
	artifacts := []struct {
		present bool
		path    string
	}{
		{facts.ComplianceDir, ComplianceDir + "/ directory"},
		{facts.RiskAssessment, RiskAssessmentFile},
		{facts.RegulatoryMap, RegulatoryMapFile},
		{facts.ValidationSchedule, ValidationScheduleFile},
	}
	for _, a := range artifacts {
		if !a.present {
			f.warnf("%s recommended for high/critical risk agents", a.path)
		}
	}
	return f
}

func checkVendors(m *manifest.AgentManifest, c *manifest.Compliance, _ Facts) Findings {
	var f Findings
	if len(m.Dependencies) == 0 {
		return f
	}
	if !c.HasFramework(manifest.FrameworkFINRA) && !c.HasFramework(manifest.FrameworkFederalReserve) {
		return f
	}
	for _, dep := range m.Dependencies {
		if dep.VendorManagement == nil {
			f.warnf(`[SR 23-4] Dependency "%s" has no vendor_management metadata — required for regulated agents`, dep.Name)
		}
	}
	return f
}

func checkSoDGroup(m *manifest.AgentManifest, c *manifest.Compliance, _ Facts) Findings {
	if c.SegregationOfDuties == nil {
		return Findings{}
	}
	return CheckSoD(c.SegregationOfDuties, c.RiskTier, m.Agents)
}

func checkMultiAgent(m *manifest.AgentManifest, c *manifest.Compliance, _ Facts) Findings {
	var f Findings
	if c.SegregationOfDuties == nil && m.SubAgentCount() >= 2 && c.RiskTier.Elevated() {
		f.warnf("[SOD] Multi-agent system with high/critical risk tier — consider configuring segregation_of_duties")
	}
	return f
}
