// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compliance

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jllopis/gitagent/pkg/manifest"
)

func parse(t *testing.T, doc string) *manifest.AgentManifest {
	t.Helper()
	m, err := manifest.Parse([]byte(doc), "test")
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	return m
}

func TestEvaluateWithoutCompliance(t *testing.T) {
	got := Evaluate(parse(t, "name: plain\nversion: 1.0.0\n"), Facts{})
	want := Result{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{"No compliance section in agent.yaml"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateAllGroups(t *testing.T) {
	m := parse(t, `name: desk
version: 1.0.0
agents:
  a: {}
  b: {}
dependencies:
  - name: dep-a
    source: github.com/acme/a
  - name: dep-b
    source: github.com/acme/b
    vendor_management:
      soc_report: true
compliance:
  risk_tier: high
  frameworks: [finra, sec, cfpb, federal_reserve, finra, fdic]
  supervision:
    human_in_the_loop: none
  model_risk:
    validation_cadence: annual
  data_governance:
    pii_handling: allow
`)

	got := Evaluate(m, Facts{})

	wantErrors := []string{
		`[FINRA 3110] Risk tier "high" requires supervision.human_in_the_loop to be "always" or "conditional", got "none"`,
		`[FINRA 4511] Risk tier "high" requires recordkeeping.audit_logging to be true`,
		`[FINRA 2210] Framework "finra" requires communications.fair_balanced to be true`,
		`[FINRA 2210] Framework "finra" requires communications.no_misleading to be true`,
		`[SR 11-7] Framework "federal_reserve" requires model_risk.ongoing_monitoring to be true`,
	}
	wantWarnings := []string{
		`[SR 11-7] Risk tier "high" recommends validation_cadence of "quarterly" or more frequent, got "annual"`,
		`[FINRA 4511] Framework "finra" recommends configuring recordkeeping section`,
		`[SEC 17a-4] Framework "sec" recommends audit_logging for recordkeeping compliance`,
		`[Reg S-P] Framework "sec" with pii_handling "allow" may conflict with customer privacy requirements`,
		`[CFPB] Framework "cfpb" recommends data_governance.bias_testing to be true`,
		"compliance/ directory recommended for high/critical risk agents",
		"compliance/risk-assessment.md recommended for high/critical risk agents",
		"compliance/regulatory-map.yaml recommended for high/critical risk agents",
		"compliance/validation-schedule.yaml recommended for high/critical risk agents",
		`[SR 23-4] Dependency "dep-a" has no vendor_management metadata — required for regulated agents`,
		"[SOD] Multi-agent system with high/critical risk tier — consider configuring segregation_of_duties",
	}

	if got.Valid {
		t.Fatalf("expected invalid result")
	}
	if diff := cmp.Diff(wantErrors, got.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantWarnings, got.Warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateMissingRiskTier(t *testing.T) {
	m := parse(t, "name: a\ncompliance:\n  frameworks: [unknown]\n")
	got := Evaluate(m, Facts{})
	want := []string{"compliance.risk_tier is required when compliance section is present"}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if len(got.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", got.Warnings)
	}
}

func TestTierGateUnsetSupervision(t *testing.T) {
	m := parse(t, "name: a\ncompliance:\n  risk_tier: critical\n")
	f := checkTierGate(m, m.Compliance, Facts{})
	want := []string{
		`[FINRA 3110] Risk tier "critical" requires supervision.human_in_the_loop to be "always" or "conditional", got "unset"`,
		`[FINRA 4511] Risk tier "critical" requires recordkeeping.audit_logging to be true`,
	}
	if diff := cmp.Diff(want, f.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestScenarioCriticalTierSatisfied(t *testing.T) {
	m := parse(t, `name: a
compliance:
  risk_tier: critical
  supervision:
    human_in_the_loop: always
  recordkeeping:
    audit_logging: true
`)
	f := checkTierGate(m, m.Compliance, Facts{})
	if len(f.Errors) != 0 {
		t.Fatalf("expected no tier-gate errors, got %v", f.Errors)
	}
}

func TestScenarioFederalReserveWithoutModelRisk(t *testing.T) {
	m := parse(t, "name: a\ncompliance:\n  risk_tier: standard\n  frameworks: [federal_reserve]\n")

	got := Evaluate(m, Facts{})
	want := []string{`[SR 11-7] Framework "federal_reserve" requires model_risk section`}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestFINRASatisfied(t *testing.T) {
	m := parse(t, `name: a
compliance:
  risk_tier: standard
  frameworks: [finra]
  supervision: {}
  recordkeeping: {}
  communications:
    fair_balanced: true
    no_misleading: true
`)
	got := Evaluate(m, Facts{})
	if !got.Valid || len(got.Warnings) != 0 {
		t.Fatalf("expected clean result, got %+v", got)
	}
}

func TestArtifactsPresent(t *testing.T) {
	m := parse(t, `name: a
compliance:
  risk_tier: high
  supervision: {human_in_the_loop: conditional}
  recordkeeping: {audit_logging: true}
`)
	facts := Facts{ComplianceDir: true, RiskAssessment: true, RegulatoryMap: true, ValidationSchedule: true}
	got := Evaluate(m, facts)
	if !got.Valid || len(got.Warnings) != 0 {
		t.Fatalf("expected clean result, got %+v", got)
	}
}

func TestVendorCheckNeedsRegulatedFramework(t *testing.T) {
	m := parse(t, `name: a
dependencies:
  - name: dep
    source: x
compliance:
  risk_tier: standard
  frameworks: [sec]
  recordkeeping: {audit_logging: true}
`)
	got := Evaluate(m, Facts{})
	if len(got.Warnings) != 0 {
		t.Fatalf("expected no vendor warning for sec-only agent, got %v", got.Warnings)
	}
}

func TestEngineCustomGroups(t *testing.T) {
	m := parse(t, "name: a\ncompliance:\n  risk_tier: standard\n")
	called := 0
	e := NewEngine(WithRuleGroups(RuleGroup{
		ID: "custom",
		Check: func(_ *manifest.AgentManifest, _ *manifest.Compliance, _ Facts) Findings {
			called++
			var f Findings
			f.warnf("[CUSTOM] looked at it")
			return f
		},
	}))
	got := e.Evaluate(m, Facts{})
	if called != 1 || !got.Valid || len(got.Warnings) != 1 {
		t.Fatalf("unexpected result %+v (called %d)", got, called)
	}
}

func TestResultSummary(t *testing.T) {
	tests := []struct {
		result Result
		want   string
	}{
		{NewResult(Findings{Warnings: []string{"w"}}), "Validation passed (1 warning(s))"},
		{NewResult(Findings{Errors: []string{"e1", "e2"}}), "Validation failed: 2 error(s), 0 warning(s)"},
	}
	for _, tt := range tests {
		if got := tt.result.Summary(); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}

func TestRuleTag(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{msg: `[FINRA 3110] Risk tier "high" requires`, want: "FINRA 3110"},
		{msg: "[SOD] No conflicts defined", want: "SOD"},
		{msg: "compliance/ directory recommended", want: ""},
		{msg: "[unterminated", want: ""},
	}
	for _, tt := range tests {
		if got := RuleTag(tt.msg); got != tt.want {
			t.Errorf("RuleTag(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
