// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compliance

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConstraints(t *testing.T) {
	m := parse(t, `name: desk
compliance:
  risk_tier: high
  supervision:
    human_in_the_loop: always
    escalation_triggers:
      - confidence_below: 0.7
      - action_type: trade
        symbols: [AAPL, MSFT]
  communications:
    fair_balanced: true
    no_misleading: true
  data_governance:
    pii_handling: redact
  segregation_of_duties:
    roles:
      - id: maker
      - id: checker
    conflicts:
      - [maker, checker]
    assignments:
      drafter: [maker]
      reviewer: [checker]
    handoffs:
      - action: publish
        required_roles: [maker, checker]
      - action: archive
        required_roles: [maker, checker]
        approval_required: false
    isolation:
      state: full
      credentials: separate
    enforcement: strict
`)

	want := []string{
		"- All decisions require human approval before execution",
		"- Escalate to human supervisor when:",
		"  - confidence_below: 0.7",
		"  - action_type: trade",
		"  - symbols: AAPL,MSFT",
		"- All communications must be fair and balanced (FINRA 2210)",
		"- Never make misleading, exaggerated, or promissory statements",
		"- Redact all PII from outputs and intermediate reasoning",
		"- Segregation of duties is enforced:",
		`  - Agent "drafter" has role(s): maker`,
		`  - Agent "reviewer" has role(s): checker`,
		"- Duty separation rules (no single agent may hold both):",
		"  - maker and checker",
		"- The following actions require multi-agent handoff:",
		"  - publish: must pass through roles maker → checker (approval required)",
		"  - archive: must pass through roles maker → checker",
		"- Agent state/memory is fully isolated per role — do not access another agent's state",
		"- Credentials are segregated per role — use only credentials assigned to your role",
		"- SOD enforcement is STRICT — violations will block execution",
	}
	if diff := cmp.Diff(want, Constraints(m)); diff != "" {
		t.Fatalf("constraints mismatch (-want +got):\n%s", diff)
	}
}

func TestConstraintsEmpty(t *testing.T) {
	if got := Constraints(parse(t, "name: a\n")); got != nil {
		t.Fatalf("expected nil without compliance, got %v", got)
	}
	if got := Constraints(parse(t, "name: a\ncompliance:\n  risk_tier: standard\n  data_governance:\n    pii_handling: allow\n")); got != nil {
		t.Fatalf("expected nil when nothing applies, got %v", got)
	}
}
