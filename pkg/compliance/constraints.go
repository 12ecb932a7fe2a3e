// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compliance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jllopis/gitagent/pkg/manifest"
)

// Constraints renders the compliance configuration as natural-language
// instructions for a system prompt, one line per entry. It returns nil
// when nothing applies.
func Constraints(m *manifest.AgentManifest) []string {
	c := m.Compliance
	if c == nil {
		return nil
	}
	var out []string

	if s := c.Supervision; s != nil {
		if s.HumanInTheLoop == manifest.HITLAlways {
			out = append(out, "- All decisions require human approval before execution")
		}
		if s.EscalationTriggers != nil {
			out = append(out, "- Escalate to human supervisor when:")
			for _, trigger := range s.EscalationTriggers {
				for key, value := range trigger.All() {
					out = append(out, fmt.Sprintf("  - %s: %s", key, formatValue(value)))
				}
			}
		}
	}
	if comm := c.Communications; comm != nil {
		if manifest.IsTrue(comm.FairBalanced) {
			out = append(out, "- All communications must be fair and balanced (FINRA 2210)")
		}
		if manifest.IsTrue(comm.NoMisleading) {
			out = append(out, "- Never make misleading, exaggerated, or promissory statements")
		}
	}
	if dg := c.DataGovernance; dg != nil {
		switch dg.PIIHandling {
		case manifest.PIIRedact:
			out = append(out, "- Redact all PII from outputs and intermediate reasoning")
		case manifest.PIIProhibit:
			out = append(out, "- Do not process any personally identifiable information")
		}
	}
	if sod := c.SegregationOfDuties; sod != nil {
		out = append(out, sodConstraints(sod)...)
	}
	return out
}

func sodConstraints(sod *manifest.SegregationOfDuties) []string {
	out := []string{"- Segregation of duties is enforced:"}
	for agent, roles := range sod.Assignments.All() {
		out = append(out, fmt.Sprintf(`  - Agent "%s" has role(s): %s`, agent, strings.Join(roles, ", ")))
	}
	if sod.Conflicts != nil {
		out = append(out, "- Duty separation rules (no single agent may hold both):")
		for _, pair := range sod.Conflicts {
			out = append(out, "  - "+strings.Join(pair, " and "))
		}
	}
	if sod.Handoffs != nil {
		out = append(out, "- The following actions require multi-agent handoff:")
		for _, h := range sod.Handoffs {
			line := fmt.Sprintf("  - %s: must pass through roles %s", h.Action, strings.Join(h.RequiredRoles, " → "))
			if h.RequiresApproval() {
				line += " (approval required)"
			}
			out = append(out, line)
		}
	}
	if iso := sod.Isolation; iso != nil {
		if iso.State == manifest.IsolationFull {
			out = append(out, "- Agent state/memory is fully isolated per role — do not access another agent's state")
		}
		if iso.Credentials == manifest.CredentialsSeparate {
			out = append(out, "- Credentials are segregated per role — use only credentials assigned to your role")
		}
	}
	if sod.Enforcement == manifest.EnforcementStrict {
		out = append(out, "- SOD enforcement is STRICT — violations will block execution")
	}
	return out
}

// formatValue prints trigger values the way they read in YAML: lists
// comma-joined, maps as sorted key=value pairs.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatValue(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + formatValue(t[k])
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}
