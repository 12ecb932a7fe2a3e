// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compliance

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jllopis/gitagent/pkg/manifest"
)

// CheckSoD validates a segregation-of-duties configuration.
//
// Roles are nodes, conflicts are edges and assignments map each agent to
// a subset of nodes; the central invariant is that no agent's subset
// contains both ends of an edge. agents is the manifest's sub-agent map,
// used only for a cross-reference warning; nil means the manifest does
// not declare sub-agents.
func CheckSoD(sod *manifest.SegregationOfDuties, tier manifest.RiskTier, agents *manifest.OrderedMap[manifest.SubAgent]) Findings {
	var f Findings
	if sod == nil {
		return f
	}

	roleIDs := make([]string, 0, len(sod.Roles))
	for _, r := range sod.Roles {
		roleIDs = append(roleIDs, r.ID)
	}
	defined := make(map[string]bool, len(roleIDs))
	for _, id := range roleIDs {
		defined[id] = true
	}

	if len(sod.Roles) < 2 {
		f.errorf("[SOD] segregation_of_duties.roles must define at least 2 roles")
	}
	if len(defined) != len(roleIDs) {
		f.errorf("[SOD] segregation_of_duties.roles contains duplicate role IDs")
	}

	pairs := checkConflicts(&f, sod.Conflicts, roleIDs, defined)

	if sod.Assignments != nil {
		conflictSeverity := SeverityError
		if sod.Enforcement == manifest.EnforcementAdvisory {
			conflictSeverity = SeverityWarning
		}
		for agent, roles := range sod.Assignments.All() {
			for _, id := range roles {
				if !defined[id] {
					f.errorf(`[SOD] Agent "%s" assigned undefined role "%s"`, agent, id)
				}
			}
			for _, p := range pairs {
				if slices.Contains(roles, p[0]) && slices.Contains(roles, p[1]) {
					f.add(conflictSeverity, fmt.Sprintf(`[SOD] Agent "%s" holds conflicting roles: "%s" and "%s"`, agent, p[0], p[1]))
				}
			}
			if agents != nil && !agents.Has(agent) {
				f.warnf(`[SOD] Agent "%s" in assignments not found in agents section`, agent)
			}
		}
	}

	for _, h := range sod.Handoffs {
		distinct := make(map[string]bool, len(h.RequiredRoles))
		for _, id := range h.RequiredRoles {
			if !defined[id] {
				f.errorf(`[SOD] Handoff for "%s" references undefined role "%s"`, h.Action, id)
			}
			distinct[id] = true
		}
		if len(distinct) < 2 {
			f.errorf(`[SOD] Handoff for "%s" must require at least 2 distinct roles`, h.Action)
		}
	}

	if tier.Elevated() {
		if sod.Enforcement != manifest.EnforcementUnset && sod.Enforcement != manifest.EnforcementStrict {
			f.warnf(`[SOD] Risk tier "%s" recommends enforcement: "strict", got "%s"`, tier, sod.Enforcement)
		}
		if sod.Isolation == nil || sod.Isolation.State != manifest.IsolationFull {
			f.warnf(`[SOD] Risk tier "%s" recommends isolation.state: "full" for full state segregation`, tier)
		}
		if sod.Isolation == nil || sod.Isolation.Credentials != manifest.CredentialsSeparate {
			f.warnf(`[SOD] Risk tier "%s" recommends isolation.credentials: "separate"`, tier)
		}
	}

	if len(sod.Conflicts) == 0 {
		f.warnf("[SOD] No conflicts defined — segregation_of_duties without conflict rules has no enforcement value")
	}

	if sod.Assignments != nil && len(sod.Roles) > 0 {
		assigned := make(map[string]bool)
		for _, roles := range sod.Assignments.All() {
			for _, id := range roles {
				assigned[id] = true
			}
		}
		for _, id := range roleIDs {
			if !assigned[id] {
				f.warnf(`[SOD] Role "%s" is defined but not assigned to any agent`, id)
			}
		}
	}

	return f
}

// checkConflicts validates conflict pairs and returns the well-formed
// ones for assignment checks.
func checkConflicts(f *Findings, conflicts [][]string, roleIDs []string, defined map[string]bool) [][2]string {
	var pairs [][2]string
	for _, pair := range conflicts {
		for _, id := range pair {
			if !defined[id] {
				f.errorf(`[SOD] Conflict references undefined role "%s". Defined roles: %s`, id, strings.Join(roleIDs, ", "))
			}
		}
		if len(pair) != 2 {
			f.errorf(`[SOD] Conflict [%s] must name exactly 2 roles, got %d`, strings.Join(pair, ", "), len(pair))
			continue
		}
		if pair[0] == pair[1] {
			f.errorf(`[SOD] Role "%s" cannot conflict with itself`, pair[0])
		}
		pairs = append(pairs, [2]string{pair[0], pair[1]})
	}
	return pairs
}
