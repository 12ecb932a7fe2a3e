// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compliance

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jllopis/gitagent/pkg/manifest"
)

// LineKind tells a renderer which marker to draw.
type LineKind string

const (
	LinePass     LineKind = "pass"
	LineAdvisory LineKind = "advisory"
	LineRequired LineKind = "required"
	LineInfo     LineKind = "info"
	LineLabel    LineKind = "label"
)

// Line is a single report entry. Label lines carry a Value.
type Line struct {
	Kind  LineKind `json:"kind"`
	Text  string   `json:"text"`
	Value string   `json:"value,omitempty"`
}

// Section is one numbered block of the audit report.
type Section struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Lines  []Line `json:"lines"`
}

// Heading returns the numbered section title, e.g. "1. Risk Classification".
func (s Section) Heading() string {
	return fmt.Sprintf("%d. %s", s.Number, s.Title)
}

// Report is the informational audit of an agent. It never fails.
type Report struct {
	ID         string    `json:"id"`
	Agent      string    `json:"agent"`
	Version    string    `json:"version"`
	Date       string    `json:"date"`
	Configured bool      `json:"configured"`
	Notes      []Line    `json:"notes,omitempty"`
	Sections   []Section `json:"sections,omitempty"`
	Footer     []Line    `json:"footer,omitempty"`
}

// Advisories counts advisory and required lines across all sections.
func (r *Report) Advisories() int {
	n := 0
	for _, s := range r.Sections {
		for _, l := range s.Lines {
			if l.Kind == LineAdvisory || l.Kind == LineRequired {
				n++
			}
		}
	}
	return n
}

// BuildAuditReport renders the nine-section audit of m.
func BuildAuditReport(m *manifest.AgentManifest, facts Facts, now time.Time) *Report {
	r := &Report{
		ID:      uuid.NewString(),
		Agent:   m.Name,
		Version: m.Version,
		Date:    now.UTC().Format(time.DateOnly),
	}

	c := m.Compliance
	if c == nil {
		r.Notes = []Line{
			advisory("No compliance configuration found in agent.yaml"),
			info("Add a compliance section to enable regulatory audit checks"),
		}
		return r
	}
	r.Configured = true

	r.Sections = []Section{
		{Number: 1, Title: "Risk Classification", Lines: riskLines(c)},
		{Number: 2, Title: "Supervision (FINRA Rule 3110)", Lines: supervisionLines(c)},
		{Number: 3, Title: "Recordkeeping (FINRA Rule 4511 / SEC 17a-4)", Lines: recordkeepingLines(c)},
		{Number: 4, Title: "Model Risk Management (SR 11-7)", Lines: modelRiskLines(c)},
		{Number: 5, Title: "Data Governance (Reg S-P, CFPB)", Lines: dataGovernanceLines(c)},
		{Number: 6, Title: "Communications Compliance (FINRA Rule 2210)", Lines: communicationsLines(c)},
		{Number: 7, Title: "Vendor Management (SR 23-4)", Lines: vendorLines(m, c)},
		{Number: 8, Title: "Compliance Artifacts", Lines: artifactLines(facts)},
		{Number: 9, Title: "Audit Hooks", Lines: hookLines(facts)},
	}
	r.Footer = []Line{
		info("This audit report is for informational purposes only."),
		info("Consult with legal and compliance teams for definitive assessments."),
	}
	return r
}

// WriteText renders the report as plain text.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Compliance Audit Report\n")
	fmt.Fprintf(&b, "Agent: %s v%s\n", r.Agent, r.Version)
	fmt.Fprintf(&b, "Date: %s\n", r.Date)
	fmt.Fprintf(&b, "Report: %s\n", r.ID)
	for _, l := range r.Notes {
		writeLine(&b, l, "")
	}
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "\n%s\n", s.Heading())
		for _, l := range s.Lines {
			writeLine(&b, l, "  ")
		}
	}
	if len(r.Footer) > 0 {
		b.WriteString("\n")
		for _, l := range r.Footer {
			writeLine(&b, l, "")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeLine(b *strings.Builder, l Line, indent string) {
	if l.Kind == LineLabel {
		fmt.Fprintf(b, "%s%s: %s\n", indent, l.Text, l.Value)
		return
	}
	fmt.Fprintf(b, "%s%s %s\n", indent, Marker(l.Kind), l.Text)
}

// Marker returns the plain marker for a line kind.
func Marker(kind LineKind) string {
	switch kind {
	case LinePass:
		return "✓"
	case LineAdvisory:
		return "!"
	case LineRequired:
		return "✗"
	default:
		return "i"
	}
}

func check(text string, passed bool) Line {
	if passed {
		return Line{Kind: LinePass, Text: text}
	}
	return advisory(text)
}

func advisory(text string) Line { return Line{Kind: LineAdvisory, Text: text} }
func info(text string) Line     { return Line{Kind: LineInfo, Text: text} }

func label(text, value string) Line {
	return Line{Kind: LineLabel, Text: text, Value: value}
}

func riskLines(c *manifest.Compliance) []Line {
	tier := "UNSPECIFIED"
	if c.RiskTier != manifest.RiskTierUnspecified {
		tier = strings.ToUpper(string(c.RiskTier))
	}
	frameworks := "none"
	if len(c.Frameworks) > 0 {
		frameworks = strings.Join(c.Frameworks, ", ")
	}
	return []Line{label("Risk Tier", tier), label("Frameworks", frameworks)}
}

func supervisionLines(c *manifest.Compliance) []Line {
	s := c.Supervision
	if s == nil {
		return []Line{advisory("Supervision section not configured")}
	}
	lines := []Line{
		check("Designated supervisor assigned", s.DesignatedSupervisor != nil && *s.DesignatedSupervisor != ""),
		check("Review cadence defined", s.ReviewCadence != ""),
		check("Human-in-the-loop configured", s.HumanInTheLoop != manifest.HITLUnset && s.HumanInTheLoop != manifest.HITLNone),
		check("Escalation triggers defined", len(s.EscalationTriggers) > 0),
		check("Override capability enabled", manifest.IsTrue(s.OverrideCapability)),
		check("Kill switch enabled", manifest.IsTrue(s.KillSwitch)),
	}
	if c.RiskTier.Elevated() {
		lines = append(lines, check(`HITL is "always" or "conditional" for high/critical risk`, s.HumanInTheLoop.Supervised()))
	}
	return lines
}

func recordkeepingLines(c *manifest.Compliance) []Line {
	r := c.Recordkeeping
	if r == nil {
		return []Line{advisory("Recordkeeping section not configured")}
	}
	lines := []Line{
		check("Audit logging enabled", manifest.IsTrue(r.AuditLogging)),
		check("Log format specified", r.LogFormat != ""),
		check("Retention period defined", r.RetentionPeriod != ""),
		check("Prompt/response logging", r.Logs("prompts_and_responses")),
		check("Tool call logging", r.Logs("tool_calls")),
		check("Decision pathway logging", r.Logs("decision_pathways")),
		check("Model version tracking", r.Logs("model_version")),
		check("Timestamp logging", r.Logs("timestamps")),
		check("Immutable logs", manifest.IsTrue(r.Immutable)),
	}
	for _, w := range RetentionWarnings(c) {
		lines = append(lines, advisory(w))
	}
	return lines
}

func modelRiskLines(c *manifest.Compliance) []Line {
	mr := c.ModelRisk
	if mr == nil {
		lines := []Line{advisory("Model risk section not configured")}
		if c.HasFramework(manifest.FrameworkFederalReserve) {
			lines = append(lines, Line{Kind: LineRequired, Text: "REQUIRED: Federal Reserve framework requires model_risk section (SR 11-7)"})
		}
		return lines
	}
	return []Line{
		check("Model inventory ID assigned", mr.InventoryID != nil && *mr.InventoryID != ""),
		check("Validation cadence defined", mr.ValidationCadence != ""),
		check("Validation type specified", mr.ValidationType != ""),
		check("Conceptual soundness documented", mr.ConceptualSoundness != nil && *mr.ConceptualSoundness != ""),
		check("Ongoing monitoring enabled", manifest.IsTrue(mr.OngoingMonitoring)),
		check("Outcomes analysis enabled", manifest.IsTrue(mr.OutcomesAnalysis)),
		check("Drift detection enabled", manifest.IsTrue(mr.DriftDetection)),
	}
}

func dataGovernanceLines(c *manifest.Compliance) []Line {
	d := c.DataGovernance
	if d == nil {
		return []Line{advisory("Data governance section not configured")}
	}
	return []Line{
		check("PII handling policy defined", d.PIIHandling != ""),
		check("PII handling is restrictive", d.PIIHandling != manifest.PIIAllow),
		check("Data classification set", d.DataClassification != ""),
		check("Consent requirement configured", manifest.IsSet(d.ConsentRequired)),
		check("Cross-border assessment done", manifest.IsSet(d.CrossBorder)),
		check("Bias testing enabled", manifest.IsTrue(d.BiasTesting)),
		check("LDA search configured", manifest.IsSet(d.LDASearch)),
	}
}

func communicationsLines(c *manifest.Compliance) []Line {
	comm := c.Communications
	if comm == nil {
		lines := []Line{advisory("Communications section not configured")}
		if c.HasFramework(manifest.FrameworkFINRA) {
			lines = append(lines, advisory("Recommended: FINRA framework agents should configure communications section"))
		}
		return lines
	}
	lines := []Line{
		check("Communication type classified", comm.Type != ""),
		check("Fair and balanced enforced", manifest.IsTrue(comm.FairBalanced)),
		check("No misleading enforced", manifest.IsTrue(comm.NoMisleading)),
		check("Pre-review requirement assessed", manifest.IsSet(comm.PreReviewRequired)),
		check("Disclosure requirements assessed", manifest.IsSet(comm.DisclosuresRequired)),
	}
	if comm.Type == "retail" && !manifest.IsTrue(comm.PreReviewRequired) {
		lines = append(lines, advisory("Retail communications typically require principal pre-review (FINRA 2210(b)(1))"))
	}
	return lines
}

func vendorLines(m *manifest.AgentManifest, c *manifest.Compliance) []Line {
	v := c.VendorManagement
	switch {
	case v != nil:
		return []Line{
			check("Due diligence complete", manifest.IsTrue(v.DueDiligenceComplete)),
			check("SOC report requirement assessed", manifest.IsSet(v.SOCReportRequired)),
			check("Vendor AI notification required", manifest.IsTrue(v.VendorAINotification)),
			check("Subcontractor assessment done", manifest.IsTrue(v.SubcontractorAssessment)),
		}
	case len(m.Dependencies) > 0:
		return []Line{
			advisory("Vendor management section not configured but dependencies exist"),
			advisory("Consider adding vendor_management per SR 23-4 requirements"),
		}
	default:
		return []Line{info("No vendor dependencies — vendor management not required")}
	}
}

func artifactLines(facts Facts) []Line {
	return []Line{
		check("compliance/ directory exists", facts.ComplianceDir),
		check("regulatory-map.yaml exists", facts.RegulatoryMap),
		check("validation-schedule.yaml exists", facts.ValidationSchedule),
		check("risk-assessment.md exists", facts.RiskAssessment),
		check("RULES.md exists", facts.RulesFile),
	}
}

func hookLines(facts Facts) []Line {
	lines := []Line{check("hooks/hooks.yaml exists", facts.HooksFile)}
	if facts.HooksFile {
		lines = append(lines, check("Compliance hooks configured", facts.ComplianceHooks))
	}
	return lines
}
