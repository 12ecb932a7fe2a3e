// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import "slices"

// RiskTier is the declared severity classification of an agent.
// Values outside the known set are kept as written.
type RiskTier string

const (
	RiskTierUnspecified RiskTier = ""
	RiskTierStandard    RiskTier = "standard"
	RiskTierHigh        RiskTier = "high"
	RiskTierCritical    RiskTier = "critical"
)

// Elevated reports whether the tier is high or critical.
func (t RiskTier) Elevated() bool {
	return t == RiskTierHigh || t == RiskTierCritical
}

// HITLMode is the human-in-the-loop supervision mode.
type HITLMode string

const (
	HITLUnset       HITLMode = ""
	HITLNone        HITLMode = "none"
	HITLConditional HITLMode = "conditional"
	HITLAlways      HITLMode = "always"
)

// Supervised reports whether a human reviews agent actions at all.
func (h HITLMode) Supervised() bool {
	return h == HITLAlways || h == HITLConditional
}

// PIIHandling is the personal data policy.
type PIIHandling string

const (
	PIIAllow    PIIHandling = "allow"
	PIIRedact   PIIHandling = "redact"
	PIIProhibit PIIHandling = "prohibit"
)

// Enforcement decides whether SoD conflicts block.
type Enforcement string

const (
	EnforcementUnset    Enforcement = ""
	EnforcementStrict   Enforcement = "strict"
	EnforcementAdvisory Enforcement = "advisory"
)

// IsolationState describes how much agent state is segregated per role.
type IsolationState string

const (
	IsolationNone    IsolationState = "none"
	IsolationPartial IsolationState = "partial"
	IsolationFull    IsolationState = "full"
)

// CredentialIsolation describes whether roles share credentials.
type CredentialIsolation string

const (
	CredentialsShared   CredentialIsolation = "shared"
	CredentialsSeparate CredentialIsolation = "separate"
)

// Framework names recognised by the rule engine.
const (
	FrameworkFINRA          = "finra"
	FrameworkSEC            = "sec"
	FrameworkFederalReserve = "federal_reserve"
	FrameworkCFPB           = "cfpb"
)

// Compliance is the regulatory configuration of an agent.
type Compliance struct {
	RiskTier            RiskTier             `yaml:"risk_tier,omitempty" json:"risk_tier,omitempty"`
	Frameworks          []string             `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
	Supervision         *Supervision         `yaml:"supervision,omitempty" json:"supervision,omitempty"`
	Recordkeeping       *Recordkeeping       `yaml:"recordkeeping,omitempty" json:"recordkeeping,omitempty"`
	ModelRisk           *ModelRisk           `yaml:"model_risk,omitempty" json:"model_risk,omitempty"`
	DataGovernance      *DataGovernance      `yaml:"data_governance,omitempty" json:"data_governance,omitempty"`
	Communications      *Communications      `yaml:"communications,omitempty" json:"communications,omitempty"`
	VendorManagement    *VendorManagement    `yaml:"vendor_management,omitempty" json:"vendor_management,omitempty"`
	SegregationOfDuties *SegregationOfDuties `yaml:"segregation_of_duties,omitempty" json:"segregation_of_duties,omitempty"`
}

// HasFramework reports whether name is listed in frameworks.
func (c *Compliance) HasFramework(name string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Frameworks, name)
}

type Supervision struct {
	DesignatedSupervisor *string            `yaml:"designated_supervisor,omitempty" json:"designated_supervisor,omitempty"`
	ReviewCadence        string             `yaml:"review_cadence,omitempty" json:"review_cadence,omitempty"`
	HumanInTheLoop       HITLMode           `yaml:"human_in_the_loop,omitempty" json:"human_in_the_loop,omitempty"`
	EscalationTriggers   []*OrderedMap[any] `yaml:"escalation_triggers,omitempty" json:"escalation_triggers,omitempty"`
	OverrideCapability   *bool              `yaml:"override_capability,omitempty" json:"override_capability,omitempty"`
	KillSwitch           *bool              `yaml:"kill_switch,omitempty" json:"kill_switch,omitempty"`
}

type Recordkeeping struct {
	AuditLogging    *bool    `yaml:"audit_logging,omitempty" json:"audit_logging,omitempty"`
	LogFormat       string   `yaml:"log_format,omitempty" json:"log_format,omitempty"`
	RetentionPeriod string   `yaml:"retention_period,omitempty" json:"retention_period,omitempty"`
	LogContents     []string `yaml:"log_contents,omitempty" json:"log_contents,omitempty"`
	Immutable       *bool    `yaml:"immutable,omitempty" json:"immutable,omitempty"`
}

// Logs reports whether tag is listed in log_contents.
func (r *Recordkeeping) Logs(tag string) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.LogContents, tag)
}

type ModelRisk struct {
	InventoryID         *string `yaml:"inventory_id,omitempty" json:"inventory_id,omitempty"`
	ValidationCadence   string  `yaml:"validation_cadence,omitempty" json:"validation_cadence,omitempty"`
	ValidationType      string  `yaml:"validation_type,omitempty" json:"validation_type,omitempty"`
	ConceptualSoundness *string `yaml:"conceptual_soundness,omitempty" json:"conceptual_soundness,omitempty"`
	OngoingMonitoring   *bool   `yaml:"ongoing_monitoring,omitempty" json:"ongoing_monitoring,omitempty"`
	OutcomesAnalysis    *bool   `yaml:"outcomes_analysis,omitempty" json:"outcomes_analysis,omitempty"`
	DriftDetection      *bool   `yaml:"drift_detection,omitempty" json:"drift_detection,omitempty"`
	ParallelTesting     *bool   `yaml:"parallel_testing,omitempty" json:"parallel_testing,omitempty"`
}

type DataGovernance struct {
	PIIHandling        PIIHandling `yaml:"pii_handling,omitempty" json:"pii_handling,omitempty"`
	DataClassification string      `yaml:"data_classification,omitempty" json:"data_classification,omitempty"`
	ConsentRequired    *bool       `yaml:"consent_required,omitempty" json:"consent_required,omitempty"`
	CrossBorder        *bool       `yaml:"cross_border,omitempty" json:"cross_border,omitempty"`
	BiasTesting        *bool       `yaml:"bias_testing,omitempty" json:"bias_testing,omitempty"`
	LDASearch          *bool       `yaml:"lda_search,omitempty" json:"lda_search,omitempty"`
}

type Communications struct {
	Type                string `yaml:"type,omitempty" json:"type,omitempty"`
	PreReviewRequired   *bool  `yaml:"pre_review_required,omitempty" json:"pre_review_required,omitempty"`
	FairBalanced        *bool  `yaml:"fair_balanced,omitempty" json:"fair_balanced,omitempty"`
	NoMisleading        *bool  `yaml:"no_misleading,omitempty" json:"no_misleading,omitempty"`
	DisclosuresRequired *bool  `yaml:"disclosures_required,omitempty" json:"disclosures_required,omitempty"`
}

type VendorManagement struct {
	DueDiligenceComplete    *bool `yaml:"due_diligence_complete,omitempty" json:"due_diligence_complete,omitempty"`
	SOCReportRequired       *bool `yaml:"soc_report_required,omitempty" json:"soc_report_required,omitempty"`
	VendorAINotification    *bool `yaml:"vendor_ai_notification,omitempty" json:"vendor_ai_notification,omitempty"`
	SubcontractorAssessment *bool `yaml:"subcontractor_assessment,omitempty" json:"subcontractor_assessment,omitempty"`
}

// SegregationOfDuties declares roles, which role pairs no single agent
// may hold together, who holds which roles, and which actions need a
// multi-role handoff.
type SegregationOfDuties struct {
	Roles       []Role                `yaml:"roles,omitempty" json:"roles,omitempty"`
	Conflicts   [][]string            `yaml:"conflicts,omitempty" json:"conflicts,omitempty"`
	Assignments *OrderedMap[[]string] `yaml:"assignments,omitempty" json:"assignments,omitempty"`
	Handoffs    []Handoff             `yaml:"handoffs,omitempty" json:"handoffs,omitempty"`
	Isolation   *Isolation            `yaml:"isolation,omitempty" json:"isolation,omitempty"`
	Enforcement Enforcement           `yaml:"enforcement,omitempty" json:"enforcement,omitempty"`
}

type Role struct {
	ID          string   `yaml:"id" json:"id"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Permissions []string `yaml:"permissions,omitempty" json:"permissions,omitempty"`
}

type Handoff struct {
	Action           string   `yaml:"action" json:"action"`
	RequiredRoles    []string `yaml:"required_roles" json:"required_roles"`
	ApprovalRequired *bool    `yaml:"approval_required,omitempty" json:"approval_required,omitempty"`
}

// RequiresApproval applies the default of true when unset.
func (h Handoff) RequiresApproval() bool {
	return h.ApprovalRequired == nil || *h.ApprovalRequired
}

type Isolation struct {
	State       IsolationState      `yaml:"state,omitempty" json:"state,omitempty"`
	Credentials CredentialIsolation `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}
