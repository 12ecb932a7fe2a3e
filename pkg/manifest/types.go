// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest holds the typed model of an agent definition
// (agent.yaml) and the helpers that load it from an agent directory.
//
// Every field is optional. Scalar booleans are pointers and sections are
// pointers so that "absent" stays distinguishable from "false" or empty;
// several compliance rules depend on that difference. Loading never
// injects defaults.
package manifest

// AgentManifest is the root of agent.yaml.
type AgentManifest struct {
	SpecVersion  string                `yaml:"spec_version,omitempty" json:"spec_version,omitempty"`
	Name         string                `yaml:"name" json:"name"`
	Version      string                `yaml:"version" json:"version"`
	Description  string                `yaml:"description" json:"description"`
	Author       string                `yaml:"author,omitempty" json:"author,omitempty"`
	License      string                `yaml:"license,omitempty" json:"license,omitempty"`
	Model        *ModelConfig          `yaml:"model,omitempty" json:"model,omitempty"`
	Extends      string                `yaml:"extends,omitempty" json:"extends,omitempty"`
	Dependencies []Dependency          `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Skills       []string              `yaml:"skills,omitempty" json:"skills,omitempty"`
	Tools        []string              `yaml:"tools,omitempty" json:"tools,omitempty"`
	Agents       *OrderedMap[SubAgent] `yaml:"agents,omitempty" json:"agents,omitempty"`
	Delegation   *Delegation           `yaml:"delegation,omitempty" json:"delegation,omitempty"`
	Runtime      *Runtime              `yaml:"runtime,omitempty" json:"runtime,omitempty"`
	A2A          *A2AConfig            `yaml:"a2a,omitempty" json:"a2a,omitempty"`
	Compliance   *Compliance           `yaml:"compliance,omitempty" json:"compliance,omitempty"`
	Tags         []string              `yaml:"tags,omitempty" json:"tags,omitempty"`
	Metadata     map[string]any        `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// ModelConfig holds model preferences.
type ModelConfig struct {
	Preferred   string            `yaml:"preferred,omitempty" json:"preferred,omitempty"`
	Fallback    []string          `yaml:"fallback,omitempty" json:"fallback,omitempty"`
	Constraints *ModelConstraints `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// ModelConstraints are sampling limits passed through to vendor payloads.
type ModelConstraints struct {
	Temperature      *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	MaxTokens        *int64   `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	TopP             *float64 `yaml:"top_p,omitempty" json:"top_p,omitempty"`
	TopK             *int64   `yaml:"top_k,omitempty" json:"top_k,omitempty"`
	StopSequences    []string `yaml:"stop_sequences,omitempty" json:"stop_sequences,omitempty"`
	PresencePenalty  *float64 `yaml:"presence_penalty,omitempty" json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty,omitempty" json:"frequency_penalty,omitempty"`
}

// Dependency is another agent or package mounted into this one.
type Dependency struct {
	Name             string            `yaml:"name" json:"name"`
	Source           string            `yaml:"source" json:"source"`
	Version          string            `yaml:"version,omitempty" json:"version,omitempty"`
	Mount            string            `yaml:"mount,omitempty" json:"mount,omitempty"`
	VendorManagement *DependencyVendor `yaml:"vendor_management,omitempty" json:"vendor_management,omitempty"`
}

// DependencyVendor is the per-dependency third-party risk record.
type DependencyVendor struct {
	DueDiligenceDate string `yaml:"due_diligence_date,omitempty" json:"due_diligence_date,omitempty"`
	SOCReport        *bool  `yaml:"soc_report,omitempty" json:"soc_report,omitempty"`
	RiskAssessment   string `yaml:"risk_assessment,omitempty" json:"risk_assessment,omitempty"`
}

// SubAgent describes an entry of the agents mapping.
type SubAgent struct {
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Delegation  *SubAgentDelegation `yaml:"delegation,omitempty" json:"delegation,omitempty"`
}

// SubAgentDelegation says when work is routed to a sub-agent.
type SubAgentDelegation struct {
	Mode     string   `yaml:"mode,omitempty" json:"mode,omitempty"`
	Triggers []string `yaml:"triggers,omitempty" json:"triggers,omitempty"`
}

type Delegation struct {
	Mode   string `yaml:"mode,omitempty" json:"mode,omitempty"`
	Router string `yaml:"router,omitempty" json:"router,omitempty"`
}

type Runtime struct {
	MaxTurns    int      `yaml:"max_turns,omitempty" json:"max_turns,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	Timeout     int      `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

type A2AConfig struct {
	URL            string             `yaml:"url,omitempty" json:"url,omitempty"`
	Capabilities   []string           `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Authentication *A2AAuthentication `yaml:"authentication,omitempty" json:"authentication,omitempty"`
	Protocols      []string           `yaml:"protocols,omitempty" json:"protocols,omitempty"`
}

type A2AAuthentication struct {
	Type     string `yaml:"type,omitempty" json:"type,omitempty"`
	Required *bool  `yaml:"required,omitempty" json:"required,omitempty"`
}

// SubAgentCount returns the number of declared sub-agents.
func (m *AgentManifest) SubAgentCount() int {
	if m == nil {
		return 0
	}
	return m.Agents.Len()
}

// IsTrue reports whether an optional flag is explicitly true.
func IsTrue(b *bool) bool {
	return b != nil && *b
}

// IsSet reports whether an optional flag was written at all.
func IsSet(b *bool) bool {
	return b != nil
}

// Bool returns a pointer to v. Handy for building manifests in code.
func Bool(v bool) *bool {
	return &v
}
