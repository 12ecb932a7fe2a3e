// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package adapters renders an agent directory into formats other tools
// consume: a plain system prompt, a Claude Code CLAUDE.md and
// OpenAI-compatible chat completion payloads.
package adapters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jllopis/gitagent/pkg/compliance"
	"github.com/jllopis/gitagent/pkg/manifest"
	"github.com/jllopis/gitagent/pkg/skills"
)

// Identity and memory documents read from the agent directory.
const (
	SoulFile   = "SOUL.md"
	RulesFile  = "RULES.md"
	DutiesFile = "DUTIES.md"
	MemoryFile = "memory/MEMORY.md"
	IndexFile  = "knowledge/index.yaml"
)

type knowledgeIndex struct {
	Documents []knowledgeDoc `yaml:"documents"`
}

type knowledgeDoc struct {
	Path       string `yaml:"path"`
	AlwaysLoad bool   `yaml:"always_load"`
}

// agentSource is everything an adapter reads from an agent directory.
type agentSource struct {
	dir      string
	manifest *manifest.AgentManifest
	skills   []*skills.SkillSpec
}

func loadSource(dir string) (*agentSource, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(abs)
	if err != nil {
		return nil, err
	}
	loaded, err := skills.LoadDir(filepath.Join(abs, "skills"))
	if err != nil {
		return nil, err
	}
	return &agentSource{dir: abs, manifest: m, skills: loaded}, nil
}

// file returns the content of rel, or "" when it is absent.
func (s *agentSource) file(rel string) string {
	content, _ := manifest.LoadFileIfExists(filepath.Join(s.dir, filepath.FromSlash(rel)))
	return content
}

// knowledge returns the always_load documents of knowledge/index.yaml
// that exist, in index order.
func (s *agentSource) knowledge() ([]knowledgeDoc, []string, error) {
	var index knowledgeIndex
	found, err := manifest.LoadYAMLIfExists(filepath.Join(s.dir, filepath.FromSlash(IndexFile)), &index)
	if err != nil || !found {
		return nil, nil, err
	}
	var docs []knowledgeDoc
	var contents []string
	for _, doc := range index.Documents {
		if !doc.AlwaysLoad {
			continue
		}
		content := s.file(filepath.Join("knowledge", doc.Path))
		if content == "" {
			continue
		}
		docs = append(docs, doc)
		contents = append(contents, content)
	}
	return docs, contents, nil
}

// SystemPrompt renders the agent as a single system prompt: identity,
// rules, skills, always-loaded knowledge, compliance constraints and
// memory, separated by blank lines.
func SystemPrompt(dir string) (string, error) {
	src, err := loadSource(dir)
	if err != nil {
		return "", err
	}
	return src.systemPrompt()
}

func (s *agentSource) systemPrompt() (string, error) {
	m := s.manifest
	parts := []string{
		fmt.Sprintf("# %s v%s", m.Name, m.Version),
		m.Description + "\n",
	}
	for _, name := range []string{SoulFile, RulesFile, DutiesFile} {
		if content := s.file(name); content != "" {
			parts = append(parts, content)
		}
	}

	for _, sk := range s.skills {
		var b strings.Builder
		fmt.Fprintf(&b, "## Skill: %s\n%s", sk.Name, sk.Description)
		if len(sk.AllowedTools) > 0 {
			fmt.Fprintf(&b, "\nAllowed tools: %s", strings.Join(sk.AllowedTools, ", "))
		}
		b.WriteString("\n\n" + sk.Body)
		parts = append(parts, b.String())
	}

	docs, contents, err := s.knowledge()
	if err != nil {
		return "", err
	}
	for i, doc := range docs {
		parts = append(parts, fmt.Sprintf("## Knowledge: %s\n%s", doc.Path, contents[i]))
	}

	if constraints := compliance.Constraints(m); len(constraints) > 0 {
		parts = append(parts, "## Compliance Constraints\n"+strings.Join(constraints, "\n"))
	}

	if memory := s.file(MemoryFile); memory != "" && len(strings.Split(strings.TrimSpace(memory), "\n")) > 2 {
		parts = append(parts, "## Memory\n"+memory)
	}
	return strings.Join(parts, "\n\n"), nil
}

// ClaudeCode renders the agent as a CLAUDE.md project memory file.
func ClaudeCode(dir string) (string, error) {
	src, err := loadSource(dir)
	if err != nil {
		return "", err
	}
	m := src.manifest
	parts := []string{
		"# " + m.Name,
		m.Description + "\n",
	}
	for _, name := range []string{SoulFile, RulesFile} {
		if content := src.file(name); content != "" {
			parts = append(parts, content)
		}
	}

	if len(src.skills) > 0 {
		lines := []string{"## Skills\n"}
		for _, sk := range src.skills {
			lines = append(lines, "### "+sk.Name, sk.Description)
			if len(sk.AllowedTools) > 0 {
				lines = append(lines, "Allowed tools: "+strings.Join(sk.AllowedTools, ", "))
			}
			lines = append(lines, "", sk.Body, "")
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	if m.Model != nil && m.Model.Preferred != "" {
		parts = append(parts, fmt.Sprintf("<!-- Model: %s -->", m.Model.Preferred))
	}

	if c := m.Compliance; c != nil {
		parts = append(parts, strings.Join(claudeCompliance(c), "\n"))
	}

	docs, contents, err := src.knowledge()
	if err != nil {
		return "", err
	}
	for i, doc := range docs {
		parts = append(parts, fmt.Sprintf("## Reference: %s\n%s", doc.Path, contents[i]))
	}
	return strings.Join(parts, "\n\n"), nil
}

func claudeCompliance(c *manifest.Compliance) []string {
	lines := []string{"## Compliance\n"}
	if c.RiskTier != manifest.RiskTierUnspecified {
		lines = append(lines, "Risk Tier: "+strings.ToUpper(string(c.RiskTier)))
	}
	if c.Frameworks != nil {
		lines = append(lines, "Frameworks: "+strings.Join(c.Frameworks, ", "))
	}
	if c.Supervision != nil && c.Supervision.HumanInTheLoop == manifest.HITLAlways {
		lines = append(lines, "\n**All decisions require human approval.**")
	}
	if comm := c.Communications; comm != nil {
		if manifest.IsTrue(comm.FairBalanced) {
			lines = append(lines, "- All outputs must be fair and balanced (FINRA 2210)")
		}
		if manifest.IsTrue(comm.NoMisleading) {
			lines = append(lines, "- Never make misleading or exaggerated statements")
		}
	}
	if c.DataGovernance != nil && c.DataGovernance.PIIHandling == manifest.PIIRedact {
		lines = append(lines, "- Redact all PII from outputs")
	}
	if c.Recordkeeping != nil && manifest.IsTrue(c.Recordkeeping.AuditLogging) {
		lines = append(lines, "- All actions are audit-logged")
	}
	return lines
}
