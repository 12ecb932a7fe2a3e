// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/jllopis/gitagent/pkg/compliance"
	"github.com/jllopis/gitagent/pkg/manifest"
	"github.com/jllopis/gitagent/pkg/schema"
	"github.com/jllopis/gitagent/pkg/skills"
)

// checkAgent validates agent.yaml and everything it references. The
// typed manifest is returned when it decoded, even if checks failed.
func checkAgent(dir string) (compliance.Findings, *manifest.AgentManifest) {
	var f compliance.Findings

	doc, err := manifest.LoadDocument(dir)
	if err != nil {
		f.Errors = append(f.Errors, describe(err))
		return f, nil
	}
	issues, err := schema.Validate(schema.Agent, doc)
	if err != nil {
		f.Errors = append(f.Errors, fmt.Sprintf("agent.yaml schema: %v", err))
	}
	for _, is := range issues {
		f.Errors = append(f.Errors, "agent.yaml "+is.String())
	}

	m, err := manifest.Load(dir)
	if err != nil {
		f.Errors = append(f.Errors, describe(err))
		return f, nil
	}

	f.Merge(checkVersions(m))
	f.Merge(checkReferences(dir, m))
	return f, m
}

func checkVersions(m *manifest.AgentManifest) compliance.Findings {
	var f compliance.Findings
	if m.Version != "" {
		if _, err := semver.StrictNewVersion(m.Version); err != nil {
			f.Errors = append(f.Errors, fmt.Sprintf("agent.yaml version %q is not a valid semantic version", m.Version))
		}
	}
	for _, dep := range m.Dependencies {
		if dep.Version == "" {
			continue
		}
		if _, err := semver.NewConstraint(dep.Version); err != nil {
			f.Warnings = append(f.Warnings, fmt.Sprintf("Dependency %q version %q is not a valid semver constraint", dep.Name, dep.Version))
		}
	}
	return f
}

func checkReferences(dir string, m *manifest.AgentManifest) compliance.Findings {
	var f compliance.Findings
	for _, name := range m.Skills {
		skillDir := filepath.Join(dir, "skills", name)
		if !exists(skillDir) {
			f.Errors = append(f.Errors, fmt.Sprintf("Referenced skill %q not found at skills/%s/", name, name))
		} else if !exists(filepath.Join(skillDir, skills.FileName)) {
			f.Warnings = append(f.Warnings, fmt.Sprintf("Skill %q directory exists but SKILL.md is missing", name))
		}
	}
	for _, name := range m.Tools {
		if !exists(filepath.Join(dir, "tools", name+".yaml")) {
			f.Errors = append(f.Errors, fmt.Sprintf("Referenced tool %q not found at tools/%s.yaml", name, name))
		}
	}
	for _, name := range m.Agents.Keys() {
		if !exists(filepath.Join(dir, "agents", name)) && !exists(filepath.Join(dir, "agents", name+".md")) {
			f.Errors = append(f.Errors, fmt.Sprintf("Referenced agent %q not found at agents/%s/ or agents/%s.md", name, name, name))
		}
	}
	return f
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
