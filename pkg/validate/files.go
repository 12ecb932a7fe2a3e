// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jllopis/gitagent/pkg/compliance"
	"github.com/jllopis/gitagent/pkg/manifest"
	"github.com/jllopis/gitagent/pkg/schema"
)

// SoulFile is the agent identity document every repository must carry.
const SoulFile = "SOUL.md"

var headingLine = regexp.MustCompile(`(?m)^#.*$`)

func checkSoul(dir string) compliance.Findings {
	var f compliance.Findings
	content, ok := manifest.LoadFileIfExists(filepath.Join(dir, SoulFile))
	if !ok {
		f.Errors = append(f.Errors, "SOUL.md is required but not found")
		return f
	}
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		f.Errors = append(f.Errors, "SOUL.md is empty — must contain at least one paragraph")
	case strings.TrimSpace(headingLine.ReplaceAllString(content, "")) == "":
		f.Errors = append(f.Errors, "SOUL.md contains only headings — must contain at least one paragraph of content")
	}
	return f
}

// hookEntry is the part of a hook definition the repository check needs.
type hookEntry struct {
	Script string `yaml:"script"`
}

type hooksFile struct {
	Hooks *manifest.OrderedMap[[]hookEntry] `yaml:"hooks"`
}

func checkHooks(dir string) compliance.Findings {
	var f compliance.Findings
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(compliance.HooksFile)))
	if err != nil {
		f.Errors = append(f.Errors, fmt.Sprintf("hooks/hooks.yaml could not be read: %v", err))
		return f
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		f.Errors = append(f.Errors, "hooks/hooks.yaml is not valid YAML")
		return f
	}
	issues, err := schema.Validate(schema.Hooks, doc)
	if err != nil {
		f.Errors = append(f.Errors, fmt.Sprintf("hooks.yaml schema: %v", err))
	}
	for _, is := range issues {
		f.Errors = append(f.Errors, "hooks.yaml "+is.String())
	}

	// A shape the schema already rejected leaves nothing to resolve.
	var hooks hooksFile
	if err := yaml.Unmarshal(data, &hooks); err != nil {
		return f
	}
	for event, entries := range hooks.Hooks.All() {
		for _, entry := range entries {
			if entry.Script == "" {
				continue
			}
			if !exists(filepath.Join(dir, "hooks", entry.Script)) {
				f.Errors = append(f.Errors, fmt.Sprintf("Hook script %q for event %q not found", entry.Script, event))
			}
		}
	}
	return f
}

// checkTools reports one section per tools/*.yaml. Tool problems are
// warnings only.
func checkTools(dir string) []Section {
	toolsDir := filepath.Join(dir, "tools")
	entries, err := os.ReadDir(toolsDir)
	if err != nil {
		return nil
	}
	var out []Section
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := "tools/" + entry.Name()
		var f compliance.Findings
		data, err := os.ReadFile(filepath.Join(toolsDir, entry.Name()))
		if err != nil {
			f.Warnings = append(f.Warnings, fmt.Sprintf("%s could not be read: %v", name, err))
			out = append(out, newSection(name, f))
			continue
		}
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			f.Warnings = append(f.Warnings, name+" is not valid YAML")
			out = append(out, newSection(name, f))
			continue
		}
		issues, err := schema.Validate(schema.Tool, doc)
		if err != nil {
			f.Warnings = append(f.Warnings, fmt.Sprintf("%s schema: %v", name, err))
		}
		for _, is := range issues {
			f.Warnings = append(f.Warnings, name+" "+is.String())
		}
		out = append(out, newSection(name, f))
	}
	return out
}
