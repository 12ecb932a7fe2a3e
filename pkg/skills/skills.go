// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package skills loads Agent Skills (skills/<name>/SKILL.md) and checks
// them against the Agent Skills naming and size constraints.
package skills

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the skill definition expected inside each skill directory.
const FileName = "SKILL.md"

// SkillSpec is a parsed SKILL.md.
type SkillSpec struct {
	Name          string
	Description   string
	License       string
	Compatibility string
	Metadata      map[string]string
	AllowedTools  []string
	// Body holds the instructions below the frontmatter, trimmed.
	Body string
	Path string
	Dir  string
	// Frontmatter is the raw decoded header, kept for schema checks.
	Frontmatter map[string]any

	HasScripts    bool
	HasReferences bool
	HasAssets     bool
	HasAgents     bool
}

// DirName returns the name of the directory holding the skill.
func (s *SkillSpec) DirName() string {
	return filepath.Base(s.Dir)
}

// LoadDir parses every <root>/<name>/SKILL.md in directory order.
// Skills that fail to parse are skipped; a missing root yields nothing.
func LoadDir(root string) ([]*SkillSpec, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []*SkillSpec
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillPath := filepath.Join(root, entry.Name(), FileName)
		if _, err := os.Stat(skillPath); err != nil {
			continue
		}
		skill, err := LoadFile(skillPath)
		if err != nil {
			slog.Debug("skill skipped", "path", skillPath, "error", err)
			continue
		}
		out = append(out, skill)
	}
	return out, nil
}

// LoadFile parses a single SKILL.md file. The frontmatter must be
// present and must carry name and description; everything else is
// left to Check.
func LoadFile(path string) (*SkillSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	header, body, ok := splitFrontmatter(string(data))
	if !ok {
		return nil, fmt.Errorf("SKILL.md at %s is missing YAML frontmatter (---)", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(header), &raw); err != nil {
		return nil, fmt.Errorf("SKILL.md at %s has invalid frontmatter: %w", path, err)
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, fmt.Errorf("SKILL.md at %s has invalid frontmatter: %w", path, err)
	}
	if strings.TrimSpace(fm.Name) == "" || strings.TrimSpace(fm.Description) == "" {
		return nil, fmt.Errorf("SKILL.md at %s is missing required fields: name, description", path)
	}
	allowed, err := normalizeAllowedTools(fm.AllowedTools)
	if err != nil {
		return nil, fmt.Errorf("SKILL.md at %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	return &SkillSpec{
		Name:          fm.Name,
		Description:   fm.Description,
		License:       fm.License,
		Compatibility: fm.Compatibility,
		Metadata:      fm.Metadata,
		AllowedTools:  allowed,
		Body:          body,
		Path:          path,
		Dir:           dir,
		Frontmatter:   raw,
		HasScripts:    isDir(dir, "scripts"),
		HasReferences: isDir(dir, "references"),
		HasAssets:     isDir(dir, "assets"),
		HasAgents:     isDir(dir, "agents"),
	}, nil
}

type frontmatter struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	License       string            `yaml:"license"`
	Compatibility string            `yaml:"compatibility"`
	Metadata      map[string]string `yaml:"metadata"`
	AllowedTools  any               `yaml:"allowed-tools"`
}

// splitFrontmatter separates a leading "---" block from the body. The
// header ends at the first line starting with "---".
func splitFrontmatter(content string) (string, string, bool) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return "", "", false
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", "", false
	}
	return rest[:end], strings.TrimSpace(rest[end+len("\n---"):]), true
}

func isDir(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}

// normalizeAllowedTools accepts the space-delimited string form and,
// leniently, a YAML list.
func normalizeAllowedTools(value any) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case string:
		return dedupe(strings.Fields(sanitizeAllowed(v))), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, errors.New("allowed-tools must be string list")
			}
			out = append(out, sanitizeAllowed(strings.TrimSpace(str)))
		}
		return dedupe(out), nil
	default:
		return nil, errors.New("allowed-tools must be string or list")
	}
}

// sanitizeAllowed closes up stray spaces inside tool patterns such as
// "Bash(pdf:* )".
func sanitizeAllowed(input string) string {
	replacer := strings.NewReplacer(
		"( ", "(",
		" )", ")",
		": ", ":",
		" :", ":",
	)
	return replacer.Replace(input)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
