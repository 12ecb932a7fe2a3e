// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package skills

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jllopis/gitagent/pkg/compliance"
	"github.com/jllopis/gitagent/pkg/schema"
)

const (
	maxNameLen          = 64
	maxDescriptionLen   = 1024
	maxInstructionChars = 20000
)

// Check applies the Agent Skills constraints to a parsed skill. Every
// message is prefixed with the skill's location, skills/<dir>/SKILL.md.
func Check(s *SkillSpec) compliance.Findings {
	var f compliance.Findings
	where := location(s.DirName())

	issues, err := schema.Validate(schema.Skill, s.Frontmatter)
	if err != nil {
		f.Errors = append(f.Errors, fmt.Sprintf("%s frontmatter %v", where, err))
	}
	for _, is := range issues {
		f.Errors = append(f.Errors, fmt.Sprintf("%s frontmatter %s", where, is))
	}

	if s.Name != s.DirName() {
		f.Warnings = append(f.Warnings, fmt.Sprintf("%s: name %q does not match directory %q", where, s.Name, s.DirName()))
	}
	if utf8.RuneCountInString(s.Name) > maxNameLen {
		f.Errors = append(f.Errors, fmt.Sprintf("%s: name exceeds %d characters", where, maxNameLen))
	}
	if strings.Contains(s.Name, "--") {
		f.Errors = append(f.Errors, where+": name contains consecutive hyphens (--)")
	}
	if strings.HasPrefix(s.Name, "-") || strings.HasSuffix(s.Name, "-") {
		f.Errors = append(f.Errors, where+": name has leading or trailing hyphen")
	}
	if utf8.RuneCountInString(s.Description) > maxDescriptionLen {
		f.Errors = append(f.Errors, fmt.Sprintf("%s: description exceeds %d characters", where, maxDescriptionLen))
	}
	if n := utf8.RuneCountInString(s.Body); n > maxInstructionChars {
		tokens := int(math.Round(float64(n) / 4))
		f.Warnings = append(f.Warnings, fmt.Sprintf(
			"%s: instructions are very long (~%d tokens). Agent Skills standard recommends <5000 tokens.", where, tokens))
	}
	return f
}

// Validate checks every skill directory under root. Unlike LoadDir, a
// SKILL.md that fails to parse is reported as an error.
func Validate(root string) compliance.Findings {
	var f compliance.Findings
	entries, err := os.ReadDir(root)
	if err != nil {
		return f
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name(), FileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		s, err := LoadFile(path)
		if err != nil {
			f.Errors = append(f.Errors, fmt.Sprintf("%s: %v", location(entry.Name()), err))
			continue
		}
		f.Merge(Check(s))
	}
	return f
}

func location(dir string) string {
	return "skills/" + dir + "/" + FileName
}
