// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package validate checks a whole agent repository: agent.yaml structure
// and references, SOUL.md, hooks, tools, skills and, on request, the
// compliance rules. Each area reports into its own Section.
package validate

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jllopis/gitagent/pkg/compliance"
	agenterrors "github.com/jllopis/gitagent/pkg/errors"
	"github.com/jllopis/gitagent/pkg/skills"
)

// Status is the outcome of a section.
type Status string

const (
	StatusOK    Status = "ok"
	StatusWarn  Status = "warn"
	StatusError Status = "error"
	StatusSkip  Status = "skip"
)

// Section names.
const (
	SectionAgent      = "agent.yaml"
	SectionSoul       = "SOUL.md"
	SectionHooks      = "hooks/hooks.yaml"
	SectionSkills     = "skills/"
	SectionCompliance = "compliance"
)

// Section is the result of validating one area of the repository.
type Section struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	compliance.Result
}

func newSection(name string, f compliance.Findings) Section {
	s := Section{Name: name, Result: compliance.NewResult(f)}
	switch {
	case !s.Valid:
		s.Status = StatusError
	case f.Empty():
		s.Status = StatusOK
	default:
		s.Status = StatusWarn
	}
	return s
}

func skipped(name string) Section {
	return Section{Name: name, Status: StatusSkip, Result: compliance.NewResult(compliance.Findings{})}
}

// Report aggregates every section of a repository validation.
type Report struct {
	Dir      string    `json:"dir"`
	Sections []Section `json:"sections"`
	Valid    bool      `json:"valid"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
}

// Section returns the named section, if it ran.
func (r *Report) Section(name string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Result merges every section into a single result, in section order.
func (r *Report) Result() compliance.Result {
	var f compliance.Findings
	for _, s := range r.Sections {
		f.Merge(s.Findings())
	}
	return compliance.NewResult(f)
}

// Summary renders the overall verdict line.
func (r *Report) Summary() string {
	return r.Result().Summary()
}

func (r *Report) add(s Section) {
	r.Sections = append(r.Sections, s)
	r.Errors += len(s.Errors)
	r.Warnings += len(s.Warnings)
	if !s.Valid {
		r.Valid = false
	}
	slog.Debug("validation section done",
		"section", s.Name,
		"status", s.Status,
		"errors", len(s.Errors),
		"warnings", len(s.Warnings),
	)
}

// Options tunes a repository validation.
type Options struct {
	// Compliance adds the regulatory rule engine as a final section.
	Compliance bool
	// Engine overrides the default compliance engine.
	Engine *compliance.Engine
}

// Repository validates the agent directory dir. Problems are reported
// in the returned Report, never as Go errors; a manifest that cannot be
// loaded is reported once in the agent.yaml section and the compliance
// section is skipped.
func Repository(dir string, opts Options) *Report {
	r := &Report{Dir: dir, Valid: true}

	agentFindings, m := checkAgent(dir)
	r.add(newSection(SectionAgent, agentFindings))
	r.add(newSection(SectionSoul, checkSoul(dir)))

	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(compliance.HooksFile))); err == nil {
		r.add(newSection(SectionHooks, checkHooks(dir)))
	}
	for _, s := range checkTools(dir) {
		r.add(s)
	}
	skillsDir := filepath.Join(dir, "skills")
	if info, err := os.Stat(skillsDir); err == nil && info.IsDir() {
		r.add(newSection(SectionSkills, skills.Validate(skillsDir)))
	}

	if opts.Compliance {
		if m == nil {
			r.add(skipped(SectionCompliance))
		} else {
			engine := opts.Engine
			if engine == nil {
				engine = compliance.NewEngine()
			}
			res := engine.Evaluate(m, compliance.GatherFacts(dir))
			r.add(newSection(SectionCompliance, res.Findings()))
		}
	}
	return r
}

// describe turns a load error into a single report line.
func describe(err error) string {
	var ae *agenterrors.AgentError
	if errors.As(err, &ae) {
		if ae.Err != nil {
			return ae.Message + ": " + strings.TrimSpace(ae.Err.Error())
		}
		return ae.Message
	}
	return err.Error()
}
