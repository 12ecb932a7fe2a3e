// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compliance

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Compliance artifact paths relative to the agent directory.
const (
	ComplianceDir          = "compliance"
	RiskAssessmentFile     = "compliance/risk-assessment.md"
	RegulatoryMapFile      = "compliance/regulatory-map.yaml"
	ValidationScheduleFile = "compliance/validation-schedule.yaml"
	RulesFile              = "RULES.md"
	HooksFile              = "hooks/hooks.yaml"
)

// complianceHookMarker flags a hooks file that wires compliance hooks.
const complianceHookMarker = "compliance: true"

// Facts are the filesystem observations the rules need but cannot read
// from the manifest.
type Facts struct {
	ComplianceDir      bool `json:"compliance_dir"`
	RiskAssessment     bool `json:"risk_assessment"`
	RegulatoryMap      bool `json:"regulatory_map"`
	ValidationSchedule bool `json:"validation_schedule"`
	RulesFile          bool `json:"rules_file"`
	HooksFile          bool `json:"hooks_file"`
	ComplianceHooks    bool `json:"compliance_hooks"`
}

// GatherFacts inspects dir. Any stat or read failure counts as absent.
func GatherFacts(dir string) Facts {
	f := Facts{
		ComplianceDir:      exists(dir, ComplianceDir),
		RiskAssessment:     exists(dir, RiskAssessmentFile),
		RegulatoryMap:      exists(dir, RegulatoryMapFile),
		ValidationSchedule: exists(dir, ValidationScheduleFile),
		RulesFile:          exists(dir, RulesFile),
		HooksFile:          exists(dir, HooksFile),
	}
	if f.HooksFile {
		if data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(HooksFile))); err == nil {
			f.ComplianceHooks = strings.Contains(string(data), complianceHookMarker)
		}
	}
	slog.Debug("compliance facts gathered",
		"dir", dir,
		"compliance_dir", f.ComplianceDir,
		"hooks", f.HooksFile,
		"compliance_hooks", f.ComplianceHooks,
	)
	return f
}

func exists(dir, rel string) bool {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	return err == nil
}
