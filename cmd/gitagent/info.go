// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jllopis/gitagent/pkg/manifest"
)

// soulPreviewLines is how much of SOUL.md info shows.
const soulPreviewLines = 5

// agentInfo is the summary printed by the info command.
type agentInfo struct {
	Manifest    *manifest.AgentManifest `json:"manifest"`
	Skills      []string                `json:"skills"`
	Tools       []string                `json:"tools"`
	SubAgents   []string                `json:"sub_agents"`
	SoulPreview []string                `json:"soul_preview,omitempty"`
	SoulMore    bool                    `json:"soul_truncated,omitempty"`
}

func (c *cli) infoCommand() *cobra.Command {
	var dirFlag string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Display an agent summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := c.agentDir(dirFlag)
			info, err := collectInfo(dir)
			if err != nil {
				return WrapAgentError(err, dir)
			}
			if c.jsonOutput() {
				return c.printJSON(info)
			}
			c.printInfo(info)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "agent directory (default: agent.dir from config)")
	return cmd
}

func collectInfo(dir string) (*agentInfo, error) {
	m, err := manifest.Load(dir)
	if err != nil {
		return nil, err
	}
	info := &agentInfo{
		Manifest:  m,
		Skills:    []string{},
		Tools:     []string{},
		SubAgents: []string{},
	}

	if entries, err := os.ReadDir(filepath.Join(dir, "skills")); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				info.Skills = append(info.Skills, e.Name())
			}
		}
	}
	if entries, err := os.ReadDir(filepath.Join(dir, "tools")); err == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
				info.Tools = append(info.Tools, strings.TrimSuffix(e.Name(), ".yaml"))
			}
		}
	}
	if entries, err := os.ReadDir(filepath.Join(dir, "agents")); err == nil {
		// directories first, then single-file agents
		var files []string
		for _, e := range entries {
			switch {
			case e.IsDir():
				info.SubAgents = append(info.SubAgents, e.Name())
			case strings.HasSuffix(e.Name(), ".md"):
				files = append(files, strings.TrimSuffix(e.Name(), ".md"))
			}
		}
		info.SubAgents = append(info.SubAgents, files...)
	}

	if data, err := os.ReadFile(filepath.Join(dir, "SOUL.md")); err == nil && len(data) > 0 {
		lines := strings.Split(string(data), "\n")
		if len(lines) > soulPreviewLines {
			info.SoulMore = true
			lines = lines[:soulPreviewLines]
		}
		info.SoulPreview = lines
	}
	return info, nil
}

func (c *cli) printInfo(info *agentInfo) {
	m := info.Manifest
	c.out.title(m.Name + " v" + m.Version)
	c.out.println("  " + m.Description)
	c.out.divider()

	if m.Author != "" {
		c.out.label("Author", m.Author)
	}
	if m.License != "" {
		c.out.label("License", m.License)
	}

	if m.Model != nil {
		c.out.title("Model")
		if m.Model.Preferred != "" {
			c.out.label("Preferred", m.Model.Preferred)
		}
		if len(m.Model.Fallback) > 0 {
			c.out.label("Fallback", strings.Join(m.Model.Fallback, ", "))
		}
		for _, kv := range constraintLabels(m.Model.Constraints) {
			c.out.label("  "+kv[0], kv[1])
		}
	}

	c.printList("Skills", info.Skills)
	c.printList("Tools", info.Tools)
	c.printList("Sub-Agents", info.SubAgents)

	if r := m.Runtime; r != nil {
		c.out.title("Runtime")
		if r.MaxTurns > 0 {
			c.out.label("Max turns", strconv.Itoa(r.MaxTurns))
		}
		if r.Temperature != nil {
			c.out.label("Temperature", formatFloat(*r.Temperature))
		}
		if r.Timeout > 0 {
			c.out.label("Timeout", strconv.Itoa(r.Timeout)+"s")
		}
	}

	if cc := m.Compliance; cc != nil {
		c.out.title("Compliance")
		if cc.RiskTier != "" {
			c.out.label("Risk Tier", strings.ToUpper(string(cc.RiskTier)))
		}
		if len(cc.Frameworks) > 0 {
			c.out.label("Frameworks", strings.Join(cc.Frameworks, ", "))
		}
		if s := cc.Supervision; s != nil {
			if s.HumanInTheLoop != "" {
				c.out.label("Human-in-the-loop", string(s.HumanInTheLoop))
			}
			if s.DesignatedSupervisor != nil && *s.DesignatedSupervisor != "" {
				c.out.label("Supervisor", *s.DesignatedSupervisor)
			}
		}
		if rk := cc.Recordkeeping; rk != nil {
			if rk.AuditLogging != nil && *rk.AuditLogging {
				c.out.label("Audit Logging", "enabled")
			}
			if rk.RetentionPeriod != "" {
				c.out.label("Retention", rk.RetentionPeriod)
			}
		}
		if mr := cc.ModelRisk; mr != nil {
			if mr.InventoryID != nil && *mr.InventoryID != "" {
				c.out.label("Model Inventory ID", *mr.InventoryID)
			}
			if mr.ValidationCadence != "" {
				c.out.label("Validation Cadence", mr.ValidationCadence)
			}
		}
		if dg := cc.DataGovernance; dg != nil {
			if dg.PIIHandling != "" {
				c.out.label("PII Handling", string(dg.PIIHandling))
			}
			if dg.DataClassification != "" {
				c.out.label("Data Classification", dg.DataClassification)
			}
		}
	}

	if len(m.Tags) > 0 {
		c.out.title("Tags")
		c.out.println("  " + strings.Join(m.Tags, ", "))
	}

	if len(info.SoulPreview) > 0 {
		c.out.title("Soul (preview)")
		for _, l := range info.SoulPreview {
			c.out.println("  " + l)
		}
		if info.SoulMore {
			c.out.println("  ...")
		}
	}
	c.out.println("")
}

func (c *cli) printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	c.out.title(title)
	for _, item := range items {
		c.out.notice("  " + item)
	}
}

// constraintLabels lists the model constraints that are set, in manifest
// field order.
func constraintLabels(mc *manifest.ModelConstraints) [][2]string {
	if mc == nil {
		return nil
	}
	var out [][2]string
	if mc.Temperature != nil {
		out = append(out, [2]string{"temperature", formatFloat(*mc.Temperature)})
	}
	if mc.MaxTokens != nil {
		out = append(out, [2]string{"max_tokens", strconv.FormatInt(*mc.MaxTokens, 10)})
	}
	if mc.TopP != nil {
		out = append(out, [2]string{"top_p", formatFloat(*mc.TopP)})
	}
	if mc.TopK != nil {
		out = append(out, [2]string{"top_k", strconv.FormatInt(*mc.TopK, 10)})
	}
	if len(mc.StopSequences) > 0 {
		out = append(out, [2]string{"stop_sequences", strings.Join(mc.StopSequences, ",")})
	}
	if mc.PresencePenalty != nil {
		out = append(out, [2]string{"presence_penalty", formatFloat(*mc.PresencePenalty)})
	}
	if mc.FrequencyPenalty != nil {
		out = append(out, [2]string{"frequency_penalty", formatFloat(*mc.FrequencyPenalty)})
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
