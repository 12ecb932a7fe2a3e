// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/gitagent/pkg/compliance"
	agenterrors "github.com/jllopis/gitagent/pkg/errors"
	"github.com/jllopis/gitagent/pkg/manifest"
	"github.com/jllopis/gitagent/pkg/telemetry"
)

type auditFlags struct {
	Dir    string
	Output string
}

func (c *cli) auditCommand() *cobra.Command {
	var flags auditFlags
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Generate a compliance audit report",
		Long: `Audit renders a nine-section regulatory report for the agent. The
report is informational: the command succeeds whenever agent.yaml loads.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runAudit(cmd.Context(), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.Dir, "dir", "d", "", "agent directory (default: agent.dir from config)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "also write the plain-text report to this file")
	return cmd
}

func (c *cli) runAudit(ctx context.Context, flags auditFlags) error {
	dir := c.agentDir(flags.Dir)
	m, err := manifest.Load(dir)
	if err != nil {
		return WrapAgentError(err, dir)
	}

	ctx, span := c.tracer.Start(ctx, "gitagent.audit",
		trace.WithAttributes(telemetry.AgentAttributes(m.Name, m.Version, dir)...))
	defer span.End()
	if m.Compliance != nil {
		span.SetAttributes(telemetry.ComplianceAttributes(string(m.Compliance.RiskTier), m.Compliance.Frameworks)...)
	}

	report := compliance.BuildAuditReport(m, compliance.GatherFacts(dir), time.Now())
	span.SetAttributes(telemetry.AuditAttributes(report.ID, report.Advisories())...)
	c.metrics.RecordAudit(ctx, report)

	if flags.Output != "" {
		f, err := os.Create(flags.Output)
		if err != nil {
			return agenterrors.New(agenterrors.CodeIO, "create audit report file", err).
				WithContext("path", flags.Output)
		}
		werr := report.WriteText(f)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return agenterrors.New(agenterrors.CodeIO, "write audit report", werr).
				WithContext("path", flags.Output)
		}
	}

	if c.jsonOutput() {
		return c.printJSON(report)
	}
	c.printAudit(report)
	if flags.Output != "" {
		c.out.success("Report written to " + flags.Output)
	}
	return nil
}

func (c *cli) printAudit(r *compliance.Report) {
	c.out.title("Compliance Audit Report")
	c.out.label("Agent", r.Agent+" v"+r.Version)
	c.out.label("Date", r.Date)
	c.out.label("Report", r.ID)
	c.out.divider()

	for _, l := range r.Notes {
		c.out.line(l, "")
	}
	for _, s := range r.Sections {
		c.out.title(s.Heading())
		for _, l := range s.Lines {
			c.out.line(l, "  ")
		}
	}
	if len(r.Footer) > 0 {
		c.out.println("")
		c.out.divider()
		for _, l := range r.Footer {
			c.out.line(l, "")
		}
	}
}
