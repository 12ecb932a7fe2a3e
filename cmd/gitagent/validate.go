// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/gitagent/pkg/compliance"
	"github.com/jllopis/gitagent/pkg/manifest"
	"github.com/jllopis/gitagent/pkg/telemetry"
	"github.com/jllopis/gitagent/pkg/validate"
)

type validateFlags struct {
	Dir        string
	Compliance bool
	Watch      bool
}

func (c *cli) validateCommand() *cobra.Command {
	var flags validateFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an agent repository",
		Long: `Validate checks agent.yaml, SOUL.md, hooks, tools and skills. With
--compliance the regulatory rule engine runs as a final section.

Exits 1 when any error is found; warnings never fail validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runValidate(cmd.Context(), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.Dir, "dir", "d", "", "agent directory (default: agent.dir from config)")
	cmd.Flags().BoolVarP(&flags.Compliance, "compliance", "c", false, "include regulatory compliance validation")
	cmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false, "re-run validation whenever the agent changes")
	return cmd
}

func (c *cli) runValidate(ctx context.Context, flags validateFlags) error {
	dir := c.agentDir(flags.Dir)
	opts := validate.Options{
		Compliance: flags.Compliance,
		Engine:     compliance.NewEngine(compliance.WithLogger(slog.Default())),
	}

	report := c.validateOnce(ctx, dir, opts)
	if flags.Watch {
		return c.watchValidate(ctx, dir, opts)
	}
	if !report.Valid {
		return errInvalid
	}
	return nil
}

// validateOnce runs one traced validation pass and prints it.
func (c *cli) validateOnce(ctx context.Context, dir string, opts validate.Options) *validate.Report {
	ctx, span := c.tracer.Start(ctx, "gitagent.validate",
		trace.WithAttributes(telemetry.AgentAttributes("", "", dir)...))
	defer span.End()

	report := validate.Repository(dir, opts)
	span.SetAttributes(telemetry.ResultAttributes(report.Valid, report.Errors, report.Warnings)...)
	if s, ok := report.Section(validate.SectionCompliance); ok && s.Status != validate.StatusSkip {
		c.metrics.RecordEvaluation(ctx, s.Result)
	}

	if c.jsonOutput() {
		if err := c.printJSON(report); err != nil {
			slog.Error("failed to encode report", "error", err)
		}
		return report
	}
	c.printReport(report)
	return report
}

func (c *cli) printReport(r *validate.Report) {
	abs, err := filepath.Abs(r.Dir)
	if err != nil {
		abs = r.Dir
	}
	c.out.title("Validating gitagent")
	c.out.notice("Directory: " + abs)
	c.out.divider()

	for _, s := range r.Sections {
		if s.Name == validate.SectionCompliance {
			c.out.divider()
			c.out.title("Compliance Validation")
			c.printComplianceSection(s)
			continue
		}
		c.printSection(s)
	}

	c.out.divider()
	if r.Valid {
		c.out.success(fmt.Sprintf("Validation passed (%d %s)", r.Warnings, plural(r.Warnings, "warning")))
		return
	}
	c.out.failure(fmt.Sprintf("Validation failed: %d %s, %d %s",
		r.Errors, plural(r.Errors, "error"), r.Warnings, plural(r.Warnings, "warning")))
}

func (c *cli) printSection(s validate.Section) {
	switch {
	case s.Status == validate.StatusSkip:
		c.out.notice(s.Name + " — skipped")
	case !s.Valid:
		c.out.failure(s.Name + " — invalid")
	case len(s.Warnings) > 0 && len(s.Errors) == 0 && isToolSection(s.Name):
		c.out.warning(s.Name + " — has issues")
	default:
		c.out.success(s.Name + " — valid")
	}
	for _, e := range s.Errors {
		c.out.failure("  " + e)
	}
	for _, w := range s.Warnings {
		c.out.warning("  " + w)
	}
}

func (c *cli) printComplianceSection(s validate.Section) {
	switch {
	case s.Status == validate.StatusSkip:
		c.out.notice("Compliance configuration — skipped (agent.yaml could not be loaded)")
		return
	case s.Valid:
		c.out.success("Compliance configuration — valid")
	default:
		c.out.failure("Compliance configuration — invalid")
		for _, e := range s.Errors {
			c.out.failure("  " + e)
		}
	}
	for _, w := range s.Warnings {
		c.out.warning("  " + w)
	}
}

// watchValidate re-validates on every change under dir until ctx ends.
func (c *cli) watchValidate(ctx context.Context, dir string, opts validate.Options) error {
	w, err := manifest.NewWatcher(dir, manifest.WithWatchInterval(c.cfg.Watch.Interval))
	if err != nil {
		return WrapAgentError(err, dir)
	}
	w.OnChange(func(*manifest.AgentManifest, error) {
		c.validateOnce(ctx, dir, opts)
	})
	w.Start(ctx)
	if !c.jsonOutput() {
		c.out.notice(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", w.Dir()))
	}

	<-ctx.Done()
	w.Stop()
	return nil
}

func isToolSection(name string) bool {
	return strings.HasPrefix(name, "tools/")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
