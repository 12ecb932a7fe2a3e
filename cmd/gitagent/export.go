// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/gitagent/pkg/adapters"
	agenterrors "github.com/jllopis/gitagent/pkg/errors"
	"github.com/jllopis/gitagent/pkg/telemetry"
)

type exportFlags struct {
	Format string
	Dir    string
	Output string
	List   bool
}

func (c *cli) exportCommand() *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the agent to another format",
		Long: fmt.Sprintf(`Export renders the agent for another runtime.

Formats: %s

Without --output the result is written to stdout.`, strings.Join(adapters.FormatNames(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.List {
				return c.listFormats()
			}
			if flags.Format == "" {
				return NewCLIError(
					agenterrors.New(agenterrors.CodeInvalidInput, "missing export format", nil),
					"pass -f <format>; run 'gitagent export --list' to see available formats")
			}
			return c.runExport(cmd.Context(), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "export format")
	cmd.Flags().StringVarP(&flags.Dir, "dir", "d", "", "agent directory (default: agent.dir from config)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&flags.List, "list", false, "list available formats")
	return cmd
}

func (c *cli) runExport(ctx context.Context, flags exportFlags) error {
	dir := c.agentDir(flags.Dir)
	_, span := c.tracer.Start(ctx, "gitagent.export",
		trace.WithAttributes(append(telemetry.AgentAttributes("", "", dir),
			attribute.String(telemetry.AttrExportFormat, flags.Format))...))
	defer span.End()

	result, err := adapters.Export(flags.Format, dir)
	if err != nil {
		if _, known := adapters.Lookup(flags.Format); !known {
			return NewUnknownFormatError(err)
		}
		return WrapAgentError(err, dir)
	}

	if flags.Output == "" {
		c.out.println(result)
		return nil
	}
	if err := os.WriteFile(flags.Output, []byte(result), 0o644); err != nil {
		return agenterrors.New(agenterrors.CodeIO, "write export", err).
			WithContext("path", flags.Output)
	}
	if !c.jsonOutput() {
		c.out.success("Exported to " + flags.Output)
	}
	return nil
}

func (c *cli) listFormats() error {
	if c.jsonOutput() {
		return c.printJSON(adapters.Formats)
	}
	c.out.title("Export formats")
	for _, f := range adapters.Formats {
		c.out.label(f.Name, fmt.Sprintf("%s (%s)", f.Description, f.File))
	}
	return nil
}
