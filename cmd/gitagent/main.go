// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package main implements the gitagent CLI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/gitagent/pkg/config"
	"github.com/jllopis/gitagent/pkg/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errInvalid signals a completed run whose verdict was a failure. The
// summary has already been printed.
var errInvalid = errors.New("validation failed")

type rootFlags struct {
	ConfigPath string
	LogLevel   string
	JSON       bool
	NoColor    bool
	Set        []string
}

// cli carries state shared by every command of one invocation.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	flags   rootFlags
	command string
	cfg     *config.Config
	out     *console
	tracer  trace.Tracer
	metrics *telemetry.ComplianceMetrics

	shutdown telemetry.ShutdownFunc
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	c.close()
	if err == nil {
		return 0
	}
	if errors.Is(err, errInvalid) {
		return 1
	}
	return c.fail(err)
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gitagent",
		Short: "Validate, audit and export git-native AI agents",
		Long: `gitagent checks agent repositories (agent.yaml, SOUL.md, skills, tools,
hooks) and evaluates their compliance configuration against FINRA, SEC,
Federal Reserve SR 11-7 and CFPB rules.

Examples:
  gitagent validate -d ./my-agent --compliance
  gitagent audit -d ./my-agent
  gitagent export -f system-prompt -d ./my-agent -o prompt.md`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.ConfigPath, "config", "", "path to a gitagent config file (YAML)")
	pf.StringVar(&c.flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&c.flags.JSON, "json", false, "emit machine-readable JSON")
	pf.BoolVar(&c.flags.NoColor, "no-color", false, "disable colored output")
	pf.StringArrayVar(&c.flags.Set, "set", nil, "override a config key (key=value, repeatable)")

	root.AddCommand(
		c.validateCommand(),
		c.auditCommand(),
		c.infoCommand(),
		c.exportCommand(),
		c.versionCommand(),
	)
	return root
}

// setup loads configuration and wires logging, telemetry and console
// output before any command runs.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	c.command = cmd.Name()
	overrides, err := config.ParseSet(c.flags.Set)
	if err != nil {
		return err
	}
	if c.flags.LogLevel != "" {
		overrides["log.level"] = c.flags.LogLevel
	}
	if c.flags.JSON {
		overrides["output.json"] = true
	}
	if c.flags.NoColor {
		overrides["output.color"] = false
	}

	cfg, err := config.Load(c.flags.ConfigPath, overrides)
	if err != nil {
		return NewConfigError(err, c.flags.ConfigPath)
	}
	c.cfg = cfg

	telemetry.ConfigureSlog(c.stderr, cfg.Log.Level, cfg.Log.Format,
		slog.String(telemetry.AttrCommand, c.command))
	c.out = newConsole(c.stdout, cfg.Output.Color)

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(cmd.Context(), version, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Exporter:     cfg.Telemetry.Exporter,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			OTLPInsecure: cfg.Telemetry.OTLPInsecure,
			Writer:       c.stderr,
		})
		if err != nil {
			slog.Warn("telemetry disabled", "error", err)
		} else {
			c.shutdown = shutdown
		}
	}
	c.tracer = otel.Tracer("gitagent/cli")

	metrics, err := telemetry.NewComplianceMetrics()
	if err != nil {
		slog.Warn("compliance metrics unavailable", "error", err)
	}
	c.metrics = metrics

	slog.Debug("configuration loaded",
		"command", cmd.Name(),
		"log_level", cfg.Log.Level,
		"telemetry", cfg.Telemetry.Enabled,
	)
	return nil
}

func (c *cli) close() {
	if c.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.shutdown(ctx); err != nil {
		slog.Warn("telemetry shutdown failed", "error", err)
	}
}

// agentDir resolves the -d flag, falling back to agent.dir from config.
func (c *cli) agentDir(flag string) string {
	if flag != "" {
		return flag
	}
	if c.cfg != nil && c.cfg.Agent.Dir != "" {
		return c.cfg.Agent.Dir
	}
	return "."
}

func (c *cli) jsonOutput() bool {
	if c.cfg != nil {
		return c.cfg.Output.JSON
	}
	return c.flags.JSON
}

func (c *cli) printJSON(value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = c.stdout.Write(append(payload, '\n'))
	return err
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gitagent version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.jsonOutput() {
				return c.printJSON(map[string]string{"version": version})
			}
			c.out.println(version)
			return nil
		},
	}
}
