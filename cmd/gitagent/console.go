// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jllopis/gitagent/pkg/compliance"
)

// Palette
var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
	colorDim     = lipgloss.Color("#6e7681")
)

const dividerWidth = 60

// console writes human-readable output with status markers.
type console struct {
	w io.Writer

	pass    lipgloss.Style
	fail    lipgloss.Style
	warn    lipgloss.Style
	info    lipgloss.Style
	heading lipgloss.Style
	dim     lipgloss.Style
}

// newConsole builds a console for w. Colors are only emitted when color
// is set and w is a terminal that supports them.
func newConsole(w io.Writer, color bool) *console {
	c := &console{w: w}
	if !color {
		plain := lipgloss.NewStyle()
		c.pass, c.fail, c.warn, c.info, c.heading, c.dim = plain, plain, plain, plain, plain, plain
		return c
	}
	r := lipgloss.NewRenderer(w)
	c.pass = r.NewStyle().Foreground(colorSuccess)
	c.fail = r.NewStyle().Foreground(colorError)
	c.warn = r.NewStyle().Foreground(colorWarning)
	c.info = r.NewStyle().Foreground(colorInfo)
	c.heading = r.NewStyle().Bold(true)
	c.dim = r.NewStyle().Foreground(colorDim)
	return c
}

func (c *console) println(s string) {
	fmt.Fprintln(c.w, s)
}

func (c *console) success(msg string) { c.mark(c.pass, "✓", msg) }
func (c *console) failure(msg string) { c.mark(c.fail, "✗", msg) }
func (c *console) warning(msg string) { c.mark(c.warn, "!", msg) }
func (c *console) notice(msg string)  { c.mark(c.info, "i", msg) }

func (c *console) mark(style lipgloss.Style, marker, msg string) {
	fmt.Fprintf(c.w, "%s %s\n", style.Render(marker), msg)
}

func (c *console) title(msg string) {
	fmt.Fprintf(c.w, "\n%s\n", c.heading.Render(msg))
}

func (c *console) label(key, value string) {
	fmt.Fprintf(c.w, "  %s %s\n", c.dim.Render(key+":"), value)
}

func (c *console) divider() {
	c.println(c.dim.Render(strings.Repeat("─", dividerWidth)))
}

// line renders an audit report line with the marker of its kind.
func (c *console) line(l compliance.Line, indent string) {
	if l.Kind == compliance.LineLabel {
		fmt.Fprintf(c.w, "%s%s %s\n", indent, c.dim.Render(l.Text+":"), l.Value)
		return
	}
	var style lipgloss.Style
	switch l.Kind {
	case compliance.LinePass:
		style = c.pass
	case compliance.LineAdvisory:
		style = c.warn
	case compliance.LineRequired:
		style = c.fail
	default:
		style = c.info
	}
	fmt.Fprintf(c.w, "%s%s %s\n", indent, style.Render(compliance.Marker(l.Kind)), l.Text)
}
