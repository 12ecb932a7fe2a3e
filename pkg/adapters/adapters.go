// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package adapters

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	agenterrors "github.com/jllopis/gitagent/pkg/errors"
)

// Format describes an export target. File is the conventional output
// file name.
type Format struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	File        string `json:"file"`

	render func(dir string) (string, error)
}

// Formats is the catalog of export targets, in display order.
var Formats = []Format{
	{
		Name:        "system-prompt",
		Description: "Single system prompt with identity, skills, knowledge and compliance constraints",
		File:        "system-prompt.md",
		render:      SystemPrompt,
	},
	{
		Name:        "claude-code",
		Description: "CLAUDE.md project memory for Claude Code",
		File:        "CLAUDE.md",
		render:      ClaudeCode,
	},
	{
		Name:        "github",
		Description: "GitHub Models chat completion payload",
		File:        "github-models.json",
		render:      payload(GitHubModels),
	},
	{
		Name:        "openai",
		Description: "OpenAI chat completion request",
		File:        "openai.json",
		render:      payload(OpenAI),
	},
}

// FormatNames lists the names of every export target.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a format by name.
func Lookup(name string) (Format, bool) {
	for _, f := range Formats {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}

// Export renders the agent in dir in the named format. An unknown
// format is an INVALID_INPUT error.
func Export(format, dir string) (string, error) {
	f, ok := Lookup(format)
	if !ok {
		return "", agenterrors.New(agenterrors.CodeInvalidInput,
			fmt.Sprintf("unknown export format %q (available: %s)", format, strings.Join(FormatNames(), ", ")), nil).
			WithContext("format", format)
	}
	return f.render(dir)
}

func payload(build func(dir string) (openai.ChatCompletionNewParams, error)) func(string) (string, error) {
	return func(dir string) (string, error) {
		params, err := build(dir)
		if err != nil {
			return "", err
		}
		data, err := json.MarshalIndent(params, "", "  ")
		if err != nil {
			return "", agenterrors.New(agenterrors.CodeInternal, "encode payload", err)
		}
		return string(data), nil
	}
}
