// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema validates agent repository documents (agent.yaml, SKILL.md
// frontmatter, hooks.yaml and tool definitions) against embedded JSON
// Schemas. Only structure is checked here; cross-field compliance rules
// live in package compliance.
package schema

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jllopis/gitagent/pkg/manifest"
)

//go:embed schemas/*.schema.json
var files embed.FS

// Name identifies an embedded schema.
type Name string

const (
	Agent Name = "agent-yaml"
	Skill Name = "skill"
	Hooks Name = "hooks"
	Tool  Name = "tool"
)

// Names lists every embedded schema.
var Names = []Name{Agent, Skill, Hooks, Tool}

const baseURL = "https://gitagent.dev/schemas/"

// URL returns the canonical identifier of the schema.
func (n Name) URL() string {
	return baseURL + string(n) + ".schema.json"
}

// Issue is a single structural problem, located by JSON pointer.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String renders the issue as "<path>: <message>".
func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Validator holds compiled schemas. It is safe for concurrent use.
type Validator struct {
	schemas map[Name]*jsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, n := range Names {
		data, err := files.ReadFile("schemas/" + string(n) + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("schema %s load failed: %w", n, err)
		}
		if err := c.AddResource(n.URL(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("schema %s load failed: %w", n, err)
		}
	}
	v := &Validator{schemas: make(map[Name]*jsonschema.Schema, len(Names))}
	for _, n := range Names {
		compiled, err := c.Compile(n.URL())
		if err != nil {
			return nil, fmt.Errorf("schema %s compile failed: %w", n, err)
		}
		v.schemas[n] = compiled
	}
	return v, nil
}

var defaultValidator = sync.OnceValues(New)

// Default returns a process-wide validator compiled on first use.
func Default() (*Validator, error) {
	return defaultValidator()
}

// Validate checks doc against the named schema. doc may come straight
// from a YAML decoder; it is normalized to JSON-compatible values first.
// The returned error is only set for an unknown schema or a validator
// failure, never for document problems.
func (v *Validator) Validate(name Name, doc any) ([]Issue, error) {
	s, ok := v.schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	err := s.Validate(manifest.Normalize(doc))
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}
	issues := leafIssues(ve, nil)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues, nil
}

// leafIssues flattens the cause tree; only leaves carry actionable text.
func leafIssues(ve *jsonschema.ValidationError, out []Issue) []Issue {
	if len(ve.Causes) == 0 {
		path := ve.InstanceLocation
		if path == "" {
			path = "/"
		}
		return append(out, Issue{Path: path, Message: ve.Message})
	}
	for _, c := range ve.Causes {
		out = leafIssues(c, out)
	}
	return out
}

// Validate checks doc with the default validator.
func Validate(name Name, doc any) ([]Issue, error) {
	v, err := Default()
	if err != nil {
		return nil, err
	}
	return v.Validate(name, doc)
}
