// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	agenterrors "github.com/jllopis/gitagent/pkg/errors"
)

const deskAgent = `name: desk
version: 1.2.0
description: Research desk assistant
model:
  preferred: claude-sonnet-4
  constraints:
    temperature: 0.1
    max_tokens: 2048
    top_p: 0.9
    top_k: 40
    stop_sequences: ["END"]
compliance:
  risk_tier: high
  frameworks: [finra]
  supervision:
    human_in_the_loop: always
  communications:
    fair_balanced: true
    no_misleading: true
  data_governance:
    pii_handling: redact
  recordkeeping:
    audit_logging: true
`

const knowledgeIndexYAML = `documents:
  - path: glossary.md
    always_load: true
  - path: archive.md
  - path: missing.md
    always_load: true
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

func deskTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		"agent.yaml":               deskAgent,
		"SOUL.md":                  "I am careful.",
		"RULES.md":                 "Never guess.",
		"DUTIES.md":                "Summarise filings.",
		"skills/research/SKILL.md": "---\nname: research\ndescription: Finds sources.\nallowed-tools: search fetch\n---\nSearch first.\n",
		"knowledge/index.yaml":     knowledgeIndexYAML,
		"knowledge/glossary.md":    "AUM: assets under management",
		"knowledge/archive.md":     "old",
		"memory/MEMORY.md":         "one\ntwo\nthree\n",
	})
}

func TestSystemPrompt(t *testing.T) {
	got, err := SystemPrompt(deskTree(t))
	if err != nil {
		t.Fatalf("system prompt: %v", err)
	}
	want := strings.Join([]string{
		"# desk v1.2.0",
		"Research desk assistant\n",
		"I am careful.",
		"Never guess.",
		"Summarise filings.",
		"## Skill: research\nFinds sources.\nAllowed tools: search, fetch\n\nSearch first.",
		"## Knowledge: glossary.md\nAUM: assets under management",
		"## Compliance Constraints\n" +
			"- All decisions require human approval before execution\n" +
			"- All communications must be fair and balanced (FINRA 2210)\n" +
			"- Never make misleading, exaggerated, or promissory statements\n" +
			"- Redact all PII from outputs and intermediate reasoning",
		"## Memory\none\ntwo\nthree\n",
	}, "\n\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prompt mismatch (-want +got):\n%s", diff)
	}
}

func TestSystemPromptMinimal(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"agent.yaml":       "name: tiny\nversion: 0.1.0\ndescription: Small\n",
		"memory/MEMORY.md": "# Memory\n\n",
	})
	got, err := SystemPrompt(dir)
	if err != nil {
		t.Fatalf("system prompt: %v", err)
	}
	if got != "# tiny v0.1.0\n\nSmall\n" {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestClaudeCode(t *testing.T) {
	got, err := ClaudeCode(deskTree(t))
	if err != nil {
		t.Fatalf("claude code: %v", err)
	}
	want := strings.Join([]string{
		"# desk",
		"Research desk assistant\n",
		"I am careful.",
		"Never guess.",
		"## Skills\n\n### research\nFinds sources.\nAllowed tools: search, fetch\n\nSearch first.\n",
		"<!-- Model: claude-sonnet-4 -->",
		"## Compliance\n\nRisk Tier: HIGH\nFrameworks: finra\n\n**All decisions require human approval.**\n" +
			"- All outputs must be fair and balanced (FINRA 2210)\n" +
			"- Never make misleading or exaggerated statements\n" +
			"- Redact all PII from outputs\n" +
			"- All actions are audit-logged",
		"## Reference: glossary.md\nAUM: assets under management",
	}, "\n\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("CLAUDE.md mismatch (-want +got):\n%s", diff)
	}
}

func decodePayload(t *testing.T, out string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("payload is not JSON: %v\n%s", err, out)
	}
	return payload
}

func TestGitHubModels(t *testing.T) {
	out, err := Export("github", deskTree(t))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	p := decodePayload(t, out)
	if p["model"] != "anthropic/claude-sonnet-4" {
		t.Errorf("model = %v", p["model"])
	}
	if p["temperature"] != 0.1 || p["max_tokens"] != float64(2048) || p["stream"] != true {
		t.Errorf("unexpected sampling fields %v", p)
	}
	msgs, ok := p["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", p["messages"])
	}
	msg := msgs[0].(map[string]any)
	if msg["role"] != "system" || !strings.HasPrefix(msg["content"].(string), "# desk v1.2.0") {
		t.Errorf("unexpected system message %v", msg)
	}
}

func TestGitHubModelsDefaults(t *testing.T) {
	dir := writeTree(t, map[string]string{"agent.yaml": "name: tiny\nversion: 0.1.0\ndescription: Small\n"})
	params, err := GitHubModels(dir)
	if err != nil {
		t.Fatalf("github: %v", err)
	}
	if params.Model != "openai/gpt-4.1" || params.Temperature.Value != 0.3 || params.MaxTokens.Value != 4096 {
		t.Fatalf("unexpected defaults model=%s temperature=%v max_tokens=%v", params.Model, params.Temperature.Value, params.MaxTokens.Value)
	}
}

func TestResolveGitHubModel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "openai/gpt-4.1"},
		{"gpt-4o", "openai/gpt-4o"},
		{"o3-mini", "openai/o3-mini"},
		{"claude-opus-4", "anthropic/claude-opus-4"},
		{"Llama-3.3-70B", "meta/Llama-3.3-70B"},
		{"mistral-large", "mistralai/mistral-large"},
		{"gemini-2.0", "google/gemini-2.0"},
		{"DeepSeek-R1", "deepseek/DeepSeek-R1"},
		{"xai/grok-3", "xai/grok-3"},
		{"phi-4", "phi-4"},
	}
	for _, tt := range tests {
		if got := ResolveGitHubModel(tt.in); got != tt.want {
			t.Errorf("ResolveGitHubModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenAI(t *testing.T) {
	out, err := Export("openai", deskTree(t))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	p := decodePayload(t, out)
	if p["model"] != "claude-sonnet-4" {
		t.Errorf("model = %v", p["model"])
	}
	if p["temperature"] != 0.1 || p["max_completion_tokens"] != float64(2048) || p["top_p"] != 0.9 {
		t.Errorf("unexpected sampling fields %v", p)
	}
	if diff := cmp.Diff([]any{"END"}, p["stop"]); diff != "" {
		t.Errorf("stop mismatch (-want +got):\n%s", diff)
	}
	for _, absent := range []string{"top_k", "stream", "max_tokens"} {
		if _, ok := p[absent]; ok {
			t.Errorf("unexpected field %s in %v", absent, p)
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export("crewai", t.TempDir())
	if !agenterrors.HasCode(err, agenterrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if !strings.Contains(err.Error(), "system-prompt, claude-code, github, openai") {
		t.Fatalf("error should list formats: %v", err)
	}
}

func TestExportMissingManifest(t *testing.T) {
	_, err := Export("system-prompt", t.TempDir())
	if !agenterrors.HasCode(err, agenterrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
