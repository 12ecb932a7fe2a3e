// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package adapters

import (
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// GitHub Models defaults applied when agent.yaml leaves them unset.
const (
	DefaultGitHubModel       = "openai/" + shared.ChatModelGPT4_1
	DefaultGitHubTemperature = 0.3
	DefaultGitHubMaxTokens   = 4096
)

// vendorPrefixes maps model name prefixes to GitHub Models publishers.
var vendorPrefixes = []struct {
	prefixes []string
	vendor   string
}{
	{[]string{"gpt", "o1", "o3", "o4"}, "openai"},
	{[]string{"claude"}, "anthropic"},
	{[]string{"llama", "Llama"}, "meta"},
	{[]string{"mistral", "Mistral"}, "mistralai"},
	{[]string{"gemini"}, "google"},
	{[]string{"deepseek", "DeepSeek"}, "deepseek"},
}

// ResolveGitHubModel maps a preferred model to a GitHub Models id of the
// form vendor/model. Ids that already name a vendor, and unknown
// families, are returned unchanged.
func ResolveGitHubModel(model string) string {
	if model == "" {
		return DefaultGitHubModel
	}
	if strings.Contains(model, "/") {
		return model
	}
	for _, v := range vendorPrefixes {
		for _, p := range v.prefixes {
			if strings.HasPrefix(model, p) {
				return v.vendor + "/" + model
			}
		}
	}
	return model
}

// GitHubModels builds a streaming chat completion request for the
// GitHub Models inference API with the system prompt as the only message.
func GitHubModels(dir string) (openai.ChatCompletionNewParams, error) {
	src, err := loadSource(dir)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}
	prompt, err := src.systemPrompt()
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	m := src.manifest
	var preferred string
	temperature := DefaultGitHubTemperature
	maxTokens := int64(DefaultGitHubMaxTokens)
	if m.Model != nil {
		preferred = m.Model.Preferred
		if c := m.Model.Constraints; c != nil {
			if c.Temperature != nil {
				temperature = *c.Temperature
			}
			if c.MaxTokens != nil {
				maxTokens = *c.MaxTokens
			}
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       ResolveGitHubModel(preferred),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(prompt)},
		Temperature: param.NewOpt(temperature),
		MaxTokens:   param.NewOpt(maxTokens),
	}
	params.SetExtraFields(map[string]any{"stream": true})
	return params, nil
}

// OpenAI builds a chat completion request for the OpenAI API. Model
// constraints are mapped onto the request; top_k has no OpenAI
// equivalent and is dropped.
func OpenAI(dir string) (openai.ChatCompletionNewParams, error) {
	src, err := loadSource(dir)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}
	prompt, err := src.systemPrompt()
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModelGPT4_1,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(prompt)},
	}
	mc := src.manifest.Model
	if mc == nil {
		return params, nil
	}
	if mc.Preferred != "" {
		params.Model = strings.TrimPrefix(mc.Preferred, "openai/")
	}
	if c := mc.Constraints; c != nil {
		if c.Temperature != nil {
			params.Temperature = param.NewOpt(*c.Temperature)
		}
		if c.MaxTokens != nil {
			params.MaxCompletionTokens = param.NewOpt(*c.MaxTokens)
		}
		if c.TopP != nil {
			params.TopP = param.NewOpt(*c.TopP)
		}
		if c.PresencePenalty != nil {
			params.PresencePenalty = param.NewOpt(*c.PresencePenalty)
		}
		if c.FrequencyPenalty != nil {
			params.FrequencyPenalty = param.NewOpt(*c.FrequencyPenalty)
		}
		if len(c.StopSequences) > 0 {
			params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: c.StopSequences}
		}
	}
	return params, nil
}
