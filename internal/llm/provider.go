// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-reader/pkg/types"
)

// Provider is the closed set of supported LLM providers. Both speak the
// OpenAI chat-completions protocol.
type Provider int

const (
	ProviderUnknown Provider = iota
	// ProviderOpenAI is the primary provider.
	ProviderOpenAI
	// ProviderAli is the alternate provider, Alibaba DashScope in
	// OpenAI-compatible mode.
	ProviderAli
)

func (p Provider) String() string {
	switch p {
	case ProviderOpenAI:
		return "openai"
	case ProviderAli:
		return "ali"
	default:
		return "unknown"
	}
}

// Default model and endpoint per provider.
var (
	defaultModels = map[Provider]string{
		ProviderOpenAI: "gpt-4.1-2025-04-14",
		ProviderAli:    "deepseek-r1",
	}
	defaultBaseURLs = map[Provider]string{
		ProviderOpenAI: "https://api.openai.com/v1",
		ProviderAli:    "https://dashscope.aliyuncs.com/compatible-mode/v1",
	}
)

// ParseProvider resolves a configuration value. Matching is case-insensitive;
// anything other than "openai" or "ali" wraps ErrUnsupportedProvider.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai":
		return ProviderOpenAI, nil
	case "ali":
		return ProviderAli, nil
	default:
		return ProviderUnknown, fmt.Errorf("%w: %q (supported: openai, ali)", types.ErrUnsupportedProvider, s)
	}
}

// settings picks the provider block of cfg and fills in defaults.
func settings(p Provider, cfg types.LLMConfig) types.ProviderConfig {
	var pc types.ProviderConfig
	switch p {
	case ProviderOpenAI:
		pc = cfg.OpenAI
	case ProviderAli:
		pc = cfg.Ali
	}
	if pc.Model == "" {
		pc.Model = defaultModels[p]
	}
	if pc.BaseURL == "" {
		pc.BaseURL = defaultBaseURLs[p]
	}
	return pc
}
