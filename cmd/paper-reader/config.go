// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-reader/internal/llm"
	"github.com/pdiddy/paper-reader/internal/secrets"
	"github.com/pdiddy/paper-reader/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "paper-reader/0.1"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.max_tokens", llm.DefaultMaxTokens)
	v.SetDefault("llm.openai.model", "gpt-4.1-2025-04-14")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.ali.model", "deepseek-r1")
	v.SetDefault("llm.ali.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")

	v.SetDefault("fetch.timeout", defaultTimeout)
	v.SetDefault("fetch.user_agent", defaultUserAgent)
	v.SetDefault("fetch.max_retries", 2)
	v.SetDefault("fetch.temp_dir", "")
	v.SetDefault("fetch.metadata", false)

	v.SetDefault("extract.backend", string(types.BackendPDF))
	v.SetDefault("extract.markitdown_image", "markitdown:latest")

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "paper-reader.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// bindEnv accepts the conventional provider variables alongside the
// PAPER_READER_ prefixed ones.
func bindEnv(v *viper.Viper) {
	v.BindEnv("llm.provider", "PAPER_READER_LLM_PROVIDER", "LLM_PROVIDER")
	v.BindEnv("llm.openai.api_key", "PAPER_READER_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.openai.model", "PAPER_READER_LLM_OPENAI_MODEL", "OPENAI_MODEL")
	v.BindEnv("llm.ali.api_key", "PAPER_READER_LLM_ALI_API_KEY", "ALIYUN_MODEL_KEY")
	v.BindEnv("llm.ali.model", "PAPER_READER_LLM_ALI_MODEL", "ALIYUN_MODEL_NAME")
}

// loadConfig reads the effective configuration. It rejects an unknown
// provider or extraction backend so no batch starts with either.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.Config{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("fetch.timeout"),
				UserAgent: v.GetString("fetch.user_agent"),
			},
			MaxRetries: v.GetInt("fetch.max_retries"),
			TempDir:    v.GetString("fetch.temp_dir"),
			Metadata:   v.GetBool("fetch.metadata"),
		},
		Extract: types.ExtractConfig{
			Backend:         types.ExtractBackend(v.GetString("extract.backend")),
			MarkitdownImage: v.GetString("extract.markitdown_image"),
		},
		LLM: types.LLMConfig{
			Provider:  v.GetString("llm.provider"),
			MaxTokens: v.GetInt("llm.max_tokens"),
			OpenAI: types.ProviderConfig{
				APIKey:  secretDefault(secrets.OpenAIKey, v.GetString("llm.openai.api_key")),
				Model:   v.GetString("llm.openai.model"),
				BaseURL: v.GetString("llm.openai.base_url"),
			},
			Ali: types.ProviderConfig{
				APIKey:  secretDefault(secrets.AliyunKey, v.GetString("llm.ali.api_key")),
				Model:   v.GetString("llm.ali.model"),
				BaseURL: v.GetString("llm.ali.base_url"),
			},
		},
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			AllowedOrigins:  v.GetStringSlice("server.allowed_origins"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		History: types.HistoryConfig{
			Enabled: v.GetBool("history.enabled"),
			Path:    v.GetString("history.path"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = defaultTimeout
	}
	if _, err := llm.ParseProvider(cfg.LLM.Provider); err != nil {
		return cfg, err
	}
	switch cfg.Extract.Backend {
	case types.BackendPDF, types.BackendMarkitdown:
	default:
		return cfg, fmt.Errorf("unknown extract backend %q (want pdf or markitdown)", cfg.Extract.Backend)
	}
	return cfg, nil
}
