// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-reader/internal/extract"
	"github.com/pdiddy/paper-reader/internal/fetch"
	"github.com/pdiddy/paper-reader/internal/history"
	"github.com/pdiddy/paper-reader/internal/llm"
	"github.com/pdiddy/paper-reader/internal/pipeline"
	"github.com/pdiddy/paper-reader/pkg/types"
)

// app holds the wired components for one process.
type app struct {
	cfg      types.Config
	pipeline *pipeline.Pipeline
	history  *history.Store
}

func (a *app) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

// newApp loads configuration and wires the pipeline. The LLM client is
// created once here and shared by every batch.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(&http.Client{Timeout: cfg.Fetch.Timeout}, cfg.Fetch, logger)

	extractor, err := extract.New(ctx, cfg.Extract)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(cfg.LLM, nil)
	if err != nil {
		return nil, err
	}
	logger.Debug("llm client ready", "provider", client.Provider(), "model", client.Model())

	a := &app{cfg: cfg}
	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.Fetch.Metadata {
		opts = append(opts, pipeline.WithMetadata(fetcher))
	}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		a.history = store
		opts = append(opts, pipeline.WithRecorder(store))
	}

	a.pipeline = pipeline.New(fetcher, extractor, client, opts...)
	return a, nil
}
