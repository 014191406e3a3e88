// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a downloaded PDF into one plain-text blob.
// Backends are pluggable: a native Go PDF reader and the markitdown
// container image.
package extract

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-reader/internal/container"
	"github.com/pdiddy/paper-reader/pkg/types"
)

const defaultMarkitdownImage = "markitdown:latest"

// Extractor reads the PDF at path and returns its text in page order.
// Failures wrap types.ErrExtraction.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// New returns the extractor selected by cfg.Backend. An empty backend means
// the native PDF reader. For markitdown, runtime detection happens here; a
// missing runtime does not fail construction but makes every Extract call
// fail with ErrExtraction.
func New(ctx context.Context, cfg types.ExtractConfig) (Extractor, error) {
	switch cfg.Backend {
	case types.BackendPDF, "":
		return PDFExtractor{}, nil
	case types.BackendMarkitdown:
		image := cfg.MarkitdownImage
		if image == "" {
			image = defaultMarkitdownImage
		}
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return &MarkitdownExtractor{image: image, unavailable: err}, nil
		}
		return NewMarkitdownExtractor(rt, image), nil
	default:
		return nil, fmt.Errorf("unknown extract backend %q: use %s or %s",
			cfg.Backend, types.BackendPDF, types.BackendMarkitdown)
	}
}
