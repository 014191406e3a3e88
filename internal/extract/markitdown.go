// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/paper-reader/internal/container"
	"github.com/pdiddy/paper-reader/pkg/types"
)

// MarkitdownExtractor converts PDFs by piping them through the markitdown
// container image. It depends on a container.Runtime (docker or podman)
// injected at construction time.
type MarkitdownExtractor struct {
	runtime     container.Runtime
	image       string
	unavailable error
}

// NewMarkitdownExtractor creates an extractor that runs image on rt.
func NewMarkitdownExtractor(rt container.Runtime, image string) *MarkitdownExtractor {
	return &MarkitdownExtractor{runtime: rt, image: image}
}

// Extract implements Extractor. The image is checked on every call so a
// missing image is reported per item rather than at startup.
func (m *MarkitdownExtractor) Extract(ctx context.Context, path string) (string, error) {
	if m.unavailable != nil {
		return "", fmt.Errorf("%w: %w", types.ErrExtraction, m.unavailable)
	}
	if err := m.runtime.ImageExists(ctx, m.image); err != nil {
		return "", fmt.Errorf("%w: markitdown not available in %s: %w", types.ErrExtraction, m.runtime.Name(), err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %w", types.ErrExtraction, path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, f, &out); err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrExtraction, err)
	}
	return out.String(), nil
}
