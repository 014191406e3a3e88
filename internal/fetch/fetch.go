// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch resolves arXiv references to PDF URLs and downloads them
// into temporary artifacts.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/pdiddy/paper-reader/internal/httputil"
	"github.com/pdiddy/paper-reader/pkg/types"
)

const tempPattern = "paper-reader-*.pdf"

// Artifact is a downloaded PDF in a temporary file. It is owned by the item
// being processed and must be removed once the text has been extracted.
type Artifact struct {
	// Path is the temporary file location.
	Path string

	// SourceURL is the URL the bytes came from.
	SourceURL string

	// Size is the number of bytes written.
	Size int64
}

// Remove deletes the temporary file. It is safe to call more than once and
// on a nil artifact.
func (a *Artifact) Remove() error {
	if a == nil || a.Path == "" {
		return nil
	}
	if err := os.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing artifact %s: %w", a.Path, err)
	}
	return nil
}

// Fetcher downloads arXiv PDFs.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
	logger *slog.Logger
}

// New creates a Fetcher. A nil client uses one with cfg.Timeout.
func New(client *http.Client, cfg types.FetchConfig, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{client: client, cfg: cfg, logger: logger}
}

// Fetch resolves ref and downloads the PDF with a single GET. Transport
// errors and non-200 responses wrap ErrDownload; HTTP 429 is retried up to
// cfg.MaxRetries times.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*Artifact, error) {
	pdfURL, err := ResolvePDFURL(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request for %s: %w", types.ErrDownload, pdfURL, err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries, f.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrDownload, pdfURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d from %s", types.ErrDownload, resp.StatusCode, pdfURL)
	}

	tmpFile, err := os.CreateTemp(f.cfg.TempDir, tempPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: creating temp file: %w", types.ErrDownload, err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: reading body from %s: %w", types.ErrDownload, pdfURL, copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: closing temp file: %w", types.ErrDownload, closeErr)
	}

	f.logger.Debug("downloaded artifact", "url", pdfURL, "path", tmpPath, "bytes", n)
	return &Artifact{Path: tmpPath, SourceURL: pdfURL, Size: n}, nil
}
