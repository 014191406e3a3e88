// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error taxonomy shared by the pipeline stages. Stage errors wrap one of
// these so callers can classify them with errors.Is.
var (
	// ErrInvalidReference means the input is not an arXiv abstract or PDF URL.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrDownload covers transport errors and non-200 responses.
	ErrDownload = errors.New("download failed")

	// ErrExtraction means the artifact could not be turned into text.
	ErrExtraction = errors.New("extraction failed")

	// ErrUnsupportedProvider is a configuration error: the provider is
	// neither openai nor ali.
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")

	// ErrUpstream means the LLM call failed.
	ErrUpstream = errors.New("upstream failure")
)
