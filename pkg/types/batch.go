// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BatchRequest is one invocation of the pipeline: ordered references and an
// optional prompt template shared by every item.
type BatchRequest struct {
	// URLs are arXiv abstract or PDF URLs, processed in order.
	URLs []string `json:"urls" yaml:"urls"`

	// Prompt is an optional template; "{text}" marks where the paper text goes.
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`

	// ID is the batch id to use. Empty means one is generated.
	ID string `json:"-" yaml:"-"`
}

// ItemStatus is the outcome of one item in a batch.
type ItemStatus string

const (
	// ItemSucceeded means the summary streamed to completion.
	ItemSucceeded ItemStatus = "succeeded"
	// ItemFailed means fetch or extraction failed; no LLM call was made.
	ItemFailed ItemStatus = "failed"
	// ItemInterrupted means the LLM stream errored.
	ItemInterrupted ItemStatus = "interrupted"
)

// ItemRecord is the persisted outcome of one item.
type ItemRecord struct {
	BatchID    string     `json:"batch_id" yaml:"batch_id"`
	Index      int        `json:"index" yaml:"index"`
	Reference  string     `json:"reference" yaml:"reference"`
	PDFURL     string     `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
	Title      string     `json:"title,omitempty" yaml:"title,omitempty"`
	Status     ItemStatus `json:"status" yaml:"status"`
	Error      string     `json:"error,omitempty" yaml:"error,omitempty"`
	Summary    string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Provider   string     `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model      string     `json:"model,omitempty" yaml:"model,omitempty"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time  `json:"finished_at" yaml:"finished_at"`
}
