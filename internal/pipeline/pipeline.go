// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a batch of paper references through fetch, extract,
// prompt and LLM stages, writing one section per reference to the caller as
// the summary is generated.
//
// References are processed strictly in input order. A failure in the fetch
// or extract stage produces an error section and the batch continues; a
// stream failure is reported inline in the item's section. Only an
// unsupported provider, a failed write to the caller, or a cancelled
// context stops the batch.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-reader/internal/fetch"
	"github.com/pdiddy/paper-reader/internal/llm"
	"github.com/pdiddy/paper-reader/internal/prompt"
	"github.com/pdiddy/paper-reader/pkg/types"
)

// Fetcher downloads a reference into a temporary artifact.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (*fetch.Artifact, error)
}

// Extractor turns an artifact into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// MetadataSource looks up descriptive metadata for a reference.
type MetadataSource interface {
	Metadata(ctx context.Context, ref string) (*types.Paper, error)
}

// Recorder receives one record per processed item.
type Recorder interface {
	Record(ctx context.Context, rec types.ItemRecord) error
}

// modelDescriber is implemented by streamers that can name their model.
type modelDescriber interface {
	Provider() llm.Provider
	Model() string
}

// Result tallies a batch.
type Result struct {
	BatchID     string
	Succeeded   int
	Failed      int
	Interrupted int
}

// Total returns the number of items that were processed.
func (r Result) Total() int {
	return r.Succeeded + r.Failed + r.Interrupted
}

// Pipeline is the batch orchestrator. It is safe for sequential reuse;
// concurrent batches each get their own sections but share the streamer.
type Pipeline struct {
	fetcher   Fetcher
	extractor Extractor
	streamer  llm.Streamer
	metadata  MetadataSource
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithRecorder stores a record of every item.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithMetadata enables title lookup for records.
func WithMetadata(m MetadataSource) Option {
	return func(p *Pipeline) { p.metadata = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithBatchID overrides batch id generation.
func WithBatchID(gen func() string) Option {
	return func(p *Pipeline) { p.newID = gen }
}

// New creates a Pipeline.
func New(f Fetcher, e Extractor, s llm.Streamer, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:   f,
		extractor: e,
		streamer:  s,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes req and writes every section to w. The returned error is
// non-nil only when the batch stopped early.
func (p *Pipeline) Run(ctx context.Context, req types.BatchRequest, w io.Writer) (Result, error) {
	res := Result{BatchID: req.ID}
	if res.BatchID == "" {
		res.BatchID = p.newID()
	}
	out := &sectionWriter{w: w}
	logger := p.logger.With("batch", res.BatchID)
	logger.Info("batch started", "items", len(req.URLs))

	for i, ref := range req.URLs {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch cancelled", "processed", res.Total())
			return res, err
		}

		rec := p.newRecord(res.BatchID, i+1, ref)
		err := p.runItem(ctx, &rec, req.Prompt, out)
		rec.FinishedAt = p.now()

		switch rec.Status {
		case types.ItemSucceeded:
			res.Succeeded++
		case types.ItemFailed:
			res.Failed++
		case types.ItemInterrupted:
			res.Interrupted++
		}
		logger.Info("item done", "index", rec.Index, "ref", ref, "status", rec.Status,
			"elapsed", rec.FinishedAt.Sub(rec.StartedAt))
		p.record(ctx, logger, rec)

		if err != nil {
			logger.Error("batch aborted", "index", rec.Index, "error", err)
			return res, err
		}
	}

	logger.Info("batch finished", "succeeded", res.Succeeded, "failed", res.Failed,
		"interrupted", res.Interrupted)
	return res, nil
}

// Collect runs req and returns the complete output once the batch is done.
func (p *Pipeline) Collect(ctx context.Context, req types.BatchRequest) (string, Result, error) {
	var buf bytes.Buffer
	res, err := p.Run(ctx, req, &buf)
	return buf.String(), res, err
}

func (p *Pipeline) newRecord(batchID string, index int, ref string) types.ItemRecord {
	rec := types.ItemRecord{
		BatchID:   batchID,
		Index:     index,
		Reference: ref,
		StartedAt: p.now(),
	}
	if d, ok := p.streamer.(modelDescriber); ok {
		rec.Provider = d.Provider().String()
		rec.Model = d.Model()
	}
	return rec
}

// runItem writes exactly one section for rec.Reference. It returns an error
// only when the batch must stop.
func (p *Pipeline) runItem(ctx context.Context, rec *types.ItemRecord, template string, out *sectionWriter) error {
	text, pdfURL, err := p.acquire(ctx, rec.Reference)
	rec.PDFURL = pdfURL
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			rec.Status = types.ItemInterrupted
			rec.Error = ctxErr.Error()
			return ctxErr
		}
		rec.Status = types.ItemFailed
		rec.Error = err.Error()
		return out.printf("\n=== [%d] %s error: %s ===\n", rec.Index, rec.Reference, err)
	}

	if p.metadata != nil {
		if paper, err := p.metadata.Metadata(ctx, rec.Reference); err != nil {
			p.logger.Debug("metadata lookup failed", "ref", rec.Reference, "error", err)
		} else {
			rec.Title = paper.Title
		}
	}

	stream, streamErr := p.streamer.Stream(ctx, prompt.Build(text, template))
	if errors.Is(streamErr, types.ErrUnsupportedProvider) {
		rec.Status = types.ItemFailed
		rec.Error = streamErr.Error()
		return streamErr
	}

	if err := out.printf("\n=== [%d] %s summary ===\n", rec.Index, rec.Reference); err != nil {
		if stream != nil {
			stream.Close()
		}
		rec.Status = types.ItemInterrupted
		rec.Error = err.Error()
		return err
	}

	// The answer is only kept when something will record it.
	var summary *strings.Builder
	if p.recorder != nil {
		summary = &strings.Builder{}
	}
	if streamErr == nil {
		var writeErr error
		streamErr, writeErr = forward(stream, out, summary)
		if summary != nil {
			rec.Summary = summary.String()
		}
		if writeErr != nil {
			rec.Status = types.ItemInterrupted
			rec.Error = writeErr.Error()
			return writeErr
		}
	}

	if streamErr != nil {
		rec.Status = types.ItemInterrupted
		if ctxErr := ctx.Err(); ctxErr != nil {
			rec.Error = ctxErr.Error()
			return ctxErr
		}
		rec.Error = streamErr.Error()
		if err := out.printf("\n[stream error: %s]\n", streamErr); err != nil {
			return err
		}
	} else {
		rec.Status = types.ItemSucceeded
	}

	return out.printf("\n")
}

// acquire fetches and extracts ref. The artifact is removed before it
// returns, whatever the outcome.
func (p *Pipeline) acquire(ctx context.Context, ref string) (text, pdfURL string, err error) {
	art, err := p.fetcher.Fetch(ctx, ref)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if rmErr := art.Remove(); rmErr != nil {
			p.logger.Warn("artifact not removed", "path", art.Path, "error", rmErr)
		}
	}()

	text, err = p.extractor.Extract(ctx, art.Path)
	return text, art.SourceURL, err
}

// forward copies content fragments to out until the stream ends, also
// appending them to summary when it is non-nil. It reports stream and write
// failures separately.
func forward(s llm.Stream, out *sectionWriter, summary *strings.Builder) (streamErr, writeErr error) {
	defer s.Close()
	for {
		f, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return err, nil
		}
		if f.Kind != llm.Content {
			continue
		}
		if summary != nil {
			summary.WriteString(f.Text)
		}
		if err := out.write(f.Text); err != nil {
			return nil, err
		}
	}
}

func (p *Pipeline) record(ctx context.Context, logger *slog.Logger, rec types.ItemRecord) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("recording item failed", "index", rec.Index, "error", err)
	}
}
