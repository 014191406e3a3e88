// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm streams chat completions from the configured provider as an
// ordered sequence of text fragments.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/paper-reader/pkg/types"
)

// DefaultMaxTokens caps the generated answer when the config leaves it unset.
const DefaultMaxTokens = 2048

// FragmentKind tags a Fragment.
type FragmentKind int

const (
	// NoContent is a chunk that carries no answer text (role header,
	// usage record, reasoning-only delta).
	NoContent FragmentKind = iota
	// Content is a chunk of answer text.
	Content
)

// Fragment is one chunk of the model response.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// Stream is a lazy, finite, non-restartable sequence of fragments. Next
// returns io.EOF once the model finishes. The caller must Close it.
type Stream interface {
	Next() (Fragment, error)
	Close() error
}

// Streamer opens a response stream for a prompt.
type Streamer interface {
	Stream(ctx context.Context, prompt string) (Stream, error)
}

// Client is the provider handle. Build one per process with NewClient and
// share it; it holds no per-request state.
type Client struct {
	provider  Provider
	model     string
	maxTokens int
	api       *openai.Client
}

var _ Streamer = (*Client)(nil)

// NewClient resolves the provider and builds the API client. Credentials
// are not checked here; a bad or missing key fails the first Stream call.
func NewClient(cfg types.LLMConfig, httpClient *http.Client) (*Client, error) {
	provider, err := ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	pc := settings(provider, cfg)

	conf := openai.DefaultConfig(pc.APIKey)
	conf.BaseURL = pc.BaseURL
	if httpClient != nil {
		conf.HTTPClient = httpClient
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &Client{
		provider:  provider,
		model:     pc.Model,
		maxTokens: maxTokens,
		api:       openai.NewClientWithConfig(conf),
	}, nil
}

// Provider returns the resolved provider.
func (c *Client) Provider() Provider { return c.provider }

// Model returns the model identifier requests are sent with.
func (c *Client) Model() string { return c.model }

// Stream sends prompt as a single user message and returns the response
// stream. Errors before the first fragment wrap ErrUpstream.
func (c *Client) Stream(ctx context.Context, prompt string) (Stream, error) {
	if c == nil || c.api == nil || (c.provider != ProviderOpenAI && c.provider != ProviderAli) {
		return nil, fmt.Errorf("%w: client not configured with openai or ali", types.ErrUnsupportedProvider)
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
		Stream:    true,
	}

	s, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrUpstream, c.provider, err)
	}
	return &chatStream{stream: s, provider: c.provider}, nil
}

type chatStream struct {
	stream   *openai.ChatCompletionStream
	provider Provider
}

func (s *chatStream) Next() (Fragment, error) {
	resp, err := s.stream.Recv()
	if errors.Is(err, io.EOF) {
		return Fragment{}, io.EOF
	}
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: %s stream: %w", types.ErrUpstream, s.provider, err)
	}
	return fragmentFrom(resp), nil
}

func (s *chatStream) Close() error {
	return s.stream.Close()
}

// fragmentFrom classifies a chunk by structure: only a first choice with a
// non-empty delta content is Content.
func fragmentFrom(resp openai.ChatCompletionStreamResponse) Fragment {
	if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
		return Fragment{Kind: NoContent}
	}
	return Fragment{Kind: Content, Text: resp.Choices[0].Delta.Content}
}
