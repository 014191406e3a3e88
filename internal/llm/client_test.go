// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-reader/pkg/types"
)

// sseServer serves /v1/chat/completions as an event stream of the given
// raw data payloads followed by [DONE]. The decoded request is sent on got.
func sseServer(t *testing.T, payloads []string, got chan<- map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["authorization"] = r.Header.Get("Authorization")
		if got != nil {
			got <- body
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, p := range payloads {
			fmt.Fprintf(w, "data: %s\n\n", p)
			w.(http.Flusher).Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chunk(content string) string {
	return fmt.Sprintf(`{"id":"c1","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"content":%q}}]}`, content)
}

func testClient(t *testing.T, provider, baseURL string) *Client {
	t.Helper()
	pc := types.ProviderConfig{APIKey: "sk-test", Model: "test-model", BaseURL: baseURL}
	c, err := NewClient(types.LLMConfig{Provider: provider, MaxTokens: 128, OpenAI: pc, Ali: pc}, nil)
	require.NoError(t, err)
	return c
}

func drain(t *testing.T, s Stream) ([]Fragment, error) {
	t.Helper()
	defer s.Close()
	var out []Fragment
	for {
		f, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{in: "openai", want: ProviderOpenAI},
		{in: "OpenAI", want: ProviderOpenAI},
		{in: " ali ", want: ProviderAli},
		{in: "anthropic", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrUnsupportedProvider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient(types.LLMConfig{Provider: "ali"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderAli, c.Provider())
	assert.Equal(t, "deepseek-r1", c.Model())
	assert.Equal(t, DefaultMaxTokens, c.maxTokens)

	c, err = NewClient(types.LLMConfig{Provider: "openai"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-2025-04-14", c.Model())
}

func TestNewClientUnsupported(t *testing.T) {
	_, err := NewClient(types.LLMConfig{Provider: "cohere"}, nil)
	assert.ErrorIs(t, err, types.ErrUnsupportedProvider)
}

func TestStreamFragments(t *testing.T) {
	got := make(chan map[string]any, 1)
	srv := sseServer(t, []string{
		`{"id":"c1","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"role":"assistant"}}]}`,
		chunk("Hello"),
		chunk(", world"),
		`{"id":"c1","object":"chat.completion.chunk","model":"m","choices":[]}`,
	}, got)

	c := testClient(t, "openai", srv.URL+"/v1")
	s, err := c.Stream(context.Background(), "summarize this")
	require.NoError(t, err)

	frags, err := drain(t, s)
	require.NoError(t, err)
	require.Len(t, frags, 4)
	assert.Equal(t, NoContent, frags[0].Kind)
	assert.Equal(t, Fragment{Kind: Content, Text: "Hello"}, frags[1])
	assert.Equal(t, Fragment{Kind: Content, Text: ", world"}, frags[2])
	assert.Equal(t, NoContent, frags[3].Kind)

	body := <-got
	assert.Equal(t, "test-model", body["model"])
	assert.Equal(t, true, body["stream"])
	assert.EqualValues(t, 128, body["max_tokens"])
	assert.Equal(t, "Bearer sk-test", body["authorization"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "summarize this", msg["content"])
}

func TestStreamAliUsesSameProtocol(t *testing.T) {
	srv := sseServer(t, []string{chunk("ok")}, nil)
	c := testClient(t, "ali", srv.URL+"/v1")

	s, err := c.Stream(context.Background(), "p")
	require.NoError(t, err)
	frags, err := drain(t, s)
	require.NoError(t, err)
	require.Len(t, frags, 1)
	assert.Equal(t, "ok", frags[0].Text)
}

func TestStreamRejectedBeforeFragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	t.Cleanup(srv.Close)

	c := testClient(t, "openai", srv.URL+"/v1")
	_, err := c.Stream(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUpstream)
}

func TestStreamFailsMidway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", chunk("partial"))
		fmt.Fprint(w, "data: {not json\n\n")
	}))
	t.Cleanup(srv.Close)

	c := testClient(t, "openai", srv.URL+"/v1")
	s, err := c.Stream(context.Background(), "p")
	require.NoError(t, err)

	frags, err := drain(t, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUpstream)
	require.Len(t, frags, 1)
	assert.Equal(t, "partial", frags[0].Text)
}

func TestZeroClientIsUnsupported(t *testing.T) {
	var c Client
	_, err := c.Stream(context.Background(), "p")
	assert.ErrorIs(t, err, types.ErrUnsupportedProvider)
}

func TestFragmentFrom(t *testing.T) {
	assert.Equal(t, NoContent, fragmentFrom(openai.ChatCompletionStreamResponse{}).Kind)
}
