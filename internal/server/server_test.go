// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-reader/internal/pipeline"
	"github.com/pdiddy/paper-reader/pkg/types"
)

// fakeRunner writes one summary section per URL.
type fakeRunner struct {
	mu   sync.Mutex
	reqs []types.BatchRequest
	err  error
}

func (f *fakeRunner) Run(_ context.Context, req types.BatchRequest, w io.Writer) (pipeline.Result, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	res := pipeline.Result{BatchID: req.ID}
	if f.err != nil {
		return res, f.err
	}
	for i, u := range req.URLs {
		fmt.Fprintf(w, "\n=== [%d] %s summary ===\nabout %s\n", i+1, u, u)
		res.Succeeded++
	}
	return res, nil
}

func (f *fakeRunner) Collect(ctx context.Context, req types.BatchRequest) (string, pipeline.Result, error) {
	var b strings.Builder
	res, err := f.Run(ctx, req, &b)
	return b.String(), res, err
}

func newTestServer(t *testing.T, runner Runner) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(runner, types.ServerConfig{}, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{})
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestReadPapersStreams(t *testing.T) {
	runner := &fakeRunner{}
	srv := newTestServer(t, runner)

	resp, err := http.Post(srv.URL+"/read_papers/", "application/json",
		strings.NewReader(`{"urls":["https://arxiv.org/abs/2301.00001","x"],"prompt":"Short: {text}"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	id := resp.Header.Get(batchIDHeader)
	assert.Len(t, id, 36)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "\n=== [1] https://arxiv.org/abs/2301.00001 summary ===\nabout https://arxiv.org/abs/2301.00001\n"+
		"\n=== [2] x summary ===\nabout x\n", string(body))

	require.Len(t, runner.reqs, 1)
	assert.Equal(t, "Short: {text}", runner.reqs[0].Prompt)
	assert.Equal(t, id, runner.reqs[0].ID)
}

func TestReadPapersBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"urls":`},
		{name: "wrong type", body: `{"urls":"https://arxiv.org/abs/1"}`},
		{name: "missing urls", body: `{"prompt":"p"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			srv := newTestServer(t, runner)

			resp, err := http.Post(srv.URL+"/read_papers/", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var e errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.NotEmpty(t, e.Error)
			assert.Empty(t, runner.reqs)
		})
	}
}

func TestReadPapersEmptyList(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{})
	resp, err := http.Post(srv.URL+"/read_papers/", "application/json", strings.NewReader(`{"urls":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestReadPapersForm(t *testing.T) {
	runner := &fakeRunner{}
	srv := newTestServer(t, runner)

	form := url.Values{
		"urls":   {"  https://arxiv.org/abs/2301.00001 \n\n\r\nhttps://arxiv.org/pdf/2301.00002\n"},
		"prompt": {"Brief: {text}"},
	}
	resp, err := http.PostForm(srv.URL+"/read_papers/form", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got formResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotEmpty(t, got.BatchID)
	assert.Contains(t, got.Output, "=== [2] https://arxiv.org/pdf/2301.00002 summary ===")

	require.Len(t, runner.reqs, 1)
	assert.Equal(t, []string{"https://arxiv.org/abs/2301.00001", "https://arxiv.org/pdf/2301.00002"}, runner.reqs[0].URLs)
	assert.Equal(t, "Brief: {text}", runner.reqs[0].Prompt)
}

func TestReadPapersFormUnsupportedProvider(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{err: fmt.Errorf("%w: cohere", types.ErrUnsupportedProvider)})

	resp, err := http.PostForm(srv.URL+"/read_papers/form", url.Values{"urls": {"a"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var got formResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got.Error, "unsupported LLM provider")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/read_papers/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSplitURLs(t *testing.T) {
	assert.Equal(t, []string{}, splitURLs(""))
	assert.Equal(t, []string{"a", "b"}, splitURLs(" a \n\n  \nb"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(&fakeRunner{}, types.ServerConfig{ShutdownTimeout: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
