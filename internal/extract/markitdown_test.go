// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-reader/pkg/types"
)

// fakeRuntime implements container.Runtime for testing.
type fakeRuntime struct {
	imageErr error
	runErr   error
	output   string
	gotInput string
}

func (f *fakeRuntime) Name() string                              { return "fake" }
func (f *fakeRuntime) Available(context.Context) bool            { return true }
func (f *fakeRuntime) ImageExists(context.Context, string) error { return f.imageErr }

func (f *fakeRuntime) Run(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	data, _ := io.ReadAll(stdin)
	f.gotInput = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestMarkitdownExtractor(t *testing.T) {
	path := writeFile(t, "paper.pdf", []byte("%PDF-1.4 body"))
	rt := &fakeRuntime{output: "# Title\n\nBody text."}

	text, err := NewMarkitdownExtractor(rt, "markitdown:latest").Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody text.", text)
	assert.Equal(t, "%PDF-1.4 body", rt.gotInput)
}

func TestMarkitdownExtractor_Failures(t *testing.T) {
	path := writeFile(t, "paper.pdf", []byte("%PDF-1.4 body"))

	tests := []struct {
		name string
		ext  *MarkitdownExtractor
		path string
	}{
		{"no runtime", &MarkitdownExtractor{image: "markitdown:latest", unavailable: errors.New("no container runtime available")}, path},
		{"missing image", NewMarkitdownExtractor(&fakeRuntime{imageErr: errors.New("image not found")}, "markitdown:latest"), path},
		{"container fails", NewMarkitdownExtractor(&fakeRuntime{runErr: errors.New("exit status 1")}, "markitdown:latest"), path},
		{"missing file", NewMarkitdownExtractor(&fakeRuntime{}, "markitdown:latest"), filepath.Join(t.TempDir(), "nope.pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ext.Extract(context.Background(), tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrExtraction)
		})
	}
}

func TestNew(t *testing.T) {
	ext, err := New(context.Background(), types.ExtractConfig{})
	require.NoError(t, err)
	assert.IsType(t, PDFExtractor{}, ext)

	ext, err = New(context.Background(), types.ExtractConfig{Backend: types.BackendPDF})
	require.NoError(t, err)
	assert.IsType(t, PDFExtractor{}, ext)

	_, err = New(context.Background(), types.ExtractConfig{Backend: "pdfplumber"})
	assert.ErrorContains(t, err, `unknown extract backend "pdfplumber"`)
}
