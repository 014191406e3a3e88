// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-reader/pkg/types"
)

// buildPDF assembles a minimal single-font PDF with one page per entry in
// pages. An empty entry produces a page with an empty content stream.
// Object offsets are tracked so the xref table is exact.
func buildPDF(pages []string) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestPDFExtractor_PageOrder(t *testing.T) {
	path := writeFile(t, "paper.pdf", buildPDF([]string{"Hello", "World"}))

	text, err := PDFExtractor{}.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "HelloWorld", text)
}

func TestPDFExtractor_EmptyPageContributesNothing(t *testing.T) {
	path := writeFile(t, "paper.pdf", buildPDF([]string{"Hello", "", "World"}))

	text, err := PDFExtractor{}.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "HelloWorld", text)
}

func TestPDFExtractor_InvalidPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a pdf", []byte("<html>rate limited</html>")},
		{"truncated header", []byte("%PDF-1.4 fake")},
		{"empty file", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.pdf", tt.data)
			_, err := PDFExtractor{}.Extract(context.Background(), path)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrExtraction)
		})
	}
}

func TestPDFExtractor_MissingFile(t *testing.T) {
	_, err := PDFExtractor{}.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, types.ErrExtraction)
}

func TestPDFExtractor_CancelledContext(t *testing.T) {
	path := writeFile(t, "paper.pdf", buildPDF([]string{"Hello"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PDFExtractor{}.Extract(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
