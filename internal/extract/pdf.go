// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paper-reader/pkg/types"
)

// PDFExtractor reads text with a pure Go PDF parser. Page texts are joined
// without a separator; a page with no text contributes "".
type PDFExtractor struct{}

// Extract implements Extractor.
func (PDFExtractor) Extract(ctx context.Context, path string) (text string, err error) {
	// The parser panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: parsing %s: %v", types.ErrExtraction, path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %w", types.ErrExtraction, path, err)
	}
	defer f.Close()

	var b strings.Builder
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := page.Font(name)
				fonts[name] = &font
			}
		}

		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("%w: page %d of %s: %w", types.ErrExtraction, i, path, err)
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}
