// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paper-reader/internal/httputil"
	"github.com/pdiddy/paper-reader/pkg/types"
)

// citationDateLayout is the format of the citation_date meta tag.
const citationDateLayout = "2006/01/02"

// Metadata scrapes title, authors, date and abstract from the arXiv abstract
// page of ref. The page exposes them as Highwire citation_* meta tags.
func (f *Fetcher) Metadata(ctx context.Context, ref string) (*types.Paper, error) {
	pdfURL, err := ResolvePDFURL(ref)
	if err != nil {
		return nil, err
	}
	_, id := Classify(ref)
	absURL := arxivAbsBase + id

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, absURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries, f.logger)
	if err != nil {
		return nil, fmt.Errorf("abstract page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("abstract page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing abstract page: %w", err)
	}

	paper := &types.Paper{
		ID:        id,
		SourceURL: absURL,
		PDFURL:    pdfURL,
		Title:     metaContent(doc, "citation_title"),
		Abstract:  metaContent(doc, "citation_abstract"),
	}
	if paper.Title == "" {
		return nil, fmt.Errorf("no citation metadata on %s", absURL)
	}

	doc.Find(`meta[name="citation_author"]`).Each(func(_ int, s *goquery.Selection) {
		if name, ok := s.Attr("content"); ok && strings.TrimSpace(name) != "" {
			paper.Authors = append(paper.Authors, strings.TrimSpace(name))
		}
	})

	if t, parseErr := time.Parse(citationDateLayout, metaContent(doc, "citation_date")); parseErr == nil {
		paper.Date = t
	}
	return paper, nil
}

func metaContent(doc *goquery.Document, name string) string {
	v, _ := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return strings.TrimSpace(v)
}
