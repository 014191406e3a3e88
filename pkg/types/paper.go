// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds the metadata scraped from an arXiv abstract page.
type Paper struct {
	// ID is the arXiv identifier (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// SourceURL is the abstract page the metadata came from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// PDFURL is the resolved download URL.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in page order.
	Authors []string `json:"authors" yaml:"authors"`

	// Date is the submission date when the page carries one.
	Date time.Time `json:"date" yaml:"date"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`
}
