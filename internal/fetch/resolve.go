// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/paper-reader/pkg/types"
)

// Kind classifies a reference by URL shape.
type Kind int

const (
	KindUnknown Kind = iota
	KindAbstract
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindAbstract:
		return "abstract"
	case KindPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// Base URLs for reference resolution. Declared as vars so tests can
// substitute httptest servers.
var (
	arxivPDFBase = "https://arxiv.org/pdf/"
	arxivAbsBase = "https://arxiv.org/abs/"
)

// arxivHosts lists the hosts a reference may name. Subdomains such as
// export.arxiv.org are accepted too.
var arxivHosts = []string{"arxiv.org"}

const (
	absPrefix = "/abs/"
	pdfPrefix = "/pdf/"
)

// parseReference parses ref as an http(s) URL on an arXiv host. A missing
// scheme means https.
func parseReference(ref string) (*url.URL, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	if !strings.Contains(ref, "://") {
		ref = "https://" + ref
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.User != nil {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range arxivHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return u, true
		}
	}
	return nil, false
}

// Classify determines the URL shape of ref and returns the paper identifier:
// the path after /abs/ or /pdf/, so old-style ids keep their archive
// prefix (hep-th/9901001). A trailing slash and a ".pdf" suffix are not part
// of the identifier. References on other hosts are KindUnknown.
func Classify(ref string) (Kind, string) {
	u, ok := parseReference(ref)
	if !ok {
		return KindUnknown, ""
	}

	var kind Kind
	var rest string
	switch {
	case strings.HasPrefix(u.Path, absPrefix):
		kind, rest = KindAbstract, u.Path[len(absPrefix):]
	case strings.HasPrefix(u.Path, pdfPrefix):
		kind, rest = KindPDF, u.Path[len(pdfPrefix):]
	default:
		return KindUnknown, ""
	}
	return kind, strings.TrimSuffix(strings.Trim(rest, "/"), ".pdf")
}

// ResolvePDFURL returns the download URL for ref. An abstract URL is
// rewritten to the arXiv PDF endpoint for its identifier; a PDF URL keeps
// its scheme and host and gets ".pdf" appended when missing. Anything else
// is rejected with ErrInvalidReference before any network call.
func ResolvePDFURL(ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	kind, id := Classify(ref)
	if kind == KindUnknown {
		return "", fmt.Errorf("%w: %q is not an arXiv abstract or PDF URL", types.ErrInvalidReference, ref)
	}
	if id == "" {
		return "", fmt.Errorf("%w: %q has no paper identifier", types.ErrInvalidReference, ref)
	}

	if kind == KindAbstract {
		return arxivPDFBase + id + ".pdf", nil
	}

	u, _ := parseReference(ref)
	return u.Scheme + "://" + u.Host + pdfPrefix + id + ".pdf", nil
}
