// Package catalog searches public scholarly catalogs for an author's papers
// and resolves the PDF each one can be downloaded from.
package catalog

import (
	"fmt"
	"strings"
)

const (
	SourceArxiv           = "arxiv"
	SourceSemanticScholar = "s2"
)

// SearchResult is one candidate paper returned by a catalog query.
type SearchResult struct {
	// Identifier is the canonical ID from the source (arXiv ID or paper hash).
	Identifier string   `json:"identifier" yaml:"identifier"`
	Title      string   `json:"title" yaml:"title"`
	Authors    []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Published  string   `json:"published,omitempty" yaml:"published,omitempty"`
	// Source identifies which backend found this result.
	Source string `json:"source" yaml:"source"`
	// PDFURL is where the full text can be downloaded, when known.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdfUrl,omitempty"`
}

// FileName derives a safe local file name for the downloaded PDF.
func (r *SearchResult) FileName() string {
	id := strings.ReplaceAll(r.Identifier, "/", "_")
	return id + ".pdf"
}

// Searcher finds papers by author name, up to max results.
type Searcher interface {
	Search(author string, max int) ([]*SearchResult, error)
}

// NewSearcher returns the backend for a source name. The apiKey is only
// used by backends that support one.
func NewSearcher(source, apiKey string) (Searcher, error) {
	switch source {
	case SourceArxiv, "":
		return NewArxivClient(), nil
	case SourceSemanticScholar:
		return NewSemanticScholarClient(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown catalog source: %s", source)
	}
}
