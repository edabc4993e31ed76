package catalog

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pcurve/pctl/pkg/net"
)

const (
	s2APIBaseURL = "https://api.semanticscholar.org/graph/v1/paper/search"
	s2Fields     = "title,authors,publicationDate,externalIds,openAccessPdf"
)

// SemanticScholarClient queries the Semantic Scholar Graph API. An API key
// is optional; without one the shared public rate limit applies.
type SemanticScholarClient struct {
	BaseURL string
	apiKey  string
}

func NewSemanticScholarClient(apiKey string) *SemanticScholarClient {
	return &SemanticScholarClient{BaseURL: s2APIBaseURL, apiKey: apiKey}
}

type s2Paper struct {
	PaperID string `json:"paperId"`
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	PublicationDate string `json:"publicationDate"`
	ExternalIDs     struct {
		ArXiv string `json:"ArXiv"`
	} `json:"externalIds"`
	OpenAccessPdf struct {
		URL string `json:"url"`
	} `json:"openAccessPdf"`
}

type s2Response struct {
	Total int        `json:"total"`
	Data  []*s2Paper `json:"data"`
}

// Search finds up to max papers matching the author name. Results without
// an open-access PDF are returned with an empty PDFURL so callers can
// decide whether to skip or report them.
func (c *SemanticScholarClient) Search(author string, max int) ([]*SearchResult, error) {
	if author == "" {
		return nil, fmt.Errorf("author is required")
	}

	q := url.Values{}
	q.Set("query", strings.TrimSpace(author))
	q.Set("fields", s2Fields)
	q.Set("limit", fmt.Sprintf("%d", max))

	addr := c.BaseURL + "?" + q.Encode()
	slog.Debug("querying Semantic Scholar", "url", addr)

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"x-api-key": c.apiKey}
	}

	var resp s2Response
	if err := net.GetJSON(addr, headers, &resp); err != nil {
		return nil, fmt.Errorf("querying Semantic Scholar: %w", err)
	}

	results := make([]*SearchResult, 0, len(resp.Data))
	for _, p := range resp.Data {
		if p == nil || p.PaperID == "" {
			continue
		}
		id := p.PaperID
		if p.ExternalIDs.ArXiv != "" {
			id = p.ExternalIDs.ArXiv
		}
		r := &SearchResult{
			Identifier: id,
			Title:      p.Title,
			Published:  p.PublicationDate,
			Source:     SourceSemanticScholar,
			PDFURL:     p.OpenAccessPdf.URL,
		}
		for _, a := range p.Authors {
			if a.Name != "" {
				r.Authors = append(r.Authors, a.Name)
			}
		}
		results = append(results, r)
	}

	return results, nil
}
