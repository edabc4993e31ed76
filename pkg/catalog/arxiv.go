package catalog

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pcurve/pctl/pkg/net"
)

const arxivAPIBaseURL = "https://export.arxiv.org/api/query"

// ArxivClient queries the public arXiv Atom API. No authentication needed.
type ArxivClient struct {
	BaseURL string
}

func NewArxivClient() *ArxivClient {
	return &ArxivClient{BaseURL: arxivAPIBaseURL}
}

// Search finds up to max papers by the given author, newest first.
func (c *ArxivClient) Search(author string, max int) ([]*SearchResult, error) {
	if author == "" {
		return nil, fmt.Errorf("author is required")
	}

	q := url.Values{}
	q.Set("search_query", fmt.Sprintf(`au:%q`, strings.TrimSpace(author)))
	q.Set("start", "0")
	q.Set("max_results", fmt.Sprintf("%d", max))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")

	addr := c.BaseURL + "?" + q.Encode()
	slog.Debug("querying arXiv", "url", addr)

	body, err := net.GetBody(addr)
	if err != nil {
		return nil, fmt.Errorf("querying arXiv: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}

	results := make([]*SearchResult, 0, len(feed.Items))
	for _, item := range feed.Items {
		id := shortID(item)
		if id == "" {
			continue
		}
		r := &SearchResult{
			Identifier: id,
			Title:      strings.Join(strings.Fields(item.Title), " "),
			Source:     SourceArxiv,
			PDFURL:     "https://arxiv.org/pdf/" + id,
		}
		for _, a := range item.Authors {
			if a != nil && a.Name != "" {
				r.Authors = append(r.Authors, a.Name)
			}
		}
		if item.PublishedParsed != nil {
			r.Published = item.PublishedParsed.Format("2006-01-02")
		}
		results = append(results, r)
	}

	return results, nil
}

// shortID extracts the arXiv ID from an entry id like
// http://arxiv.org/abs/2101.00001v2 (older IDs contain a category slash).
func shortID(item *gofeed.Item) string {
	id := item.GUID
	if id == "" {
		id = item.Link
	}
	if i := strings.Index(id, "/abs/"); i >= 0 {
		return id[i+len("/abs/"):]
	}
	return ""
}
