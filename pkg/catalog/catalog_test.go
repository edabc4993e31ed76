package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arxivFeedSample = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query: search_query=au:"Jane Doe"</title>
  <entry>
    <id>http://arxiv.org/abs/2101.00001v2</id>
    <title>Deep Learning for
      Everything</title>
    <published>2021-01-01T00:00:00Z</published>
    <author><name>Jane Doe</name></author>
    <author><name>John Roe</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v1</id>
    <title>Older Style Identifier</title>
    <published>1999-01-05T00:00:00Z</published>
    <author><name>Jane Doe</name></author>
  </entry>
</feed>`

func TestArxivSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("search_query"), "au:")
		assert.Equal(t, "5", r.URL.Query().Get("max_results"))
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(arxivFeedSample))
	}))
	defer srv.Close()

	c := &ArxivClient{BaseURL: srv.URL}
	results, err := c.Search("Jane Doe", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "2101.00001v2", results[0].Identifier)
	assert.Equal(t, "Deep Learning for Everything", results[0].Title)
	assert.Equal(t, []string{"Jane Doe", "John Roe"}, results[0].Authors)
	assert.Equal(t, "2021-01-01", results[0].Published)
	assert.Equal(t, SourceArxiv, results[0].Source)
	assert.Equal(t, "https://arxiv.org/pdf/2101.00001v2", results[0].PDFURL)

	// Legacy category IDs keep their slash in the identifier.
	assert.Equal(t, "hep-th/9901001v1", results[1].Identifier)
	assert.Equal(t, "hep-th_9901001v1.pdf", results[1].FileName())
}

func TestArxivSearch_EmptyAuthor(t *testing.T) {
	c := NewArxivClient()
	_, err := c.Search("", 5)
	assert.Error(t, err)
}

func TestSemanticScholarSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "Jane Doe", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total": 2,
			"data": [
				{
					"paperId": "abc123",
					"title": "A Paper",
					"publicationDate": "2020-06-01",
					"authors": [{"name": "Jane Doe"}],
					"externalIds": {"ArXiv": "2006.00001"},
					"openAccessPdf": {"url": "https://example.org/a.pdf"}
				},
				{
					"paperId": "def456",
					"title": "Closed Access Paper",
					"authors": [{"name": "Jane Doe"}]
				}
			]
		}`))
	}))
	defer srv.Close()

	c := NewSemanticScholarClient("secret")
	c.BaseURL = srv.URL
	results, err := c.Search("Jane Doe", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "2006.00001", results[0].Identifier)
	assert.Equal(t, "https://example.org/a.pdf", results[0].PDFURL)
	assert.Equal(t, SourceSemanticScholar, results[0].Source)

	assert.Equal(t, "def456", results[1].Identifier)
	assert.Empty(t, results[1].PDFURL)
}

func TestNewSearcher(t *testing.T) {
	s, err := NewSearcher("", "")
	require.NoError(t, err)
	assert.IsType(t, &ArxivClient{}, s)

	s, err = NewSearcher(SourceSemanticScholar, "key")
	require.NoError(t, err)
	assert.IsType(t, &SemanticScholarClient{}, s)

	_, err = NewSearcher("pubmed", "")
	assert.Error(t, err)
}
