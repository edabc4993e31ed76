package net

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPClient(t *testing.T) {
	c := GetHTTPClient()
	require.NotNil(t, c)
	assert.NotNil(t, c.Transport)
	assert.NotZero(t, c.Timeout)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/paper.pdf":
			w.Write([]byte("%PDF-1.4 fake"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "paper.pdf")

	err := Download(srv.URL+"/paper.pdf", target)
	require.NoError(t, err)
	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(b))

	err = Download(srv.URL+"/missing.pdf", filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, ErrorURLNotFound)
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total": 2}`))
	}))
	defer srv.Close()

	var out struct {
		Total int `json:"total"`
	}
	err := GetJSON(srv.URL, map[string]string{"x-api-key": "test-key"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
}
