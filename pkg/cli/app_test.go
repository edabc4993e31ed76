package cli

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcurve/pctl/pkg/data"
	"github.com/pcurve/pctl/pkg/doc"
	"github.com/pcurve/pctl/pkg/pcurve"
)

func writeFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0600)
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, data.Init(dbPath))
	db, err := data.GetDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewApp(t *testing.T) {
	app := newApp()
	require.NotNil(t, app)
	assert.Equal(t, "pctl", app.Name)

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{"audit", "fetch", "query", "auth", "server"}, names)
}

func TestRunAudit_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.txt")
	text := "We found p=0.04 and p < .001; the control was p > 0.1."
	require.NoError(t, writeFile(t, path, text))

	run, err := runAudit(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.04, 0.001, 0.1}, run.values)
	assert.Equal(t, 3, run.summary.TotalCount)
	assert.Equal(t, 2, run.summary.FilteredCount)
	assert.Equal(t, 1, run.summary.AboveCount)

	rec := toRecord(run)
	assert.Equal(t, "paper.txt", rec.File)
	assert.Equal(t, run.result.Score, rec.Score)
}

func TestRunAudit_MissingFile(t *testing.T) {
	_, err := runAudit(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestAuditsAPIHandler(t *testing.T) {
	db := setupTestDB(t)

	values := []float64{0.002, 0.045}
	d := &doc.Document{Path: "/p/a.pdf", Format: doc.FormatPDF, Pages: 3}
	_, err := data.SaveAudit(db, d, values, pcurve.Summarize(values), pcurve.Analyze(values))
	require.NoError(t, err)

	mux := makeRouter(db)

	r := httptest.NewRequest(http.MethodGet, "/data/audits", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var list []*data.Audit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "a.pdf", list[0].File)
}

func TestAuditDetailAPIHandler(t *testing.T) {
	db := setupTestDB(t)

	values := []float64{0.002, 0.045, 0.3}
	d := &doc.Document{Path: "/p/a.pdf", Format: doc.FormatPDF, Pages: 3}
	id, err := data.SaveAudit(db, d, values, pcurve.Summarize(values), pcurve.Analyze(values))
	require.NoError(t, err)

	mux := makeRouter(db)

	r := httptest.NewRequest(http.MethodGet, "/data/audit?id=1", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var detail AuditDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, id, detail.ID)
	require.NotNil(t, detail.Histogram)
	assert.Len(t, detail.Histogram.Data, 10)

	// Unknown id and bad id.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data/audit?id=99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data/audit?id=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHomeViewHandler(t *testing.T) {
	db := setupTestDB(t)
	mux := makeRouter(db)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Research integrity audits")
}

func TestHistogram(t *testing.T) {
	s := histogram([]float64{0.0001, 0.002, 0.045, 0.049, 0.05, 0.2})
	require.Len(t, s.Data, 10)
	assert.Equal(t, 2, s.Data[0])  // 0.0001, 0.002
	assert.Equal(t, 3, s.Data[9])  // 0.045, 0.049, 0.05 (upper edge folded in)
	total := 0
	for _, n := range s.Data {
		total += n
	}
	assert.Equal(t, 5, total) // 0.2 is outside the window
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "short", shortTitle("  short "))
	long := "This is a very long paper title that keeps going and going beyond fifty characters"
	got := shortTitle(long)
	assert.Len(t, got, 53)
	assert.Contains(t, got, "...")
}

func TestQueryParamInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?limit=7&bad=zz", nil)
	assert.Equal(t, 7, queryParamInt(r, "limit", 3))
	assert.Equal(t, 3, queryParamInt(r, "bad", 3))
	assert.Equal(t, 3, queryParamInt(r, "missing", 3))
}
