package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pcurve/pctl/pkg/data"
	"github.com/pcurve/pctl/pkg/pcurve"
)

const histogramBucketWidth = 0.005

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func homeViewHandler(tmpl *template.Template, db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := data.ListAudits(db, queryResultLimitDefault)
		if err != nil {
			slog.Error("failed to list audits", "error", err)
			http.Error(w, "failed to list audits", http.StatusInternalServerError)
			return
		}
		if err := tmpl.ExecuteTemplate(w, "index.html", map[string]any{
			"Version": version,
			"Audits":  list,
		}); err != nil {
			slog.Error("failed to render home view", "error", err)
		}
	}
}

func auditsAPIHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryParamInt(r, "limit", queryResultLimitDefault)
		list, err := data.ListAudits(db, limit)
		if err != nil {
			slog.Error("failed to list audits", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list audits")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// AuditDetail is the dashboard payload for one audit: the stored record
// plus the value histogram across the significance window.
type AuditDetail struct {
	*data.Audit
	Histogram *SeriesData[int] `json:"histogram"`
}

// SeriesData is chart-ready labeled series data.
type SeriesData[T any] struct {
	Labels []string `json:"labels" yaml:"labels"`
	Data   []T      `json:"data" yaml:"data"`
}

func auditDetailAPIHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid audit id")
			return
		}

		a, err := data.GetAudit(db, id)
		if err != nil {
			slog.Error("failed to get audit", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get audit")
			return
		}
		if a == nil {
			writeError(w, http.StatusNotFound, "audit not found")
			return
		}

		writeJSON(w, http.StatusOK, &AuditDetail{
			Audit:     a,
			Histogram: histogram(a.Values),
		})
	}
}

// histogram buckets the window values into fixed-width bins across
// [0, 0.05]. Values outside the window are not charted.
func histogram(values []float64) *SeriesData[int] {
	windowMax := float64(pcurve.WindowMax)
	buckets := int(windowMax/histogramBucketWidth + 0.5)
	s := &SeriesData[int]{
		Labels: make([]string, buckets),
		Data:   make([]int, buckets),
	}
	for i := 0; i < buckets; i++ {
		s.Labels[i] = fmt.Sprintf("%.3f", float64(i)*histogramBucketWidth)
	}
	for _, v := range values {
		if v < 0 || v > pcurve.WindowMax {
			continue
		}
		i := int(v / histogramBucketWidth)
		if i >= buckets {
			i = buckets - 1
		}
		s.Data[i]++
	}
	return s
}

func queryParamInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
