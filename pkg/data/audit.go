package data

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pcurve/pctl/pkg/doc"
	"github.com/pcurve/pctl/pkg/pcurve"
)

const (
	insertAuditSQL = `INSERT INTO audit (
			path, file, format, pages,
			total_count, filtered_count, above_count,
			risky_count, high_sig_count, risk_ratio,
			score, verdict, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	insertPValueSQL = `INSERT INTO pvalue (audit_id, pos, value) VALUES (?, ?, ?)`

	selectAuditSQL = `SELECT id, path, file, format, pages,
			total_count, filtered_count, above_count,
			risky_count, high_sig_count, risk_ratio,
			score, verdict, created_at
		FROM audit
	`

	selectAuditValuesSQL = `SELECT value FROM pvalue
		WHERE audit_id = ?
		ORDER BY pos
	`

	listLimitDefault = 100
)

// Audit is one stored audit run for a document.
type Audit struct {
	ID        int64           `json:"id" yaml:"id"`
	Path      string          `json:"path" yaml:"path"`
	File      string          `json:"file" yaml:"file"`
	Format    string          `json:"format" yaml:"format"`
	Pages     int             `json:"pages" yaml:"pages"`
	Summary   *pcurve.Summary `json:"summary" yaml:"summary"`
	Score     int             `json:"score" yaml:"score"`
	Verdict   string          `json:"verdict" yaml:"verdict"`
	CreatedAt string          `json:"created_at" yaml:"createdAt"`
	Values    []float64       `json:"values,omitempty" yaml:"values,omitempty"`
}

// SaveAudit stores the audit record and its ordered p-values in one
// transaction, returning the new record id.
func SaveAudit(db *sql.DB, d *doc.Document, values []float64, s *pcurve.Summary, r *pcurve.Result) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	if d == nil || s == nil || r == nil {
		return 0, errors.New("document, summary, and result are required")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Exec(insertAuditSQL,
		d.Path, fileName(d.Path), string(d.Format), d.Pages,
		s.TotalCount, s.FilteredCount, s.AboveCount,
		s.RiskyCount, s.HighSigCount, s.RiskRatio,
		r.Score, r.Verdict, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to insert audit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to get audit id: %w", err)
	}

	for i, v := range values {
		if _, err := tx.Exec(insertPValueSQL, id, i, v); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert p-value: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// ListAudits returns the most recent audit runs, newest first.
func ListAudits(db *sql.DB, limit int) ([]*Audit, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 || limit > listLimitDefault {
		limit = listLimitDefault
	}

	rows, err := db.Query(selectAuditSQL+" ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audits: %w", err)
	}
	defer rows.Close()

	list := make([]*Audit, 0)
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// GetAudit returns one audit run with its stored p-values, or nil when
// the id is unknown.
func GetAudit(db *sql.DB, id int64) (*Audit, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	row := db.QueryRow(selectAuditSQL+" WHERE id = ?", id)
	a, err := scanAudit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := db.Query(selectAuditValuesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value row: %w", err)
		}
		a.Values = append(a.Values, v)
	}
	return a, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAudit(row rowScanner) (*Audit, error) {
	a := &Audit{Summary: &pcurve.Summary{}}
	err := row.Scan(
		&a.ID, &a.Path, &a.File, &a.Format, &a.Pages,
		&a.Summary.TotalCount, &a.Summary.FilteredCount, &a.Summary.AboveCount,
		&a.Summary.RiskyCount, &a.Summary.HighSigCount, &a.Summary.RiskRatio,
		&a.Score, &a.Verdict, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan audit row: %w", err)
	}
	return a, nil
}

func fileName(path string) string {
	return filepath.Base(path)
}
