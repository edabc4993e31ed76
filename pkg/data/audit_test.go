package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcurve/pctl/pkg/doc"
	"github.com/pcurve/pctl/pkg/pcurve"
)

func TestSaveAudit_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	values := []float64{0.005, 0.009, 0.03, 0.045, 0.049, 0.2}
	d := &doc.Document{Path: "/papers/sample.pdf", Format: doc.FormatPDF, Pages: 12}
	s := pcurve.Summarize(values)
	r := pcurve.Analyze(values)

	id, err := SaveAudit(db, d, values, s, r)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := GetAudit(db, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "/papers/sample.pdf", got.Path)
	assert.Equal(t, "sample.pdf", got.File)
	assert.Equal(t, "pdf", got.Format)
	assert.Equal(t, 12, got.Pages)
	assert.Equal(t, 50, got.Score)
	assert.Equal(t, pcurve.VerdictModerateRisk, got.Verdict)
	assert.Equal(t, values, got.Values)
	assert.Equal(t, s.RiskyCount, got.Summary.RiskyCount)
	assert.Equal(t, s.HighSigCount, got.Summary.HighSigCount)
	assert.InDelta(t, s.RiskRatio, got.Summary.RiskRatio, 1e-9)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestSaveAudit_NilArgs(t *testing.T) {
	db := setupTestDB(t)

	_, err := SaveAudit(nil, nil, nil, nil, nil)
	assert.Error(t, err)

	_, err = SaveAudit(db, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestGetAudit_Unknown(t *testing.T) {
	db := setupTestDB(t)

	got, err := GetAudit(db, 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListAudits(t *testing.T) {
	db := setupTestDB(t)

	list, err := ListAudits(db, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	for i, values := range [][]float64{
		{0.001, 0.002},
		{0.045, 0.046, 0.047},
		nil,
	} {
		d := &doc.Document{Path: "/papers/p.pdf", Format: doc.FormatPDF, Pages: i + 1}
		_, err := SaveAudit(db, d, values, pcurve.Summarize(values), pcurve.Analyze(values))
		require.NoError(t, err)
	}

	list, err = ListAudits(db, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Newest first.
	assert.Equal(t, 3, list[0].Pages)

	list, err = ListAudits(db, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListAudits_NilDB(t *testing.T) {
	_, err := ListAudits(nil, 10)
	assert.Error(t, err)
}
