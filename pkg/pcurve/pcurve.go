// Package pcurve scores a distribution of reported p-values for signs of
// result manipulation. Legitimate effects produce a right-skewed cluster of
// very small p-values; manipulated results cluster unnaturally just under
// the 0.05 significance threshold. The ratio of the two bands drives a
// bounded integrity score.
//
// Reference: Simonsohn, Nelson & Simmons (2014), "P-curve: A key to the
// file-drawer", Journal of Experimental Psychology.
package pcurve

import (
	"math"
)

const (
	// WindowMax is the upper edge of the conventional significance window.
	WindowMax = 0.05
	// RiskyMin is the lower edge of the suspicious clustering band.
	RiskyMin = 0.04
	// HighSigMax is the upper edge of the high-significance band.
	HighSigMax = 0.01

	scoreMax              = 100
	highRiskThreshold     = 40
	moderateRiskThreshold = 70
)

// Verdict labels returned by Analyze.
const (
	VerdictNoValues       = "No p-values in 0-0.05"
	VerdictHighRisk       = "High Risk"
	VerdictModerateRisk   = "Moderate Risk"
	VerdictLikelyReliable = "Likely Reliable"
)

// Result is the integrity score for one document.
type Result struct {
	Score   int    `json:"score" yaml:"score"`
	Verdict string `json:"verdict" yaml:"verdict"`
}

// Summary carries the per-band counts behind a score, for diagnostic display.
type Summary struct {
	TotalCount    int     `json:"total_count" yaml:"totalCount"`
	FilteredCount int     `json:"filtered_count" yaml:"filteredCount"`
	AboveCount    int     `json:"count_above_0_05" yaml:"countAbove005"`
	RiskyCount    int     `json:"risky_count" yaml:"riskyCount"`
	HighSigCount  int     `json:"high_sig_count" yaml:"highSigCount"`
	RiskRatio     float64 `json:"risk_ratio" yaml:"riskRatio"`
}

// counts is the shared windowing computation behind Analyze and Summarize.
type counts struct {
	total   int
	window  int
	above   int
	risky   int
	highSig int
}

func (c *counts) ratio() float64 {
	denom := c.highSig
	if denom == 0 {
		// No highly significant evidence at all: treat the denominator as 1
		// so the ratio grows in direct proportion to the risky count.
		denom = 1
	}
	return float64(c.risky) / float64(denom)
}

func count(values []float64) *counts {
	c := &counts{}
	for _, p := range values {
		// Non-probabilities (NaN, negative, above 1) are extraction noise.
		if math.IsNaN(p) || p < 0 || p > 1 {
			continue
		}
		c.total++
		if p > WindowMax {
			c.above++
			continue
		}
		c.window++
		if p >= RiskyMin {
			c.risky++
		}
		if p <= HighSigMax {
			c.highSig++
		}
	}
	return c
}

// Analyze computes the integrity score and verdict for a sequence of
// p-values. Invalid entries are silently dropped. An input with no values
// in the [0, 0.05] window returns a clean score of 100.
func Analyze(values []float64) *Result {
	c := count(values)
	if c.window == 0 {
		return &Result{Score: scoreMax, Verdict: VerdictNoValues}
	}

	ratio := c.ratio()
	score := int(math.Round(scoreMax * (1.0 / (1.0 + ratio))))

	verdict := VerdictLikelyReliable
	switch {
	case score < highRiskThreshold:
		verdict = VerdictHighRisk
	case score < moderateRiskThreshold:
		verdict = VerdictModerateRisk
	}

	return &Result{Score: score, Verdict: verdict}
}

// Summarize returns the detailed counts and risk ratio for the same input
// Analyze scores. Counts above the window are informational only; the score
// is driven entirely by the [0, 0.05] bands.
func Summarize(values []float64) *Summary {
	c := count(values)
	s := &Summary{
		TotalCount:    c.total,
		FilteredCount: c.window,
		AboveCount:    c.above,
		RiskyCount:    c.risky,
		HighSigCount:  c.highSig,
		RiskRatio:     c.ratio(),
	}
	return s
}
