package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Matches a reported significance value: 'p' or 'P', optional whitespace,
// one of = < >, optional whitespace, then the numeric token.
// Captures forms like .05, 0.05, 0.001, 1.
var pValueRegEx = regexp.MustCompile(`[pP]\s*([=<>])\s*(\d*\.?\d+)`)

// PValue is one reported significance level found in a document.
type PValue struct {
	Value    float64 `json:"value" yaml:"value"`
	Operator string  `json:"operator" yaml:"operator"`
	Raw      string  `json:"raw" yaml:"raw"`
}

// Extract scans text for reported p-values and returns them, normalized to
// floats in [0, 1], in order of appearance. Tokens that fail to parse or
// fall outside [0, 1] are dropped. An input with no matches returns nil.
func Extract(text string) []float64 {
	values := ExtractValues(text)
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		out = append(out, v.Value)
	}
	return out
}

// ExtractValues is Extract with the match context (operator, raw token)
// preserved for diagnostic display.
func ExtractValues(text string) []*PValue {
	if text == "" {
		return nil
	}

	matches := pValueRegEx.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	list := make([]*PValue, 0, len(matches))
	for _, m := range matches {
		op, raw := m[1], m[2]
		v, ok := normalize(raw)
		if !ok {
			continue
		}
		list = append(list, &PValue{Value: v, Operator: op, Raw: raw})
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

// normalize parses a captured numeric token into a probability.
// Reports false for unparseable tokens and values outside [0, 1].
func normalize(raw string) (float64, bool) {
	s := raw
	if !strings.HasPrefix(s, "0") && !strings.Contains(s, ".") {
		// A dotless token is all digits, so this prefix never turns it
		// into a fraction; kept as a guard for malformed tokens only.
		s = "0" + s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}
