package verdict

import (
	"encoding/json"
	"fmt"

	"gocompare/domain/core"
)

// Alpha is the significance threshold. The comparison is strict: p == Alpha
// is not significant.
const Alpha = 0.05

// Verdict is the categorical outcome of one group's comparison.
type Verdict string

const (
	InsufficientData         Verdict = "Insufficient data"
	FavorSingle              Verdict = "Significant difference favoring Single"
	FavorDual                Verdict = "Significant difference favoring Dual"
	SignificantButEqualMeans Verdict = "Significant difference but means equal"
	NotSignificant           Verdict = "Not significant"
)

// All lists every verdict in declaration order.
var All = []Verdict{
	InsufficientData,
	FavorSingle,
	FavorDual,
	SignificantButEqualMeans,
	NotSignificant,
}

// Label returns the fixed human-readable text.
func (v Verdict) Label() string { return string(v) }

func (v Verdict) String() string { return string(v) }

// Significant reports whether the verdict came from p < Alpha.
func (v Verdict) Significant() bool {
	return v == FavorSingle || v == FavorDual || v == SignificantButEqualMeans
}

// Parse maps a label back to its verdict.
func Parse(label string) (Verdict, error) {
	for _, v := range All {
		if string(v) == label {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown verdict %q", label)
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := Parse(label)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Classify maps a p-value and the two approach means to a verdict.
// A missing p-value is InsufficientData regardless of the means.
func Classify(p core.OptFloat, meanSingle, meanDual float64) Verdict {
	pv, ok := p.Get()
	if !ok {
		return InsufficientData
	}
	if pv < Alpha {
		switch {
		case meanSingle > meanDual:
			return FavorSingle
		case meanDual > meanSingle:
			return FavorDual
		default:
			return SignificantButEqualMeans
		}
	}
	return NotSignificant
}

// Counts tallies verdicts; every verdict is present with zero or more.
type Counts map[Verdict]int

// NewCounts returns a tally with every verdict initialised to zero.
func NewCounts() Counts {
	c := make(Counts, len(All))
	for _, v := range All {
		c[v] = 0
	}
	return c
}
