// Package rows validates raw table rows into comparison summary rows.
package rows

import (
	"strings"

	"gocompare/adapters/datareadiness/coercer"
	"gocompare/domain/comparison"
	"gocompare/domain/core"
)

// ColumnMapping lists, per field, the header names accepted for it. Matching
// is case-insensitive and the first candidate present in the table wins.
type ColumnMapping struct {
	GroupID  []string `json:"group_id"`
	Approach []string `json:"approach"`
	Mean     []string `json:"mean"`
	StdDev   []string `json:"stddev"`
	Count    []string `json:"count"`
}

// DefaultColumnMapping accepts both the survey export headers and the
// snake_case schema names.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		GroupID:  []string{"QuestionGroupID", "group_id"},
		Approach: []string{"Submission Approach", "approach"},
		Mean:     []string{"Average Score", "mean"},
		StdDev:   []string{"Standard Deviation", "stddev"},
		Count:    []string{"Num Students", "count"},
	}
}

// WithOverrides puts non-empty overrides in front of the defaults.
func (m ColumnMapping) WithOverrides(group, approach, mean, stddev, count string) ColumnMapping {
	prepend := func(name string, list []string) []string {
		if strings.TrimSpace(name) == "" {
			return list
		}
		return append([]string{name}, list...)
	}
	return ColumnMapping{
		GroupID:  prepend(group, m.GroupID),
		Approach: prepend(approach, m.Approach),
		Mean:     prepend(mean, m.Mean),
		StdDev:   prepend(stddev, m.StdDev),
		Count:    prepend(count, m.Count),
	}
}

// resolvedColumns holds the actual header text per field; "" means absent.
type resolvedColumns struct {
	group, approach, mean, stddev, count string
}

// Validator coerces raw rows into SummaryRows. Rows are never dropped.
type Validator struct {
	mapping ColumnMapping
	coercer *coercer.TypeCoercer
}

// NewValidator creates a validator.
func NewValidator(mapping ColumnMapping, c *coercer.TypeCoercer) *Validator {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &Validator{mapping: mapping, coercer: c}
}

// Validate converts the table. Only a missing group or approach column is an
// error; a missing numeric column degrades every value in it to missing.
func (v *Validator) Validate(table comparison.RawTable) ([]comparison.SummaryRow, comparison.ValidationReport, error) {
	report := comparison.ValidationReport{InputRows: len(table.Rows)}

	cols, err := v.resolve(table.Headers)
	if err != nil {
		return nil, report, err
	}

	out := make([]comparison.SummaryRow, 0, len(table.Rows))
	for i, raw := range table.Rows {
		row := comparison.SummaryRow{
			GroupID:       comparison.GroupID(raw[cols.group]),
			ApproachLabel: raw[cols.approach],
			SourceRow:     i + 2, // header is row 1
		}
		row.Approach = comparison.ParseApproach(row.ApproachLabel)
		row.Mean = v.coercer.CoerceFloat(lookup(raw, cols.mean))
		row.StdDev = v.coercer.CoerceNonNegative(lookup(raw, cols.stddev))
		row.Count = v.coercer.CoerceCount(lookup(raw, cols.count))

		if row.GroupID == "" {
			report.BlankGroup++
		}
		if !row.Approach.Known() {
			report.UnknownApproach++
			if report.UnknownLabels == nil {
				report.UnknownLabels = make(map[string]int)
			}
			report.UnknownLabels[row.ApproachLabel]++
		}
		if row.Mean.IsMissing() {
			report.MissingMean++
		}
		if row.StdDev.IsMissing() {
			report.MissingStdDev++
		}
		if row.Count.IsMissing() {
			report.MissingCount++
		}
		out = append(out, row)
	}
	return out, report, nil
}

func lookup(raw comparison.RawRow, column string) string {
	if column == "" {
		return ""
	}
	return raw[column]
}

func (v *Validator) resolve(headers []string) (resolvedColumns, error) {
	var cols resolvedColumns
	cols.group = findHeader(headers, v.mapping.GroupID)
	if cols.group == "" {
		return cols, core.NewMissingColumnError("group_id", v.mapping.GroupID)
	}
	cols.approach = findHeader(headers, v.mapping.Approach)
	if cols.approach == "" {
		return cols, core.NewMissingColumnError("approach", v.mapping.Approach)
	}
	cols.mean = findHeader(headers, v.mapping.Mean)
	cols.stddev = findHeader(headers, v.mapping.StdDev)
	cols.count = findHeader(headers, v.mapping.Count)
	return cols, nil
}

func findHeader(headers []string, candidates []string) string {
	for _, want := range candidates {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(want)) {
				return h
			}
		}
	}
	return ""
}

// MissingNumericColumns names the numeric fields absent from headers. The
// caller logs them; validation still proceeds.
func (v *Validator) MissingNumericColumns(headers []string) []string {
	var missing []string
	if findHeader(headers, v.mapping.Mean) == "" {
		missing = append(missing, "mean")
	}
	if findHeader(headers, v.mapping.StdDev) == "" {
		missing = append(missing, "stddev")
	}
	if findHeader(headers, v.mapping.Count) == "" {
		missing = append(missing, "count")
	}
	return missing
}
