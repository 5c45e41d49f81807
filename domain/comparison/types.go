// Package comparison holds the immutable records that flow through a
// single-vs-dual comparison run: raw rows, validated summary rows, pooled
// statistics, test outcomes and per-group results.
package comparison

import (
	"strings"

	"gocompare/domain/core"
	"gocompare/domain/verdict"
)

// Approach is the submission approach a summary row belongs to.
type Approach string

const (
	ApproachSingle  Approach = "single"
	ApproachDual    Approach = "dual"
	ApproachUnknown Approach = ""
)

// ParseApproach matches a label case-insensitively against "single" and
// "dual". Anything else, including labels with surrounding spaces, is unknown.
func ParseApproach(label string) Approach {
	switch strings.ToLower(label) {
	case string(ApproachSingle):
		return ApproachSingle
	case string(ApproachDual):
		return ApproachDual
	default:
		return ApproachUnknown
	}
}

// Known reports whether the approach is single or dual.
func (a Approach) Known() bool {
	return a == ApproachSingle || a == ApproachDual
}

// RawRow is one data row of an input table keyed by header text.
type RawRow map[string]string

// RawTable is a fully materialized input table.
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// SummaryRow is one validated (mean, stddev, count) measurement.
type SummaryRow struct {
	GroupID       GroupID       `json:"group_id"`
	Approach      Approach      `json:"approach"`
	ApproachLabel string        `json:"approach_label"`
	Mean          core.OptFloat `json:"mean"`
	StdDev        core.OptFloat `json:"stddev"`
	Count         core.OptInt   `json:"count"`
	SourceRow     int           `json:"source_row"`
}

// PooledStatistic combines the rows of one approach within one group.
// It only exists when TotalCount > 1.
type PooledStatistic struct {
	WeightedMean   float64 `json:"weighted_mean"`
	PooledVariance float64 `json:"pooled_variance"`
	TotalCount     int64   `json:"total_count"`
}

// TestOutcome is the result of Welch's t-test between two pooled statistics.
type TestOutcome struct {
	TStatistic       core.OptFloat `json:"t_statistic"`
	DegreesOfFreedom core.OptFloat `json:"degrees_of_freedom"`
	PValue           core.OptFloat `json:"p_value"`
}

// ResultRecord is the one output row produced per observed group.
type ResultRecord struct {
	GroupID          GroupID         `json:"group_id"`
	NSingle          int64           `json:"n_single"`
	NDual            int64           `json:"n_dual"`
	MeanSingle       core.OptFloat   `json:"mean_single"`
	MeanDual         core.OptFloat   `json:"mean_dual"`
	PooledVarSingle  core.OptFloat   `json:"pooled_var_single"`
	PooledVarDual    core.OptFloat   `json:"pooled_var_dual"`
	TStatistic       core.OptFloat   `json:"t_statistic"`
	DegreesOfFreedom core.OptFloat   `json:"degrees_of_freedom"`
	PValue           core.OptFloat   `json:"p_value"`
	Verdict          verdict.Verdict `json:"verdict"`
}

// SortRecords orders records ascending by group id in place.
func SortRecords(records []ResultRecord) {
	sortByGroup(records, func(r ResultRecord) GroupID { return r.GroupID })
}
