// Package testkit provides input fixtures and a seeded generator for
// exercising comparison runs end to end.
package testkit

import (
	"strconv"

	"gocompare/domain/comparison"
	"gocompare/domain/verdict"
)

// Default headers as they appear in the survey export.
const (
	HeaderGroup    = "QuestionGroupID"
	HeaderApproach = "Submission Approach"
	HeaderMean     = "Average Score"
	HeaderStdDev   = "Standard Deviation"
	HeaderCount    = "Num Students"
)

// Headers is the default header row.
var Headers = []string{HeaderGroup, HeaderApproach, HeaderMean, HeaderStdDev, HeaderCount}

// Row builds one raw row with the default headers.
func Row(group, approach string, mean, stddev float64, count int) comparison.RawRow {
	return comparison.RawRow{
		HeaderGroup:    group,
		HeaderApproach: approach,
		HeaderMean:     strconv.FormatFloat(mean, 'f', -1, 64),
		HeaderStdDev:   strconv.FormatFloat(stddev, 'f', -1, 64),
		HeaderCount:    strconv.Itoa(count),
	}
}

// Table wraps rows with the default headers.
func Table(rows ...comparison.RawRow) comparison.RawTable {
	return comparison.RawTable{Headers: append([]string(nil), Headers...), Rows: rows}
}

// Scenario is a small input with its known outcome.
type Scenario struct {
	Name    string
	Rows    []comparison.RawRow
	Group   comparison.GroupID
	NSingle int64
	NDual   int64
	Verdict verdict.Verdict
}

// Scenarios covers each verdict reachable from data plus the degenerate
// groups.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name: "single favored",
			Rows: []comparison.RawRow{
				Row("1", "Single", 80, 5, 30),
				Row("1", "Single", 82, 6, 20),
				Row("1", "Dual", 75, 4, 25),
			},
			Group: "1", NSingle: 50, NDual: 25,
			Verdict: verdict.FavorSingle,
		},
		{
			Name:  "single missing",
			Rows:  []comparison.RawRow{Row("2", "Dual", 70, 10, 20)},
			Group: "2", NSingle: 0, NDual: 20,
			Verdict: verdict.InsufficientData,
		},
		{
			Name: "not significant",
			Rows: []comparison.RawRow{
				Row("3", "Single", 70, 10, 20),
				Row("3", "Dual", 72, 10, 20),
			},
			Group: "3", NSingle: 20, NDual: 20,
			Verdict: verdict.NotSignificant,
		},
		{
			Name: "dual favored",
			Rows: []comparison.RawRow{
				Row("4", "single", 60, 8, 15),
				Row("4", "SINGLE", 64, 9, 15),
				Row("4", "dual", 70, 7, 40),
			},
			Group: "4", NSingle: 30, NDual: 40,
			Verdict: verdict.FavorDual,
		},
		{
			Name: "single student",
			Rows: []comparison.RawRow{
				Row("5", "Single", 90, 0, 1),
				Row("5", "Dual", 60, 5, 10),
			},
			Group: "5", NSingle: 1, NDual: 10,
			Verdict: verdict.InsufficientData,
		},
	}
}

// ScenarioTable concatenates every scenario into one table.
func ScenarioTable() comparison.RawTable {
	var rows []comparison.RawRow
	for _, s := range Scenarios() {
		rows = append(rows, s.Rows...)
	}
	return Table(rows...)
}
