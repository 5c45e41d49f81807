package report

import (
	"strings"
	"testing"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/domain/verdict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, single, dual, p float64, v verdict.Verdict) comparison.ResultRecord {
	return comparison.ResultRecord{
		GroupID:    comparison.GroupID(id),
		NSingle:    10,
		NDual:      10,
		MeanSingle: core.SomeFloat(single),
		MeanDual:   core.SomeFloat(dual),
		PValue:     core.SomeFloat(p),
		Verdict:    v,
	}
}

func sample() []comparison.ResultRecord {
	return []comparison.ResultRecord{
		record("1", 80, 75, 0.001, verdict.FavorSingle),
		record("2", 60, 70, 0.0001, verdict.FavorDual),
		record("3", 70, 71, 0.5, verdict.NotSignificant),
		{GroupID: "4", NSingle: 0, NDual: 20, Verdict: verdict.InsufficientData},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample())

	assert.Equal(t, 4, s.Groups)
	assert.Equal(t, 3, s.Tested)
	assert.Equal(t, 2, s.Significant)
	assert.InDelta(t, 0.001, s.MedianP.Or(-1), 1e-12)
	assert.InDelta(t, 0.0001, s.MinP.Or(-1), 1e-12)
	assert.InDelta(t, 2.0, s.MeanDifference.Or(-1), 1e-12) // (-5 + 10 + 1) / 3

	require.Len(t, s.Largest, 2)
	assert.Equal(t, comparison.GroupID("2"), s.Largest[0].GroupID)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.MedianP.IsMissing())
	assert.True(t, s.MeanDifference.IsMissing())
	assert.Empty(t, s.Largest)
}

func TestMarkdown(t *testing.T) {
	m := run.NewManifest("scores.csv", nil, comparison.ValidationReport{InputRows: 7, UnknownApproach: 1}, 2)
	m.Complete(sample())

	md := Markdown(m, sample())
	assert.Contains(t, md, "scores.csv")
	assert.Contains(t, md, "| Insufficient data | 1 |")
	assert.Contains(t, md, "| Significant difference favoring Dual | 1 |")
	assert.Contains(t, md, "unrecognized approach 1")
	assert.Contains(t, md, "| 4 | 0 | 20 | – | – | – | – | – | Insufficient data |")

	// one table line per record after the results header
	results := md[strings.Index(md, "## Results"):]
	assert.Equal(t, 4+2, strings.Count(results, "\n|"))
}
