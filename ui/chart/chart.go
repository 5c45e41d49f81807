// Package chart builds the "where each approach excelled" bar chart from a
// result table and renders it for terminals and browsers.
package chart

import (
	"sort"

	"gocompare/domain/comparison"
	"gocompare/domain/verdict"

	"github.com/montanaflynn/stats"
)

const (
	Title  = "Dual vs Single Submission: Where Each Excelled"
	XLabel = "Mean Score Difference (Dual - Single)"
	YLabel = "Question Group ID"
)

// Colors maps each plotted verdict to its bar color.
var Colors = map[verdict.Verdict]string{
	verdict.FavorDual:                "#2ca02c",
	verdict.FavorSingle:              "#d62728",
	verdict.NotSignificant:           "#1f77b4",
	verdict.SignificantButEqualMeans: "#7f7f7f",
}

// legendOrder lists the legend entries that are always shown.
var legendOrder = []verdict.Verdict{
	verdict.FavorDual,
	verdict.FavorSingle,
	verdict.NotSignificant,
}

// Bar is one group's mean difference.
type Bar struct {
	GroupID    comparison.GroupID `json:"group_id"`
	Difference float64            `json:"difference"`
	Verdict    verdict.Verdict    `json:"verdict"`
	Color      string             `json:"color"`
}

// LegendEntry pairs a verdict with its color.
type LegendEntry struct {
	Verdict verdict.Verdict `json:"verdict"`
	Color   string          `json:"color"`
}

// Chart is a ready-to-render horizontal bar chart. Min <= 0 <= Max always
// holds so the zero line is on the axis.
type Chart struct {
	Bars   []Bar         `json:"bars"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
	Legend []LegendEntry `json:"legend"`
}

// Build keeps records with both means and a plotted verdict, and orders bars
// by verdict label, keeping input order within a label.
func Build(records []comparison.ResultRecord) Chart {
	var bars []Bar
	for _, r := range records {
		single, ok1 := r.MeanSingle.Get()
		dual, ok2 := r.MeanDual.Get()
		color, plotted := Colors[r.Verdict]
		if !ok1 || !ok2 || !plotted {
			continue
		}
		bars = append(bars, Bar{
			GroupID:    r.GroupID,
			Difference: dual - single,
			Verdict:    r.Verdict,
			Color:      color,
		})
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Verdict.Label() < bars[j].Verdict.Label()
	})

	c := Chart{Bars: bars}
	c.Min, c.Max = extent(bars)
	c.Legend = legend(bars)
	return c
}

// extent spans every difference and zero, padded by 5% of the range.
func extent(bars []Bar) (float64, float64) {
	values := []float64{0}
	for _, b := range bars {
		values = append(values, b.Difference)
	}
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)
	if lo == hi {
		return -1, 1
	}
	pad := (hi - lo) * 0.05
	if lo < 0 {
		lo -= pad
	}
	if hi > 0 {
		hi += pad
	}
	return lo, hi
}

func legend(bars []Bar) []LegendEntry {
	entries := make([]LegendEntry, 0, len(Colors))
	for _, v := range legendOrder {
		entries = append(entries, LegendEntry{Verdict: v, Color: Colors[v]})
	}
	for _, b := range bars {
		if b.Verdict == verdict.SignificantButEqualMeans {
			entries = append(entries, LegendEntry{Verdict: b.Verdict, Color: Colors[b.Verdict]})
			break
		}
	}
	return entries
}
