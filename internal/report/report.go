// Package report renders a markdown summary of a comparison run.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/domain/verdict"

	"github.com/montanaflynn/stats"
)

// TopEffects is how many of the largest significant differences are listed.
const TopEffects = 5

// Summary holds the aggregate figures shown at the top of a report.
type Summary struct {
	Groups         int
	Tested         int
	Significant    int
	MedianP        core.OptFloat
	MinP           core.OptFloat
	MeanDifference core.OptFloat
	Largest        []comparison.ResultRecord
}

// Summarize computes the report figures. p-value and difference aggregates
// are missing when no group was tested.
func Summarize(records []comparison.ResultRecord) Summary {
	s := Summary{Groups: len(records)}

	var ps, diffs []float64
	var significant []comparison.ResultRecord
	for _, r := range records {
		if p, ok := r.PValue.Get(); ok {
			s.Tested++
			ps = append(ps, p)
		}
		if d, ok := difference(r); ok {
			diffs = append(diffs, d)
		}
		if r.Verdict.Significant() {
			s.Significant++
			significant = append(significant, r)
		}
	}

	if median, err := stats.Median(ps); err == nil {
		s.MedianP = core.SomeFloat(median)
	}
	if min, err := stats.Min(ps); err == nil {
		s.MinP = core.SomeFloat(min)
	}
	if mean, err := stats.Mean(diffs); err == nil {
		s.MeanDifference = core.SomeFloat(mean)
	}

	sort.SliceStable(significant, func(i, j int) bool {
		di, _ := difference(significant[i])
		dj, _ := difference(significant[j])
		return math.Abs(di) > math.Abs(dj)
	})
	if len(significant) > TopEffects {
		significant = significant[:TopEffects]
	}
	s.Largest = significant
	return s
}

func difference(r comparison.ResultRecord) (float64, bool) {
	single, ok1 := r.MeanSingle.Get()
	dual, ok2 := r.MeanDual.Get()
	if !ok1 || !ok2 {
		return 0, false
	}
	return dual - single, true
}

// Markdown renders the run header, verdict tallies, summary figures and the
// full result table.
func Markdown(manifest *run.Manifest, records []comparison.ResultRecord) string {
	var b strings.Builder
	summary := Summarize(records)

	b.WriteString("# Single vs Dual Submission Comparison\n\n")
	if manifest != nil {
		fmt.Fprintf(&b, "- **Run:** `%s`\n", manifest.RunID)
		fmt.Fprintf(&b, "- **Source:** %s\n", manifest.Source)
		fmt.Fprintf(&b, "- **Input hash:** `%s`\n", manifest.InputHash.Short())
		fmt.Fprintf(&b, "- **Fingerprint:** `%s` (code %s)\n", manifest.Fingerprint.Short(), manifest.CodeVersion)
		if !manifest.FinishedAt.IsZero() {
			fmt.Fprintf(&b, "- **Finished:** %s (%s)\n", manifest.FinishedAt, manifest.Duration())
		}
		v := manifest.Validation
		fmt.Fprintf(&b, "- **Input rows:** %d\n", v.InputRows)
		if v.Degraded() {
			fmt.Fprintf(&b, "- **Degraded fields:** mean %d, stddev %d, count %d, blank group %d, unrecognized approach %d\n",
				v.MissingMean, v.MissingStdDev, v.MissingCount, v.BlankGroup, v.UnknownApproach)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Verdicts\n\n| Verdict | Groups |\n|---|---:|\n")
	counts := verdict.NewCounts()
	for _, r := range records {
		counts[r.Verdict]++
	}
	for _, v := range verdict.All {
		fmt.Fprintf(&b, "| %s | %d |\n", v, counts[v])
	}

	b.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&b, "- Groups: %d, tested: %d, significant at α = %.2f: %d\n",
		summary.Groups, summary.Tested, verdict.Alpha, summary.Significant)
	fmt.Fprintf(&b, "- Median p-value: %s\n", formatFloat(summary.MedianP))
	fmt.Fprintf(&b, "- Smallest p-value: %s\n", formatFloat(summary.MinP))
	fmt.Fprintf(&b, "- Mean difference (Dual - Single): %s\n", formatFloat(summary.MeanDifference))

	if len(summary.Largest) > 0 {
		b.WriteString("\n### Largest significant differences\n\n")
		for _, r := range summary.Largest {
			d, _ := difference(r)
			fmt.Fprintf(&b, "1. Group %s: %+.3f (%s, p = %s)\n", r.GroupID, d, r.Verdict, formatFloat(r.PValue))
		}
	}

	b.WriteString("\n## Results\n\n")
	b.WriteString("| Group | N Single | N Dual | Mean Single | Mean Dual | t | df | p | Result |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---|\n")
	for _, r := range records {
		fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s | %s | %s | %s |\n",
			escape(r.GroupID.String()), r.NSingle, r.NDual,
			formatFloat(r.MeanSingle), formatFloat(r.MeanDual),
			formatFloat(r.TStatistic), formatFloat(r.DegreesOfFreedom), formatFloat(r.PValue),
			r.Verdict)
	}
	return b.String()
}

func formatFloat(f core.OptFloat) string {
	v, ok := f.Get()
	if !ok {
		return "–"
	}
	return fmt.Sprintf("%.4g", v)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
