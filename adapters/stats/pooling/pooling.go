// Package pooling combines several summary rows of one approach into a single
// pooled mean and variance without access to the raw observations.
package pooling

import (
	"gocompare/domain/comparison"
)

// TotalCount sums the non-missing counts of rows. It is reported even when
// pooling is undefined.
func TotalCount(rows []comparison.SummaryRow) int64 {
	var total int64
	for _, r := range rows {
		if n, ok := r.Count.Get(); ok {
			total += n
		}
	}
	return total
}

// Pool reduces rows to their pooled statistic.
//
// The pooled variance decomposes the combined sample's variability into the
// within-row part, Σ(n_i−1)·s_i², and the between-row part,
// Σ n_i·(m_i − m̄)², divided by (N−1). It is exact when every row's s_i used
// the n−1 divisor.
//
// Missing fields are skipped term by term: a row without a count contributes
// nothing, a row without a mean is left out of both mean sums, and a row
// without a stddev is left out of the within-row sum. Rows with count 0 add
// nothing anywhere.
//
// ok is false when the total count is <= 1, where the variance is undefined.
func Pool(rows []comparison.SummaryRow) (stat comparison.PooledStatistic, ok bool) {
	total := TotalCount(rows)
	if total <= 1 {
		return comparison.PooledStatistic{TotalCount: total}, false
	}
	n := float64(total)

	var weightedSum float64
	for _, r := range rows {
		count, hasCount := r.Count.Get()
		mean, hasMean := r.Mean.Get()
		if hasCount && hasMean {
			weightedSum += mean * float64(count)
		}
	}
	weightedMean := weightedSum / n

	var ssWithin, ssBetween float64
	for _, r := range rows {
		count, hasCount := r.Count.Get()
		if !hasCount || count == 0 {
			continue
		}
		if sd, ok := r.StdDev.Get(); ok {
			ssWithin += float64(count-1) * sd * sd
		}
		if mean, ok := r.Mean.Get(); ok {
			d := mean - weightedMean
			ssBetween += float64(count) * d * d
		}
	}

	return comparison.PooledStatistic{
		WeightedMean:   weightedMean,
		PooledVariance: (ssWithin + ssBetween) / (n - 1),
		TotalCount:     total,
	}, true
}
