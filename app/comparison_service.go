package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"gocompare/adapters/datareadiness/rows"
	"gocompare/adapters/stats/pooling"
	"gocompare/adapters/stats/welch"
	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/domain/verdict"
	"gocompare/internal"
	"gocompare/internal/errors"
	"gocompare/ports"

	"golang.org/x/sync/errgroup"
)

// ComparisonService runs the single-vs-dual comparison over an input table.
type ComparisonService struct {
	validator *rows.Validator
	workers   int
	logger    *internal.Logger
}

// RunResult is the complete output of one run.
type RunResult struct {
	Manifest *run.Manifest               `json:"manifest"`
	Records  []comparison.ResultRecord   `json:"records"`
	Report   comparison.ValidationReport `json:"report"`
}

// NewComparisonService creates the service. workers <= 0 uses NumCPU.
func NewComparisonService(validator *rows.Validator, workers int, logger *internal.Logger) *ComparisonService {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ComparisonService{
		validator: validator,
		workers:   workers,
		logger:    logger.WithComponent("ComparisonService"),
	}
}

// Workers returns the size of the per-group worker pool.
func (s *ComparisonService) Workers() int { return s.workers }

// Compare evaluates every group in rows and returns one record per group,
// ascending by group id. Groups are independent; they are evaluated
// concurrently and each result lands in its own slot. Nothing is returned
// until every group has finished.
func (s *ComparisonService) Compare(ctx context.Context, summaryRows []comparison.SummaryRow) ([]comparison.ResultRecord, error) {
	groups := Partition(summaryRows)

	ids := make([]comparison.GroupID, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}

	records := make([]comparison.ResultRecord, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = evaluateGroup(id, groups[id])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparison.SortRecords(records)
	return records, nil
}

// evaluateGroup is the pure per-group pipeline: pool each approach, run the
// Welch test, classify. Groups missing an approach keep only their counts.
// When both approaches are present but one pooled statistic is undefined,
// the other side's mean and variance are still reported; either way the
// verdict is InsufficientData.
func evaluateGroup(id comparison.GroupID, g *GroupRows) comparison.ResultRecord {
	record := comparison.ResultRecord{
		GroupID: id,
		NSingle: pooling.TotalCount(g.Single),
		NDual:   pooling.TotalCount(g.Dual),
		Verdict: verdict.InsufficientData,
	}
	if len(g.Single) == 0 || len(g.Dual) == 0 {
		return record
	}

	single, okSingle := pooling.Pool(g.Single)
	if okSingle {
		record.MeanSingle = core.SomeFloat(single.WeightedMean)
		record.PooledVarSingle = core.SomeFloat(single.PooledVariance)
	}
	dual, okDual := pooling.Pool(g.Dual)
	if okDual {
		record.MeanDual = core.SomeFloat(dual.WeightedMean)
		record.PooledVarDual = core.SomeFloat(dual.PooledVariance)
	}
	if !okSingle || !okDual {
		return record
	}

	outcome := welch.Test(single, dual)
	record.TStatistic = outcome.TStatistic
	record.DegreesOfFreedom = outcome.DegreesOfFreedom
	record.PValue = outcome.PValue
	record.Verdict = verdict.Classify(outcome.PValue, single.WeightedMean, dual.WeightedMean)
	return record
}

// Run validates a raw table, compares it and returns the records with a
// completed manifest.
func (s *ComparisonService) Run(ctx context.Context, source string, table comparison.RawTable) (*RunResult, error) {
	if missing := s.validator.MissingNumericColumns(table.Headers); len(missing) > 0 {
		s.logger.Warn("input %s has no column for %v; those fields are treated as missing", source, missing)
	}

	summaryRows, report, err := s.validator.Validate(table)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	if report.Degraded() {
		s.logger.Warn("input %s: missing mean=%d stddev=%d count=%d, blank group=%d, unrecognized approach=%d",
			source, report.MissingMean, report.MissingStdDev, report.MissingCount, report.BlankGroup, report.UnknownApproach)
	}

	manifest := run.NewManifest(source, summaryRows, report, s.workers)
	start := time.Now()
	records, err := s.Compare(ctx, summaryRows)
	if err != nil {
		return nil, errors.Wrap(err, "comparison aborted")
	}
	manifest.Complete(records)

	s.logger.Info("run %s: %d rows, %d groups in %.2fms (input %s)",
		manifest.RunID, len(summaryRows), len(records), float64(time.Since(start).Nanoseconds())/1e6, manifest.InputHash.Short())
	if s.logger.GetLevel() >= internal.LogLevelDebug {
		for _, v := range verdict.All {
			s.logger.Debug("run %s: %-40s %d", manifest.RunID, v, manifest.VerdictCounts[v])
		}
	}
	return &RunResult{Manifest: manifest, Records: records, Report: report}, nil
}

// Execute reads the source, runs the comparison and hands the finished
// result to every sink. A failing sink does not stop the others; the first
// sink error is returned alongside the result.
func (s *ComparisonService) Execute(ctx context.Context, source ports.TableSource, sinks ...ports.ResultSink) (*RunResult, error) {
	table, err := source.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", source.Name())
	}

	result, err := s.Run(ctx, source.Name(), table)
	if err != nil {
		return nil, err
	}

	var firstErr error
	for i, sink := range sinks {
		if err := sink.WriteResults(ctx, result.Manifest, result.Records); err != nil {
			s.logger.Error("sink %d (%T) failed: %v", i, sink, err)
			if firstErr == nil {
				firstErr = errors.Wrap(err, fmt.Sprintf("failed to write results to %T", sink))
			}
		}
	}
	return result, firstErr
}
