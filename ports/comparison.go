package ports

import (
	"context"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
)

// TableSource yields a fully materialized input table.
type TableSource interface {
	Name() string
	ReadTable(ctx context.Context) (comparison.RawTable, error)
}

// ResultSink accepts a completed run. Sinks never see partial results.
type ResultSink interface {
	WriteResults(ctx context.Context, manifest *run.Manifest, records []comparison.ResultRecord) error
}

// StoredRun is a persisted run with its result table.
type StoredRun struct {
	Manifest run.Manifest             `json:"manifest"`
	Records  []comparison.ResultRecord `json:"records"`
}

// ResultRepository stores and serves completed runs for the UI and API.
type ResultRepository interface {
	ResultSink
	GetRun(ctx context.Context, runID core.RunID) (*StoredRun, error)
	LatestRun(ctx context.Context) (*StoredRun, error)
	ListRuns(ctx context.Context, limit int) ([]run.Manifest, error)
}
