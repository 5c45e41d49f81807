package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/domain/verdict"
	"gocompare/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ResultRepositoryImpl stores comparison runs in PostgreSQL
type ResultRepositoryImpl struct {
	db *sqlx.DB
}

// NewResultRepository creates a new PostgreSQL result repository
func NewResultRepository(db *sqlx.DB) *ResultRepositoryImpl {
	return &ResultRepositoryImpl{db: db}
}

var _ ports.ResultRepository = (*ResultRepositoryImpl)(nil)

// runRow mirrors comparison_runs
type runRow struct {
	ID            string    `db:"id"`
	Source        string    `db:"source"`
	InputHash     string    `db:"input_hash"`
	Fingerprint   string    `db:"fingerprint"`
	CodeVersion   string    `db:"code_version"`
	Groups        int       `db:"groups"`
	Workers       int       `db:"workers"`
	Validation    string    `db:"validation"`
	VerdictCounts string    `db:"verdict_counts"`
	StartedAt     time.Time `db:"started_at"`
	FinishedAt    time.Time `db:"finished_at"`
}

// resultRow mirrors comparison_results
type resultRow struct {
	RunID            string          `db:"run_id"`
	Position         int             `db:"position"`
	GroupID          string          `db:"group_id"`
	NSingle          int64           `db:"n_single"`
	NDual            int64           `db:"n_dual"`
	MeanSingle       sql.NullFloat64 `db:"mean_single"`
	MeanDual         sql.NullFloat64 `db:"mean_dual"`
	PooledVarSingle  sql.NullFloat64 `db:"pooled_var_single"`
	PooledVarDual    sql.NullFloat64 `db:"pooled_var_dual"`
	TStatistic       sql.NullFloat64 `db:"t_statistic"`
	DegreesOfFreedom sql.NullFloat64 `db:"degrees_of_freedom"`
	PValue           sql.NullFloat64 `db:"p_value"`
	Verdict          string          `db:"verdict"`
}

// WriteResults implements ports.ResultSink.
func (r *ResultRepositoryImpl) WriteResults(ctx context.Context, manifest *run.Manifest, records []comparison.ResultRecord) error {
	return r.SaveRun(ctx, manifest, records)
}

// SaveRun inserts the manifest and every result row in one transaction.
func (r *ResultRepositoryImpl) SaveRun(ctx context.Context, manifest *run.Manifest, records []comparison.ResultRecord) error {
	if manifest == nil {
		return fmt.Errorf("cannot save a run without a manifest")
	}
	if err := manifest.Validate(); err != nil {
		return err
	}
	row, err := toRunRow(manifest)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO comparison_runs (id, source, input_hash, fingerprint, code_version, groups, workers, validation, verdict_counts, started_at, finished_at)
		VALUES (:id, :source, :input_hash, :fingerprint, :code_version, :groups, :workers, :validation, :verdict_counts, :started_at, :finished_at)
	`, row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return fmt.Errorf("run %s already stored: %w", manifest.RunID, err)
		}
		return err
	}

	for _, batch := range resultBatches(manifest.RunID, records) {
		if _, err := tx.NamedExecContext(ctx, insertResultsQuery, batch); err != nil {
			return fmt.Errorf("failed to insert results for run %s: %w", manifest.RunID, err)
		}
	}

	return tx.Commit()
}

// resultColumnCount is the number of bind parameters per result row.
const resultColumnCount = 13

// resultBatchSize keeps each multi-row insert under the 65535 bind
// parameter limit of the Postgres protocol.
const resultBatchSize = 1000

const insertResultsQuery = `
	INSERT INTO comparison_results (run_id, position, group_id, n_single, n_dual, mean_single, mean_dual,
		pooled_var_single, pooled_var_dual, t_statistic, degrees_of_freedom, p_value, verdict)
	VALUES (:run_id, :position, :group_id, :n_single, :n_dual, :mean_single, :mean_dual,
		:pooled_var_single, :pooled_var_dual, :t_statistic, :degrees_of_freedom, :p_value, :verdict)
`

// resultBatches maps records to rows split into insert-sized batches.
// Positions run across batches so the stored order is the record order.
func resultBatches(runID core.RunID, records []comparison.ResultRecord) [][]resultRow {
	var batches [][]resultRow
	for start := 0; start < len(records); start += resultBatchSize {
		end := min(start+resultBatchSize, len(records))
		batch := make([]resultRow, 0, end-start)
		for i := start; i < end; i++ {
			batch = append(batch, toResultRow(runID, i, records[i]))
		}
		batches = append(batches, batch)
	}
	return batches
}

const runColumns = `id, source, input_hash, fingerprint, code_version, groups, workers, validation, verdict_counts, started_at, finished_at`

// GetRun loads one run with its results
func (r *ResultRepositoryImpl) GetRun(ctx context.Context, runID core.RunID) (*ports.StoredRun, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `SELECT `+runColumns+` FROM comparison_runs WHERE id = $1`, runID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return r.loadStored(ctx, row)
}

// LatestRun loads the most recently finished run
func (r *ResultRepositoryImpl) LatestRun(ctx context.Context) (*ports.StoredRun, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `SELECT `+runColumns+` FROM comparison_runs ORDER BY finished_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.loadStored(ctx, row)
}

func (r *ResultRepositoryImpl) loadStored(ctx context.Context, row runRow) (*ports.StoredRun, error) {
	manifest, err := fromRunRow(row)
	if err != nil {
		return nil, err
	}
	records, err := r.GetResults(ctx, manifest.RunID)
	if err != nil {
		return nil, err
	}
	return &ports.StoredRun{Manifest: *manifest, Records: records}, nil
}

// GetResults returns a run's result rows in their stored order
func (r *ResultRepositoryImpl) GetResults(ctx context.Context, runID core.RunID) ([]comparison.ResultRecord, error) {
	var rows []resultRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT run_id, position, group_id, n_single, n_dual, mean_single, mean_dual,
			pooled_var_single, pooled_var_dual, t_statistic, degrees_of_freedom, p_value, verdict
		FROM comparison_results
		WHERE run_id = $1
		ORDER BY position
	`, runID.String())
	if err != nil {
		return nil, err
	}

	records := make([]comparison.ResultRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := fromResultRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListRuns returns manifests newest first, optionally limited
func (r *ResultRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]run.Manifest, error) {
	query := `SELECT ` + runColumns + ` FROM comparison_runs ORDER BY finished_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	manifests := make([]run.Manifest, 0, len(rows))
	for _, row := range rows {
		m, err := fromRunRow(row)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, *m)
	}
	return manifests, nil
}

func toRunRow(m *run.Manifest) (runRow, error) {
	validation, err := json.Marshal(m.Validation)
	if err != nil {
		return runRow{}, err
	}
	counts, err := json.Marshal(m.VerdictCounts)
	if err != nil {
		return runRow{}, err
	}
	return runRow{
		ID:            m.RunID.String(),
		Source:        m.Source,
		InputHash:     m.InputHash.String(),
		Fingerprint:   m.Fingerprint.String(),
		CodeVersion:   m.CodeVersion,
		Groups:        m.Groups,
		Workers:       m.Workers,
		Validation:    string(validation),
		VerdictCounts: string(counts),
		StartedAt:     m.StartedAt.Time(),
		FinishedAt:    m.FinishedAt.Time(),
	}, nil
}

func fromRunRow(row runRow) (*run.Manifest, error) {
	m := &run.Manifest{
		RunID:         core.RunID(row.ID),
		Source:        row.Source,
		InputHash:     core.Hash(row.InputHash),
		Fingerprint:   core.Hash(row.Fingerprint),
		CodeVersion:   row.CodeVersion,
		Groups:        row.Groups,
		Workers:       row.Workers,
		VerdictCounts: verdict.NewCounts(),
		StartedAt:     core.NewTimestamp(row.StartedAt.UTC()),
		FinishedAt:    core.NewTimestamp(row.FinishedAt.UTC()),
	}
	if len(row.Validation) > 0 {
		if err := json.Unmarshal([]byte(row.Validation), &m.Validation); err != nil {
			return nil, fmt.Errorf("run %s: bad validation report: %w", row.ID, err)
		}
	}
	if len(row.VerdictCounts) > 0 {
		var counts map[string]int
		if err := json.Unmarshal([]byte(row.VerdictCounts), &counts); err != nil {
			return nil, fmt.Errorf("run %s: bad verdict counts: %w", row.ID, err)
		}
		for label, n := range counts {
			v, err := verdict.Parse(label)
			if err != nil {
				return nil, fmt.Errorf("run %s: %w", row.ID, err)
			}
			m.VerdictCounts[v] = n
		}
	}
	return m, nil
}

func nullFloat(f core.OptFloat) sql.NullFloat64 {
	v, ok := f.Get()
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func optFloat(n sql.NullFloat64) core.OptFloat {
	if !n.Valid {
		return core.MissingFloat()
	}
	return core.SomeFloat(n.Float64)
}

func toResultRow(runID core.RunID, position int, r comparison.ResultRecord) resultRow {
	return resultRow{
		RunID:            runID.String(),
		Position:         position,
		GroupID:          r.GroupID.String(),
		NSingle:          r.NSingle,
		NDual:            r.NDual,
		MeanSingle:       nullFloat(r.MeanSingle),
		MeanDual:         nullFloat(r.MeanDual),
		PooledVarSingle:  nullFloat(r.PooledVarSingle),
		PooledVarDual:    nullFloat(r.PooledVarDual),
		TStatistic:       nullFloat(r.TStatistic),
		DegreesOfFreedom: nullFloat(r.DegreesOfFreedom),
		PValue:           nullFloat(r.PValue),
		Verdict:          r.Verdict.Label(),
	}
}

func fromResultRow(row resultRow) (comparison.ResultRecord, error) {
	v, err := verdict.Parse(row.Verdict)
	if err != nil {
		return comparison.ResultRecord{}, fmt.Errorf("%w: %v", core.ErrUnrecognizedResult, err)
	}
	return comparison.ResultRecord{
		GroupID:          comparison.GroupID(row.GroupID),
		NSingle:          row.NSingle,
		NDual:            row.NDual,
		MeanSingle:       optFloat(row.MeanSingle),
		MeanDual:         optFloat(row.MeanDual),
		PooledVarSingle:  optFloat(row.PooledVarSingle),
		PooledVarDual:    optFloat(row.PooledVarDual),
		TStatistic:       optFloat(row.TStatistic),
		DegreesOfFreedom: optFloat(row.DegreesOfFreedom),
		PValue:           optFloat(row.PValue),
		Verdict:          v,
	}, nil
}
