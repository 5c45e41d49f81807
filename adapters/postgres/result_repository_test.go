package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"testing"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/domain/verdict"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runColumnNames = []string{"id", "source", "input_hash", "fingerprint", "code_version", "groups", "workers",
	"validation", "verdict_counts", "started_at", "finished_at"}

var resultColumnNames = []string{"run_id", "position", "group_id", "n_single", "n_dual", "mean_single", "mean_dual",
	"pooled_var_single", "pooled_var_dual", "t_statistic", "degrees_of_freedom", "p_value", "verdict"}

func newMockRepository(t *testing.T) (*ResultRepositoryImpl, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewResultRepository(sqlx.NewDb(db, "postgres")), mock
}

func completedRun(n int) (*run.Manifest, []comparison.ResultRecord) {
	records := make([]comparison.ResultRecord, n)
	for i := range records {
		records[i] = comparison.ResultRecord{
			GroupID:    comparison.GroupID(strconv.Itoa(i + 1)),
			NSingle:    20,
			NDual:      20,
			MeanSingle: core.SomeFloat(70),
			MeanDual:   core.SomeFloat(71),
			PValue:     core.SomeFloat(0.4),
			Verdict:    verdict.NotSignificant,
		}
	}
	m := run.NewManifest("scores.csv", nil, comparison.ValidationReport{InputRows: 2 * n}, 2)
	m.Complete(records)
	return m, records
}

func TestRunRowRoundTrip(t *testing.T) {
	records := []comparison.ResultRecord{
		{GroupID: "1", Verdict: verdict.FavorDual},
		{GroupID: "2", Verdict: verdict.InsufficientData},
	}
	m := run.NewManifest("scores.xlsx", nil, comparison.ValidationReport{InputRows: 3, UnknownApproach: 1,
		UnknownLabels: map[string]int{"Hybrid": 1}}, 4)
	m.Complete(records)

	row, err := toRunRow(m)
	require.NoError(t, err)
	assert.Equal(t, m.RunID.String(), row.ID)
	assert.Contains(t, row.VerdictCounts, `"Insufficient data":1`)

	back, err := fromRunRow(row)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, back.RunID)
	assert.Equal(t, m.Fingerprint, back.Fingerprint)
	assert.Equal(t, m.Validation, back.Validation)
	assert.Equal(t, m.VerdictCounts, back.VerdictCounts)
	assert.Equal(t, 2, back.Groups)
	assert.True(t, m.FinishedAt.Time().Equal(back.FinishedAt.Time()))
}

func TestFromRunRow_BadCounts(t *testing.T) {
	_, err := fromRunRow(runRow{ID: "x", VerdictCounts: `{"Probably":1}`})
	assert.Error(t, err)
}

func TestResultRowRoundTrip(t *testing.T) {
	rec := comparison.ResultRecord{
		GroupID:          "Q7",
		NSingle:          50,
		NDual:            25,
		MeanSingle:       core.SomeFloat(80.8),
		MeanDual:         core.SomeFloat(75),
		TStatistic:       core.SomeFloat(5.2),
		DegreesOfFreedom: core.SomeFloat(62.7),
		PValue:           core.SomeFloat(0.0001),
		Verdict:          verdict.FavorSingle,
	}

	row := toResultRow("run-1", 3, rec)
	assert.Equal(t, 3, row.Position)
	assert.Equal(t, sql.NullFloat64{}, row.PooledVarSingle)
	assert.True(t, row.MeanSingle.Valid)

	back, err := fromResultRow(row)
	require.NoError(t, err)
	assert.Equal(t, rec, back)

	row.Verdict = "Maybe"
	_, err = fromResultRow(row)
	assert.ErrorIs(t, err, core.ErrUnrecognizedResult)
}

func TestResultBatches_StayUnderParameterLimit(t *testing.T) {
	m, records := completedRun(6000)

	batches := resultBatches(m.RunID, records)
	require.Len(t, batches, 6)

	total := 0
	for _, batch := range batches {
		assert.LessOrEqual(t, len(batch), resultBatchSize)
		_, args, err := sqlx.Named(insertResultsQuery, batch)
		require.NoError(t, err)
		assert.Len(t, args, resultColumnCount*len(batch))
		assert.LessOrEqual(t, len(args), 65535)
		total += len(batch)
	}
	assert.Equal(t, len(records), total)

	last := batches[len(batches)-1]
	assert.Equal(t, 5999, last[len(last)-1].Position)
	assert.Equal(t, "6000", last[len(last)-1].GroupID)
}

func TestResultBatches_Empty(t *testing.T) {
	assert.Empty(t, resultBatches(core.NewRunID(), nil))
}

func TestSaveRun_InsertsResultsInBatches(t *testing.T) {
	repo, mock := newMockRepository(t)
	m, records := completedRun(2500)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO comparison_runs").WillReturnResult(sqlmock.NewResult(0, 1))
	for _, n := range []int64{1000, 1000, 500} {
		mock.ExpectExec("INSERT INTO comparison_results").WillReturnResult(sqlmock.NewResult(0, n))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.WriteResults(context.Background(), m, records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRun_RollsBackWhenABatchFails(t *testing.T) {
	repo, mock := newMockRepository(t)
	m, records := completedRun(1500)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO comparison_runs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO comparison_results").WillReturnResult(sqlmock.NewResult(0, 1000))
	mock.ExpectExec("INSERT INTO comparison_results").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.SaveRun(context.Background(), m, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRun_RejectsIncompleteManifest(t *testing.T) {
	repo, mock := newMockRepository(t)
	m := run.NewManifest("scores.csv", nil, comparison.ValidationReport{}, 1)

	assert.Error(t, repo.SaveRun(context.Background(), m, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRun_LoadsManifestAndResults(t *testing.T) {
	repo, mock := newMockRepository(t)
	m, records := completedRun(1)
	row, err := toRunRow(m)
	require.NoError(t, err)

	mock.ExpectQuery(`FROM comparison_runs WHERE id = \$1`).
		WithArgs(m.RunID.String()).
		WillReturnRows(sqlmock.NewRows(runColumnNames).AddRow(
			row.ID, row.Source, row.InputHash, row.Fingerprint, row.CodeVersion, int64(row.Groups), int64(row.Workers),
			row.Validation, row.VerdictCounts, row.StartedAt, row.FinishedAt))
	mock.ExpectQuery("FROM comparison_results").
		WithArgs(m.RunID.String()).
		WillReturnRows(sqlmock.NewRows(resultColumnNames).AddRow(
			m.RunID.String(), int64(0), "1", int64(20), int64(20), 70.0, 71.0,
			nil, nil, nil, nil, 0.4, verdict.NotSignificant.Label()))

	stored, err := repo.GetRun(context.Background(), m.RunID)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, stored.Manifest.RunID)
	assert.Equal(t, m.VerdictCounts, stored.Manifest.VerdictCounts)
	assert.Equal(t, m.Validation, stored.Manifest.Validation)
	assert.Equal(t, records, stored.Records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRun_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := core.NewRunID()

	mock.ExpectQuery("FROM comparison_runs").
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(runColumnNames))

	_, err := repo.GetRun(context.Background(), id)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
