package app

import (
	"context"
	stderrors "errors"
	"testing"

	"gocompare/adapters/datareadiness/rows"
	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/domain/verdict"
	"gocompare/internal"
	"gocompare/internal/errors"
	"gocompare/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(workers int) *ComparisonService {
	validator := rows.NewValidator(rows.DefaultColumnMapping(), nil)
	return NewComparisonService(validator, workers, internal.NewLogger(internal.LogLevelError))
}

func TestComparisonService_Scenarios(t *testing.T) {
	svc := newTestService(4)
	result, err := svc.Run(context.Background(), "fixtures", testkit.ScenarioTable())
	require.NoError(t, err)

	byGroup := make(map[comparison.GroupID]comparison.ResultRecord)
	for _, r := range result.Records {
		byGroup[r.GroupID] = r
	}
	for _, s := range testkit.Scenarios() {
		t.Run(s.Name, func(t *testing.T) {
			r, ok := byGroup[s.Group]
			require.True(t, ok)
			assert.Equal(t, s.Verdict, r.Verdict)
			assert.Equal(t, s.NSingle, r.NSingle)
			assert.Equal(t, s.NDual, r.NDual)
		})
	}

	q1 := byGroup["1"]
	assert.InDelta(t, 80.8, q1.MeanSingle.Or(0), 1e-9)
	assert.InDelta(t, 1457.0/49.0, q1.PooledVarSingle.Or(0), 1e-9)
	assert.InDelta(t, 5.2197336938497845, q1.TStatistic.Or(0), 1e-9)
	assert.InDelta(t, 62.7760776873996, q1.DegreesOfFreedom.Or(0), 1e-6)
	assert.InDelta(t, 2.1510220217910788e-06, q1.PValue.Or(0), 1e-9)

	q2 := byGroup["2"]
	assert.True(t, q2.MeanSingle.IsMissing())
	assert.True(t, q2.TStatistic.IsMissing())
	assert.True(t, q2.PValue.IsMissing())

	assert.Equal(t, len(testkit.Scenarios()), result.Manifest.Groups)
	assert.Equal(t, 2, result.Manifest.VerdictCounts[verdict.InsufficientData])
	assert.NoError(t, result.Manifest.Validate())
}

func TestComparisonService_SortedAndDeterministic(t *testing.T) {
	table := testkit.NewScoreGenerator(testkit.DefaultScoreConfig()).Generate()

	serial, err := newTestService(1).Run(context.Background(), "gen", table)
	require.NoError(t, err)
	parallel, err := newTestService(8).Run(context.Background(), "gen", table)
	require.NoError(t, err)

	assert.Equal(t, serial.Records, parallel.Records)
	assert.Equal(t, serial.Manifest.Fingerprint, parallel.Manifest.Fingerprint)
	for i := 1; i < len(serial.Records); i++ {
		assert.True(t, serial.Records[i-1].GroupID.Less(serial.Records[i].GroupID),
			"%s should sort before %s", serial.Records[i-1].GroupID, serial.Records[i].GroupID)
	}
}

func TestComparisonService_OneSideUndefinedKeepsOtherSide(t *testing.T) {
	table := testkit.Table(
		testkit.Row("A", "Single", 90, 0, 1),
		testkit.Row("A", "Dual", 70, 5, 30),
	)
	result, err := newTestService(1).Run(context.Background(), "one-side", table)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	r := result.Records[0]
	assert.Equal(t, verdict.InsufficientData, r.Verdict)
	assert.Equal(t, int64(1), r.NSingle)
	assert.Equal(t, int64(30), r.NDual)
	assert.True(t, r.MeanSingle.IsMissing())
	assert.True(t, r.PooledVarSingle.IsMissing())
	assert.InDelta(t, 70.0, r.MeanDual.Or(0), 1e-12)
	assert.InDelta(t, 25.0, r.PooledVarDual.Or(0), 1e-12)
	assert.True(t, r.TStatistic.IsMissing())
	assert.True(t, r.PValue.IsMissing())
}

func TestComparisonService_NumericGroupOrder(t *testing.T) {
	table := testkit.Table(
		testkit.Row("10", "Single", 70, 5, 10),
		testkit.Row("9", "Single", 70, 5, 10),
		testkit.Row("b", "Single", 70, 5, 10),
		testkit.Row("2", "Single", 70, 5, 10),
	)
	result, err := newTestService(2).Run(context.Background(), "order", table)
	require.NoError(t, err)

	var ids []comparison.GroupID
	for _, r := range result.Records {
		ids = append(ids, r.GroupID)
	}
	assert.Equal(t, []comparison.GroupID{"2", "9", "10", "b"}, ids)
}

func TestComparisonService_UnknownApproachOnly(t *testing.T) {
	table := testkit.Table(testkit.Row("7", "Hybrid", 70, 5, 10))
	result, err := newTestService(1).Run(context.Background(), "unknown", table)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	r := result.Records[0]
	assert.Equal(t, verdict.InsufficientData, r.Verdict)
	assert.Zero(t, r.NSingle)
	assert.Zero(t, r.NDual)
	assert.Equal(t, 1, result.Manifest.Validation.UnknownApproach)
}

func TestComparisonService_MissingGroupColumn(t *testing.T) {
	table := comparison.RawTable{Headers: []string{"Average Score"}, Rows: []comparison.RawRow{{"Average Score": "1"}}}
	_, err := newTestService(1).Run(context.Background(), "bad", table)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrMissingColumn))
}

func TestComparisonService_EmptyTable(t *testing.T) {
	result, err := newTestService(1).Run(context.Background(), "empty", testkit.Table())
	require.NoError(t, err)
	assert.Empty(t, result.Records)
}

func TestComparisonService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summaryRows, _, err := rows.NewValidator(rows.DefaultColumnMapping(), nil).Validate(testkit.ScenarioTable())
	require.NoError(t, err)
	_, err = newTestService(2).Compare(ctx, summaryRows)
	assert.ErrorIs(t, err, context.Canceled)
}

type staticSource struct {
	table comparison.RawTable
	err   error
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) ReadTable(context.Context) (comparison.RawTable, error) {
	return s.table, s.err
}

type MockSink struct {
	mock.Mock
}

func (m *MockSink) WriteResults(ctx context.Context, manifest *run.Manifest, records []comparison.ResultRecord) error {
	args := m.Called(ctx, manifest, records)
	return args.Error(0)
}

func TestComparisonService_Execute(t *testing.T) {
	failing := new(MockSink)
	failing.On("WriteResults", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("disk full"))
	ok := new(MockSink)
	ok.On("WriteResults", mock.Anything, mock.Anything, mock.MatchedBy(func(r []comparison.ResultRecord) bool {
		return len(r) == len(testkit.Scenarios())
	})).Return(nil)

	result, err := newTestService(2).Execute(context.Background(), staticSource{table: testkit.ScenarioTable()}, failing, ok)

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Contains(t, err.Error(), "disk full")
	failing.AssertExpectations(t)
	ok.AssertExpectations(t)
}

func TestComparisonService_ExecuteSourceError(t *testing.T) {
	sink := new(MockSink)
	_, err := newTestService(1).Execute(context.Background(), staticSource{err: core.ErrEmptyTable}, sink)

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, core.ErrEmptyTable))
	sink.AssertNotCalled(t, "WriteResults", mock.Anything, mock.Anything, mock.Anything)
}
