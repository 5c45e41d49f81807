package verdict

import (
	"encoding/json"
	"testing"

	"gocompare/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name       string
		p          core.OptFloat
		meanSingle float64
		meanDual   float64
		want       Verdict
	}{
		{"just below alpha favoring single", core.SomeFloat(0.049), 80, 75, FavorSingle},
		{"just below alpha favoring dual", core.SomeFloat(0.049), 70, 75, FavorDual},
		{"significant with equal means", core.SomeFloat(0.001), 52, 52, SignificantButEqualMeans},
		{"exactly alpha is not significant", core.SomeFloat(0.05), 80, 75, NotSignificant},
		{"large p", core.SomeFloat(0.53), 70, 72, NotSignificant},
		{"p of one", core.SomeFloat(1), 52, 52, NotSignificant},
		{"p of zero", core.SomeFloat(0), 1, 0, FavorSingle},
		{"missing p ignores means", core.MissingFloat(), 80, 75, InsufficientData},
		{"missing p with equal means", core.MissingFloat(), 0, 0, InsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.p, tt.meanSingle, tt.meanDual))
		})
	}
}

func TestParse_RoundTripsLabels(t *testing.T) {
	for _, v := range All {
		parsed, err := Parse(v.Label())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	_, err := Parse("significant-ish")
	assert.Error(t, err)
}

func TestVerdict_JSONRejectsUnknownLabel(t *testing.T) {
	var v Verdict
	require.NoError(t, json.Unmarshal([]byte(`"Not significant"`), &v))
	assert.Equal(t, NotSignificant, v)
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &v))
}

func TestVerdict_Significant(t *testing.T) {
	assert.True(t, FavorDual.Significant())
	assert.False(t, NotSignificant.Significant())
	assert.False(t, InsufficientData.Significant())
	assert.Len(t, NewCounts(), len(All))
}
