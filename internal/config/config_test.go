package config

import (
	"testing"

	"gocompare/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"INPUT_FILE", "OUTPUT_FILE", "DATABASE_URL", "PORT", "API_PORT", "GIN_MODE",
		"API_MAX_CONCURRENT_GROUPS", "API_MAX_UPLOAD_BYTES", "WORKERS", "LOG_LEVEL",
		"COLUMN_GROUP", "COLUMN_APPROACH", "COLUMN_MEAN", "COLUMN_STDDEV", "COLUMN_COUNT",
		"LENIENT_NUMBERS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputFile, cfg.Data.OutputFile)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.API.Port)
	assert.False(t, cfg.Database.Enabled())
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, []string{"QuestionGroupID", "group_id"}, cfg.Columns.Mapping().GroupID)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKERS", "3")
	t.Setenv("OUTPUT_FILE", "out.csv")
	t.Setenv("DATABASE_URL", "postgres://localhost/compare")
	t.Setenv("COLUMN_MEAN", "Avg")
	t.Setenv("LENIENT_NUMBERS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "out.csv", cfg.Data.OutputFile)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "Avg", cfg.Columns.Mapping().Mean[0])
	assert.True(t, cfg.Columns.LenientNumbers)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"zero workers":  {"WORKERS", "0"},
		"bad output":    {"OUTPUT_FILE", "results.json"},
		"bad gin mode":  {"GIN_MODE", "loud"},
		"zero capacity": {"API_MAX_CONCURRENT_GROUPS", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
