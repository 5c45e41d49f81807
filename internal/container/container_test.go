package container

import (
	"context"
	"testing"

	"gocompare/adapters/memory"
	"gocompare/internal"
	"gocompare/internal/config"
	"gocompare/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutDatabase(t *testing.T) {
	cfg := &config.Config{Workers: 3, LogLevel: "ERROR"}

	c, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Service.Workers())
	assert.Same(t, internal.DefaultLogger, c.Logger)
	assert.Equal(t, internal.LogLevelError, internal.DefaultLogger.GetLevel())
	assert.IsType(t, &memory.ResultStore{}, c.Repository)

	require.NoError(t, c.InitWithDatabase(context.Background()))
	assert.Nil(t, c.DB)
	assert.NoError(t, c.Close())
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNew_LenientNumbers(t *testing.T) {
	cfg := &config.Config{Workers: 1, LogLevel: "ERROR"}
	cfg.Columns.LenientNumbers = true

	c, err := New(cfg)
	require.NoError(t, err)

	row := testkit.Row("1", "Single", 0, 5, 10)
	row[testkit.HeaderMean] = "$1,080"
	table := testkit.Table(row)
	rows, _, err := c.Validator.Validate(table)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	mean, ok := rows[0].Mean.Get()
	require.True(t, ok)
	assert.Equal(t, 1080.0, mean)
}
