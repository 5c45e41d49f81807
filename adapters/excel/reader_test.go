package excel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocompare/domain/core"
	"gocompare/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("scores.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = DetectFormat("/tmp/scores.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = DetectFormat("scores.json")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
}

func TestReadTableFrom_CSV(t *testing.T) {
	body := "\ufeffQuestionGroupID, Submission Approach ,Average Score\n" +
		"1,Single, 80\n" +
		",,\n" +
		"2,Dual\n"

	table, err := ReadTableFrom(strings.NewReader(body), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"QuestionGroupID", "Submission Approach", "Average Score"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "80", table.Rows[0]["Average Score"])
	assert.Equal(t, "", table.Rows[1]["Average Score"])
}

func TestReadTableFrom_HeaderOnly(t *testing.T) {
	table, err := ReadTableFrom(strings.NewReader("QuestionGroupID,Submission Approach\n"), FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)

	_, err = ReadTableFrom(strings.NewReader(""), FormatCSV)
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}

func TestDataReader_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"QuestionGroupID", "Submission Approach", "Average Score", "Standard Deviation", "Num Students"},
		{1, "Single", 80.5, 5, 30},
		{1, "Dual", 75, 4, 25},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	reader := NewDataReader(path)
	assert.Equal(t, path, reader.Name())
	table, err := reader.ReadTable(context.Background())
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1", table.Rows[0]["QuestionGroupID"])
	assert.Equal(t, "80.5", table.Rows[0]["Average Score"])
	assert.Equal(t, "Dual", table.Rows[1]["Submission Approach"])
}

func TestDataReader_MissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv")).ReadTable(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBytesSource(t *testing.T) {
	src, err := NewBytesSource("upload.csv", []byte("QuestionGroupID,Submission Approach\n3,Dual\n"))
	require.NoError(t, err)
	table, err := src.ReadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "upload.csv", src.Name())
	assert.Len(t, table.Rows, 1)

	_, err = NewBytesSource("upload.txt", nil)
	assert.Error(t, err)
}
