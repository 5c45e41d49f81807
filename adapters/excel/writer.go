package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/domain/verdict"
	"gocompare/internal"
	"gocompare/internal/errors"

	"github.com/xuri/excelize/v2"
)

// RunSheet holds the manifest of the run that produced an xlsx result table.
const RunSheet = "Run"

// ResultWriter writes the result table to an xlsx or csv file. It
// implements ports.ResultSink. The file appears only once fully written.
type ResultWriter struct {
	filePath string
	logger   *internal.Logger
}

// NewResultWriter creates a writer for filePath.
func NewResultWriter(filePath string) *ResultWriter {
	return &ResultWriter{
		filePath: filePath,
		logger:   internal.DefaultLogger.WithComponent("ResultWriter"),
	}
}

// Path returns the output path.
func (w *ResultWriter) Path() string { return w.filePath }

// WriteResults writes records in the order given.
func (w *ResultWriter) WriteResults(ctx context.Context, manifest *run.Manifest, records []comparison.ResultRecord) error {
	format, err := DetectFormat(w.filePath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.filePath)
	tmp, err := os.CreateTemp(dir, ".results-*")
	if err != nil {
		return errors.OutputError(w.filePath, err)
	}
	defer os.Remove(tmp.Name())

	switch format {
	case FormatXLSX:
		err = writeXLSX(tmp, manifest, records)
	case FormatCSV:
		err = writeCSV(tmp, records)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.OutputError(w.filePath, err)
	}
	if err := os.Rename(tmp.Name(), w.filePath); err != nil {
		return errors.OutputError(w.filePath, err)
	}

	w.logger.Info("wrote %d result rows to %s", len(records), w.filePath)
	return nil
}

// cellValues returns one row of typed cells; nil marks a missing value.
func cellValues(r comparison.ResultRecord) []interface{} {
	opt := func(f core.OptFloat) interface{} {
		if v, ok := f.Get(); ok {
			return v
		}
		return nil
	}
	return []interface{}{
		r.GroupID.String(),
		r.NSingle,
		r.NDual,
		opt(r.MeanSingle),
		opt(r.MeanDual),
		opt(r.PooledVarSingle),
		opt(r.PooledVarDual),
		opt(r.TStatistic),
		opt(r.DegreesOfFreedom),
		opt(r.PValue),
		r.Verdict.Label(),
	}
}

func writeXLSX(out io.Writer, manifest *run.Manifest, records []comparison.ResultRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := DefaultSheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range ResultColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, record := range records {
		for c, v := range cellValues(record) {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if manifest != nil {
		if err := writeRunSheet(f, manifest); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(out)
	return err
}

func writeRunSheet(f *excelize.File, m *run.Manifest) error {
	if _, err := f.NewSheet(RunSheet); err != nil {
		return err
	}
	pairs := [][2]interface{}{
		{"run_id", m.RunID.String()},
		{"source", m.Source},
		{"input_hash", m.InputHash.String()},
		{"fingerprint", m.Fingerprint.String()},
		{"code_version", m.CodeVersion},
		{"input_rows", m.Validation.InputRows},
		{"groups", m.Groups},
		{"workers", m.Workers},
		{"started_at", m.StartedAt.String()},
		{"finished_at", m.FinishedAt.String()},
	}
	for _, v := range verdict.All {
		pairs = append(pairs, [2]interface{}{v.Label(), m.VerdictCounts[v]})
	}
	for i, kv := range pairs {
		if err := f.SetCellValue(RunSheet, fmt.Sprintf("A%d", i+1), kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(RunSheet, fmt.Sprintf("B%d", i+1), kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(out io.Writer, records []comparison.ResultRecord) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(ResultColumns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(csvFields(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvFields(r comparison.ResultRecord) []string {
	return []string{
		r.GroupID.String(),
		strconv.FormatInt(r.NSingle, 10),
		strconv.FormatInt(r.NDual, 10),
		r.MeanSingle.Format(),
		r.MeanDual.Format(),
		r.PooledVarSingle.Format(),
		r.PooledVarDual.Format(),
		r.TStatistic.Format(),
		r.DegreesOfFreedom.Format(),
		r.PValue.Format(),
		r.Verdict.Label(),
	}
}
