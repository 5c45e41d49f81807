package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader reads an input table from an Excel or CSV file. It implements
// ports.TableSource.
type DataReader struct {
	filePath string
	logger   *internal.Logger
}

// NewDataReader creates a reader; the format is taken from the extension.
func NewDataReader(filePath string) *DataReader {
	return &DataReader{
		filePath: filePath,
		logger:   internal.DefaultLogger.WithComponent("DataReader"),
	}
}

// Name returns the file path.
func (r *DataReader) Name() string { return r.filePath }

// ReadTable loads the whole file.
func (r *DataReader) ReadTable(ctx context.Context) (comparison.RawTable, error) {
	format, err := DetectFormat(r.filePath)
	if err != nil {
		return comparison.RawTable{}, err
	}
	if err := ctx.Err(); err != nil {
		return comparison.RawTable{}, err
	}

	start := time.Now()
	f, err := os.Open(r.filePath)
	if err != nil {
		return comparison.RawTable{}, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(string(format)), err)
	}
	defer f.Close()

	table, err := ReadTableFrom(f, format)
	if err != nil {
		return comparison.RawTable{}, err
	}
	r.logger.Info("%s read in %.2fms (%d columns, %d rows)",
		r.filePath, float64(time.Since(start).Nanoseconds())/1e6, len(table.Headers), len(table.Rows))
	return table, nil
}

// ReadTableFrom parses a table from an in-memory or streamed file body.
func ReadTableFrom(src io.Reader, format Format) (comparison.RawTable, error) {
	var rows [][]string
	var err error
	switch format {
	case FormatCSV:
		rows, err = readCSVRows(src)
	case FormatXLSX:
		rows, err = readXLSXRows(src)
	default:
		return comparison.RawTable{}, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return comparison.RawTable{}, err
	}
	return processRows(rows)
}

func readCSVRows(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	// tolerate a UTF-8 BOM from spreadsheet exports
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func readXLSXRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrEmptyTable
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return rows, nil
}

// processRows turns string rows into a RawTable. Short rows leave the
// trailing columns empty; cells beyond the header are ignored.
func processRows(rows [][]string) (comparison.RawTable, error) {
	if len(rows) == 0 {
		return comparison.RawTable{}, core.ErrEmptyTable
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]comparison.RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rowData := make(comparison.RawRow, len(headers))
		for j, header := range headers {
			if j < len(row) {
				rowData[header] = strings.TrimSpace(row[j])
			} else {
				rowData[header] = ""
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return comparison.RawTable{Headers: headers, Rows: dataRows}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// BytesSource adapts an uploaded file body to ports.TableSource.
type BytesSource struct {
	name   string
	format Format
	body   []byte
}

// NewBytesSource wraps body; the format comes from name's extension.
func NewBytesSource(name string, body []byte) (*BytesSource, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	return &BytesSource{name: name, format: format, body: body}, nil
}

// Name returns the upload name.
func (s *BytesSource) Name() string { return s.name }

// ReadTable parses the body.
func (s *BytesSource) ReadTable(ctx context.Context) (comparison.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return comparison.RawTable{}, err
	}
	return ReadTableFrom(bytes.NewReader(s.body), s.format)
}
