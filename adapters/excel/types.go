package excel

import (
	"path/filepath"
	"strings"

	"gocompare/internal/errors"
)

// Format is a supported table file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", errors.UnsupportedFormat(path)
	}
}

// Result table columns, in output order.
const (
	ColGroupID         = "QuestionGroupID"
	ColNSingle         = "N_Single"
	ColNDual           = "N_Dual"
	ColMeanSingle      = "Mean_Single"
	ColMeanDual        = "Mean_Dual"
	ColPooledVarSingle = "Pooled_Var_Single"
	ColPooledVarDual   = "Pooled_Var_Dual"
	ColTStat           = "T_stat"
	ColDegreesFreedom  = "Degrees_Freedom"
	ColPValue          = "P_value"
	ColTestResult      = "Test_Result"
)

// ResultColumns is the header row of a result table.
var ResultColumns = []string{
	ColGroupID, ColNSingle, ColNDual,
	ColMeanSingle, ColMeanDual,
	ColPooledVarSingle, ColPooledVarDual,
	ColTStat, ColDegreesFreedom, ColPValue,
	ColTestResult,
}

// DefaultSheet is where tables are read from and written to.
const DefaultSheet = "Sheet1"
