package excel

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/verdict"
)

// ReadResults loads a result table written by ResultWriter, or any table
// with the same columns. Rows without a Test_Result are dropped; an
// unrecognized Test_Result is an error.
func ReadResults(ctx context.Context, path string) ([]comparison.ResultRecord, error) {
	table, err := NewDataReader(path).ReadTable(ctx)
	if err != nil {
		return nil, err
	}
	return ParseResults(table)
}

// ParseResults converts a raw result table into records.
func ParseResults(table comparison.RawTable) ([]comparison.ResultRecord, error) {
	present := make(map[string]bool, len(table.Headers))
	for _, h := range table.Headers {
		present[h] = true
	}
	for _, col := range []string{ColGroupID, ColMeanSingle, ColMeanDual, ColTestResult} {
		if !present[col] {
			return nil, core.NewMissingColumnError(col, []string{col})
		}
	}

	records := make([]comparison.ResultRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		label := row[ColTestResult]
		if label == "" {
			continue
		}
		v, err := verdict.Parse(label)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", core.ErrUnrecognizedResult, i+2, err)
		}
		records = append(records, comparison.ResultRecord{
			GroupID:          comparison.GroupID(row[ColGroupID]),
			NSingle:          parseCount(row[ColNSingle]),
			NDual:            parseCount(row[ColNDual]),
			MeanSingle:       parseFloat(row[ColMeanSingle]),
			MeanDual:         parseFloat(row[ColMeanDual]),
			PooledVarSingle:  parseFloat(row[ColPooledVarSingle]),
			PooledVarDual:    parseFloat(row[ColPooledVarDual]),
			TStatistic:       parseFloat(row[ColTStat]),
			DegreesOfFreedom: parseFloat(row[ColDegreesFreedom]),
			PValue:           parseFloat(row[ColPValue]),
			Verdict:          v,
		})
	}
	return records, nil
}

func parseFloat(s string) core.OptFloat {
	if s == "" {
		return core.MissingFloat()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return core.MissingFloat()
	}
	return core.SomeFloat(v)
}

func parseCount(s string) int64 {
	v, ok := parseFloat(s).Get()
	if !ok || v < 0 {
		return 0
	}
	return int64(math.Round(v))
}
