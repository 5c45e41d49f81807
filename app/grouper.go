package app

import (
	"gocompare/domain/comparison"
)

// GroupRows holds one group's rows split by approach. Rows with an
// unrecognized approach are in neither slice.
type GroupRows struct {
	Single []comparison.SummaryRow
	Dual   []comparison.SummaryRow
}

// Partition splits validated rows by group id, then by approach. Every
// group id seen in rows gets an entry, even when all of its rows carry an
// unrecognized approach.
func Partition(rows []comparison.SummaryRow) map[comparison.GroupID]*GroupRows {
	groups := make(map[comparison.GroupID]*GroupRows)
	for _, r := range rows {
		g, ok := groups[r.GroupID]
		if !ok {
			g = &GroupRows{}
			groups[r.GroupID] = g
		}
		switch r.Approach {
		case comparison.ApproachSingle:
			g.Single = append(g.Single, r)
		case comparison.ApproachDual:
			g.Dual = append(g.Dual, r)
		}
	}
	return groups
}
