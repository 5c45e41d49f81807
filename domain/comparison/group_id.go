package comparison

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// GroupID is an opaque, comparable group key carried as text.
//
// Ordering: two ids that both parse as finite numbers compare numerically,
// numeric ids sort before textual ones, and everything else compares as
// strings. Ties between numerically equal ids ("7" and "7.0") fall back to
// the raw text so the order stays total.
type GroupID string

func (g GroupID) String() string { return string(g) }

func (g GroupID) numeric() (float64, bool) {
	s := strings.TrimSpace(string(g))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Compare returns -1, 0 or +1.
func (g GroupID) Compare(other GroupID) int {
	a, aNum := g.numeric()
	b, bNum := other.numeric()
	switch {
	case aNum && bNum:
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(string(g), string(other))
}

// Less reports whether g sorts before other.
func (g GroupID) Less(other GroupID) bool { return g.Compare(other) < 0 }

// sortGroupIDs orders ids ascending in place.
func sortGroupIDs(ids []GroupID) {
	sort.SliceStable(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}

func sortByGroup[T any](items []T, key func(T) GroupID) {
	sort.SliceStable(items, func(i, j int) bool { return key(items[i]).Less(key(items[j])) })
}
