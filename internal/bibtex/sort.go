package bibtex

import "sort"

// SortByYear orders records by ascending numeric year. Missing or
// non-numeric years count as 0 and ties keep their parse order.
func SortByYear(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Year() < records[j].Year()
	})
}
