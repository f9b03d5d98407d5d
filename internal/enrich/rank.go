package enrich

import "sort"

// Select keeps results significant at the FDR threshold and orders them
// deterministically. The filter is strict: a result with adjusted p equal
// to the threshold is excluded. Sort keys: adjusted p ascending, then raw
// p ascending, then set id lexicographic, so identical inputs always rank
// identically.
func Select(results []Result, fdrThreshold float64) []Result {
	selected := make([]Result, 0, len(results))
	for _, r := range results {
		if r.AdjustedP < fdrThreshold {
			selected = append(selected, r)
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.AdjustedP != b.AdjustedP {
			return a.AdjustedP < b.AdjustedP
		}
		if a.RawP != b.RawP {
			return a.RawP < b.RawP
		}
		return a.SetID < b.SetID
	})

	return selected
}
