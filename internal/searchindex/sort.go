package searchindex

import "sort"

// sortResultsDesc sorts by score descending; ties break on path for a
// deterministic, reproducible ordering across repeated queries.
func sortResultsDesc(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Path < results[j].Path
	})
}

func maxScore(results []Result) float64 {
	var max float64
	for _, r := range results {
		if r.Score > max {
			max = r.Score
		}
	}
	return max
}
