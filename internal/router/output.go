package router

import (
	"sort"

	"attnrouter/internal/attnstate"
)

// BuildContextOutput partitions files by tier and returns the truncated
// HOT/WARM lists (sorted by the cache-stability comparator) plus the
// unsorted COLD remainder. It only reads state; it never mutates it.
func (r *Router) BuildContextOutput(state *attnstate.AttentionState) (hot, warm, cold []string) {
	// A stable, deterministic base ordering (lexical) stands in for
	// insertion order, since maps carry none: the comparator below only
	// needs ties to resolve consistently across repeated calls, not to
	// reflect any particular historical insertion sequence.
	paths := make([]string, 0, len(state.Scores))
	for path := range state.Scores {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var hotFiles, warmFiles []string
	for _, path := range paths {
		tier := attnstate.TierOf(state.Scores[path], r.Config.HotThreshold, r.Config.WarmThreshold)
		switch tier {
		case attnstate.Hot:
			hotFiles = append(hotFiles, path)
		case attnstate.Warm:
			warmFiles = append(warmFiles, path)
		default:
			cold = append(cold, path)
		}
	}

	less := r.cacheStabilityLess(state)
	sort.SliceStable(hotFiles, func(i, j int) bool { return less(hotFiles[i], hotFiles[j]) })
	sort.SliceStable(warmFiles, func(i, j int) bool { return less(warmFiles[i], warmFiles[j]) })

	if len(hotFiles) > r.Config.MaxHotFiles {
		hotFiles = hotFiles[:r.Config.MaxHotFiles]
	}
	if len(warmFiles) > r.Config.MaxWarmFiles {
		warmFiles = warmFiles[:r.Config.MaxWarmFiles]
	}

	return hotFiles, warmFiles, cold
}

// cacheStabilityLess implements spec.md §4.1's comparator: pinned files
// first; within that, higher consecutive_turns first; within that, higher
// score first. The comparator is total — NaN and exact ties resolve to
// "equal" and the caller's stable sort preserves the prior (lexical) order.
func (r *Router) cacheStabilityLess(state *attnstate.AttentionState) func(a, b string) bool {
	return func(a, b string) bool {
		aPinned, bPinned := r.Config.IsPinned(a), r.Config.IsPinned(b)
		if aPinned != bPinned {
			return aPinned
		}

		aStreak, bStreak := state.ConsecutiveTurns[a], state.ConsecutiveTurns[b]
		if aStreak != bStreak {
			return aStreak > bStreak
		}

		aScore, bScore := state.Scores[a], state.Scores[b]
		if isNaN(aScore) || isNaN(bScore) {
			return false
		}
		if aScore != bScore {
			return aScore > bScore
		}

		return false
	}
}

func isNaN(f float64) bool { return f != f }
