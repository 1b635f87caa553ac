package repomap

import (
	"sort"
	"sync"

	"attnrouter/internal/logging"
)

// RepoMapper extracts symbols per file, builds an import dependency
// graph, and ranks files by PageRank under a token budget. It has no
// background goroutine of its own (spec.md §5): every method runs
// synchronously under an internal mutex, single-writer / concurrent-
// reader, the same discipline SearchIndex follows.
type RepoMapper struct {
	mu sync.RWMutex

	files map[string]FileSymbols
	graph *importGraph
}

// New creates an empty RepoMapper.
func New() *RepoMapper {
	return &RepoMapper{
		files: make(map[string]FileSymbols),
		graph: newImportGraph(),
	}
}

// AddFile extracts FileSymbols for path using the regex pack selected by
// its extension, registers it as a graph node, and resolves its imports
// to edges against files already known to the mapper. Files added later
// that satisfy an earlier file's unresolved import are not retroactively
// wired; callers that need a complete graph should add files in a stable
// order (or call AddFile again after the full set is known).
func (rm *RepoMapper) AddFile(path, content string) FileSymbols {
	timer := logging.StartTimer(logging.CategoryRepoMap, "AddFile")
	defer timer.Stop()

	fs := extractSymbols(path, content)

	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.files[path] = fs
	rm.graph.ensureNode(path)

	pack := packForPath(path)
	suffixes := []string{}
	if pack != nil {
		suffixes = pack.resolveSuffixes
	}
	for _, imp := range fs.Imports {
		if target, ok := rm.graph.resolveImport(imp, suffixes); ok {
			rm.graph.addEdge(path, target)
		}
	}

	logging.RepoMapDebug("add_file: %s (%d symbols, %d imports)", path, len(fs.Symbols), len(fs.Imports))
	return fs
}

// FileSymbolsFor returns the previously extracted symbols for path, if
// any.
func (rm *RepoMapper) FileSymbolsFor(path string) (FileSymbols, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	fs, ok := rm.files[path]
	return fs, ok
}

// PageRank runs standard PageRank with damping 0.85 for a fixed 100
// iterations over the import graph built so far.
func (rm *RepoMapper) PageRank() map[string]float64 {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.graph.pageRank()
}

// GetRankedFiles sorts known files by descending PageRank score and
// greedily includes them, in order, until the next file's token_estimate
// would exceed tokenBudget; it then stops (first-fit, not subset sum),
// per spec.md §4.4. Exceeding the budget is not an error: the mapper
// simply stops including files.
func (rm *RepoMapper) GetRankedFiles(tokenBudget int) []RankedFile {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	scores := rm.graph.pageRank()
	ranked := make([]RankedFile, 0, len(scores))
	for path, score := range scores {
		ranked = append(ranked, RankedFile{Path: path, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Path < ranked[j].Path
	})

	var out []RankedFile
	used := 0
	for _, rf := range ranked {
		fs := rm.files[rf.Path]
		if used+fs.TokenEstimate > tokenBudget {
			break
		}
		used += fs.TokenEstimate
		out = append(out, rf)
	}

	logging.RepoMap("get_ranked_files: included %d/%d files within budget %d", len(out), len(ranked), tokenBudget)
	return out
}
