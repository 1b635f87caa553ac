package repomap

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
)

const (
	pageRankDamping    = 0.85
	pageRankIterations = 100
)

// importGraph is a directed dependency graph over file paths, backed by
// gonum's simple.DirectedGraph for node/edge bookkeeping. PageRank itself
// is computed with a fixed power-iteration loop rather than gonum's
// graph/network.PageRank, whose tolerance-based stopping rule does not
// match spec.md §4.4's literal "100 iterations" contract.
type importGraph struct {
	g        *simple.DirectedGraph
	idOf     map[string]int64
	pathOf   map[int64]string
	nextID   int64
}

func newImportGraph() *importGraph {
	return &importGraph{
		g:      simple.NewDirectedGraph(),
		idOf:   make(map[string]int64),
		pathOf: make(map[int64]string),
	}
}

func (ig *importGraph) ensureNode(path string) int64 {
	if id, ok := ig.idOf[path]; ok {
		return id
	}
	id := ig.nextID
	ig.nextID++
	ig.idOf[path] = id
	ig.pathOf[id] = path
	ig.g.AddNode(simple.Node(id))
	return id
}

func (ig *importGraph) addEdge(from, to string) {
	fID := ig.ensureNode(from)
	tID := ig.ensureNode(to)
	if fID == tID {
		return
	}
	if ig.g.HasEdgeFromTo(fID, tID) {
		return
	}
	ig.g.SetEdge(ig.g.NewEdge(simple.Node(fID), simple.Node(tID)))
}

// resolveImport matches an import identifier to a known file node: first
// by direct key match, then by appending the language's resolution
// suffixes in order, per spec.md §4.4.
func (ig *importGraph) resolveImport(ident string, suffixes []string) (string, bool) {
	if _, ok := ig.idOf[ident]; ok {
		return ident, true
	}
	for _, suffix := range suffixes {
		candidate := ident + suffix
		if _, ok := ig.idOf[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

func (ig *importGraph) paths() []string {
	out := make([]string, 0, len(ig.idOf))
	for p := range ig.idOf {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// pageRank runs fixed power iteration: damping 0.85, exactly 100
// iterations (spec.md §4.4), returning path -> score.
func (ig *importGraph) pageRank() map[string]float64 {
	n := len(ig.idOf)
	if n == 0 {
		return map[string]float64{}
	}

	ids := make([]int64, 0, n)
	for _, id := range ig.idOf {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ig.pathOf[ids[i]] < ig.pathOf[ids[j]] })

	outDegree := make(map[int64]int, n)
	inEdges := make(map[int64][]int64, n)
	for _, id := range ids {
		it := ig.g.From(id)
		deg := 0
		for it.Next() {
			to := it.Node().ID()
			deg++
			inEdges[to] = append(inEdges[to], id)
		}
		outDegree[id] = deg
	}

	rank := make(map[int64]float64, n)
	for _, id := range ids {
		rank[id] = 1.0 / float64(n)
	}

	base := (1 - pageRankDamping) / float64(n)
	for iter := 0; iter < pageRankIterations; iter++ {
		next := make(map[int64]float64, n)

		// Dangling mass (nodes with no outbound edges) is redistributed
		// uniformly, the standard PageRank treatment.
		var danglingMass float64
		for _, id := range ids {
			if outDegree[id] == 0 {
				danglingMass += rank[id]
			}
		}
		danglingShare := pageRankDamping * danglingMass / float64(n)

		for _, id := range ids {
			var inbound float64
			for _, src := range inEdges[id] {
				inbound += rank[src] / float64(outDegree[src])
			}
			next[id] = base + danglingShare + pageRankDamping*inbound
		}
		rank = next
	}

	out := make(map[string]float64, n)
	for _, id := range ids {
		out[ig.pathOf[id]] = rank[id]
	}
	return out
}
