// Package learner implements the online affinity model: per-turn
// prompt-word/file co-occurrence counting, a maturity gate that unlocks
// prompt-conditional score boosts once enough turns have been observed, and
// a piecewise-linear decay rate derived from how often a file recurs.
//
// Grounded in the teacher's ContextFeedbackStore
// (internal/context/feedback_store.go) for the shape of an online,
// persisted learning component, and in ActivationEngine's recency scoring
// (internal/context/activation.go) for the decay-by-gap idea.
package learner

import (
	"math"
	"strings"
	"sync"

	"attnrouter/internal/logging"

	"github.com/google/uuid"
)

// Maturity gates whether boost_scores returns anything. It is monotonic:
// once Active, a Learner never reverts without an explicit Reset.
type Maturity string

const (
	Observing Maturity = "observing"
	Active    Maturity = "active"
)

// MaturityThreshold is the turn_count at which a Learner becomes Active.
const MaturityThreshold = 25

// ActiveBoostWeight is the weight applied to normalized affinity in
// boost_scores, per spec.md §4.2.
const ActiveBoostWeight = 0.35

const (
	minGapsForDecay = 2
	slowDecayGap    = 3
	fastDecayGap    = 12
	slowDecay       = 0.88
	fastDecay       = 0.50
)

// Learner is an append-only counter set plus a maturity flag. All exported
// methods are safe for concurrent read access from Router; ObserveTurn and
// SaveSession are the only mutators and the host is responsible for
// serializing calls into a single Learner (spec.md §5: no concurrent mutation defense in core).
type Learner struct {
	mu sync.RWMutex

	SessionID string `json:"-"`

	TurnCount int      `json:"turn_count"`
	Maturity  Maturity `json:"maturity"`

	WordFileCounts map[string]map[string]int `json:"word_file_counts"`
	WordDocFreq    map[string]int            `json:"word_doc_freq"`

	FileTurns    map[string][]int `json:"file_turns"`
	FileLastSeen map[string]int   `json:"file_last_seen"`
	FileGaps     map[string][]int `json:"file_gaps"`

	LastSessionFiles []string `json:"last_session_files"`
}

// New returns a fresh, Observing Learner.
func New() *Learner {
	return &Learner{
		SessionID:      uuid.NewString(),
		Maturity:       Observing,
		WordFileCounts: make(map[string]map[string]int),
		WordDocFreq:    make(map[string]int),
		FileTurns:      make(map[string][]int),
		FileLastSeen:   make(map[string]int),
		FileGaps:       make(map[string][]int),
	}
}

// IsActive reports whether the Learner has crossed the maturity gate.
func (l *Learner) IsActive() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.Maturity == Active
}

// ObserveTurn records one turn of (prompt, active_files). A turn with no
// significant words or no active files is not counted (turn_count
// unchanged), per spec.md §4.2 step 2.
func (l *Learner) ObserveTurn(prompt string, activeFiles []string) {
	words := significantWords(prompt)
	if len(words) == 0 || len(activeFiles) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for w := range words {
		l.WordDocFreq[w]++
		if l.WordFileCounts[w] == nil {
			l.WordFileCounts[w] = make(map[string]int)
		}
		for _, f := range activeFiles {
			l.WordFileCounts[w][f]++
		}
	}

	turn := l.TurnCount
	for _, f := range activeFiles {
		l.FileTurns[f] = append(l.FileTurns[f], turn)
		if last, ok := l.FileLastSeen[f]; ok {
			l.FileGaps[f] = append(l.FileGaps[f], turn-last)
		}
		l.FileLastSeen[f] = turn
	}

	l.TurnCount++
	if l.TurnCount >= MaturityThreshold {
		l.Maturity = Active
	}

	logging.LearnerDebug("observe_turn: turn_count=%d words=%d files=%d maturity=%s", l.TurnCount, len(words), len(activeFiles), l.Maturity)
}

// BoostScores implements spec.md §4.2's Active-mode affinity boost.
// Observing-mode learners, or prompts with zero significant words, return
// current_scores unchanged.
func (l *Learner) BoostScores(prompt string, currentScores map[string]float64) map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]float64, len(currentScores))
	for f, s := range currentScores {
		out[f] = s
	}

	words := significantWords(prompt)
	if l.Maturity != Active || len(words) == 0 {
		return out
	}

	idf := make(map[string]float64, len(words))
	for w := range words {
		if l.TurnCount > 0 {
			idf[w] = math.Max(0.1, math.Log(float64(l.TurnCount)/(1+float64(l.WordDocFreq[w]))))
		} else {
			idf[w] = 1.0
		}
	}

	for f, score := range currentScores {
		var affinity float64
		for w := range words {
			var freq float64
			if l.TurnCount > 0 {
				freq = float64(l.WordFileCounts[w][f]) / float64(l.TurnCount)
			}
			affinity += idf[w] * freq
		}
		normalized := affinity / math.Max(1, float64(len(words)))
		boost := normalized * ActiveBoostWeight
		out[f] = math.Min(1.0, score+boost)
	}

	return out
}

// GetFileDecay returns the piecewise-linear decay rate for path, derived
// from the median of its recorded appearance gaps.
func (l *Learner) GetFileDecay(path string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	gaps := l.FileGaps[path]
	if len(gaps) == 0 {
		return defaultDecay()
	}

	median := medianOf(gaps)
	switch {
	case median <= slowDecayGap:
		return slowDecay
	case median >= fastDecayGap:
		return fastDecay
	default:
		return slowDecay + ((median-slowDecayGap)/(fastDecayGap-slowDecayGap))*(fastDecay-slowDecay)
	}
}

func defaultDecay() float64 { return 0.70 }

// GetLearnedCoactivation derives a symmetric co-activation map from
// Jaccard similarity of file-turn sets: an edge is recorded in both
// directions when Jaccard >= 0.25 and the intersection has at least 3
// shared turns.
func (l *Learner) GetLearnedCoactivation() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	files := make([]string, 0, len(l.FileTurns))
	sets := make(map[string]map[int]struct{}, len(l.FileTurns))
	for f, turns := range l.FileTurns {
		files = append(files, f)
		set := make(map[int]struct{}, len(turns))
		for _, t := range turns {
			set[t] = struct{}{}
		}
		sets[f] = set
	}

	edges := make(map[string][]string)
	for i := 0; i < len(files); i++ {
		for j := i + 1; j < len(files); j++ {
			a, b := files[i], files[j]
			inter, union := intersectUnion(sets[a], sets[b])
			if union == 0 {
				continue
			}
			jaccard := float64(inter) / float64(union)
			if jaccard >= 0.25 && inter >= 3 {
				edges[a] = append(edges[a], b)
				edges[b] = append(edges[b], a)
			}
		}
	}
	return edges
}

func intersectUnion(a, b map[int]struct{}) (inter, union int) {
	union = len(a) + len(b)
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union -= inter
	return inter, union
}

func medianOf(gaps []int) float64 {
	sorted := append([]int(nil), gaps...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2.0
}

// SaveSession stores the warm-start file set for the next session.
func (l *Learner) SaveSession(files []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.LastSessionFiles = append([]string(nil), files...)
}

// GetWarmup returns the file set saved by the last SaveSession call.
func (l *Learner) GetWarmup() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.LastSessionFiles...)
}

// significantWords tokenizes prompt per spec.md §4.2 step 1: lowercase,
// split on non-alphanumeric except '_'/'-', keep tokens of length >= 3 not
// in the stop-word list.
func significantWords(prompt string) map[string]struct{} {
	words := make(map[string]struct{})
	var b strings.Builder
	flush := func() {
		if b.Len() >= 3 {
			w := strings.ToLower(b.String())
			if !stopWords[w] {
				words[w] = struct{}{}
			}
		}
		b.Reset()
	}
	for _, r := range prompt {
		if isWordRune(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
}
