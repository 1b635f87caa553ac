package learner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"attnrouter/internal/logging"

	"github.com/google/uuid"
)

func newSessionID() string { return uuid.NewString() }

// learnerDTO is the JSON shape from spec.md §6. A plain struct (rather than
// Learner itself) keeps the mutex out of the serialized form.
type learnerDTO struct {
	TurnCount        int                        `json:"turn_count"`
	Maturity         Maturity                   `json:"maturity"`
	WordFileCounts   map[string]map[string]int `json:"word_file_counts"`
	WordDocFreq      map[string]int            `json:"word_doc_freq"`
	FileTurns        map[string][]int          `json:"file_turns"`
	FileLastSeen     map[string]int            `json:"file_last_seen"`
	FileGaps         map[string][]int          `json:"file_gaps"`
	LastSessionFiles []string                  `json:"last_session_files"`
}

// Save atomically persists the Learner to path: marshal to a temp file in
// the same directory, then os.Rename over the destination, matching the
// teacher's rename-based promotion discipline
// (internal/autopoiesis/prompt_evolution/evolver.go).
func (l *Learner) Save(path string) error {
	l.mu.RLock()
	dto := learnerDTO{
		TurnCount:        l.TurnCount,
		Maturity:         l.Maturity,
		WordFileCounts:   l.WordFileCounts,
		WordDocFreq:      l.WordDocFreq,
		FileTurns:        l.FileTurns,
		FileLastSeen:     l.FileLastSeen,
		FileGaps:         l.FileGaps,
		LastSessionFiles: l.LastSessionFiles,
	}
	l.mu.RUnlock()

	data, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal learner state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create learner state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".learner-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write learner state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename learner state into place: %w", err)
	}

	logging.LearnerDebug("saved learner state to %s (turn_count=%d)", path, dto.TurnCount)
	return nil
}

// Load deserializes a Learner from path. A ParseError (malformed JSON)
// falls back to a fresh Learner per spec.md §7 rather than propagating.
func Load(path string) *Learner {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.LearnerDebug("no prior learner state at %s, starting fresh: %v", path, err)
		return New()
	}

	var dto learnerDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		logging.Get(logging.CategoryLearner).Warn("failed to parse learner state at %s, starting fresh: %v", path, err)
		return New()
	}

	l := &Learner{
		SessionID:        newSessionID(),
		TurnCount:        dto.TurnCount,
		Maturity:         dto.Maturity,
		WordFileCounts:   dto.WordFileCounts,
		WordDocFreq:      dto.WordDocFreq,
		FileTurns:        dto.FileTurns,
		FileLastSeen:     dto.FileLastSeen,
		FileGaps:         dto.FileGaps,
		LastSessionFiles: dto.LastSessionFiles,
	}
	if l.WordFileCounts == nil {
		l.WordFileCounts = make(map[string]map[string]int)
	}
	if l.WordDocFreq == nil {
		l.WordDocFreq = make(map[string]int)
	}
	if l.FileTurns == nil {
		l.FileTurns = make(map[string][]int)
	}
	if l.FileLastSeen == nil {
		l.FileLastSeen = make(map[string]int)
	}
	if l.FileGaps == nil {
		l.FileGaps = make(map[string][]int)
	}
	if l.Maturity == "" {
		l.Maturity = Observing
	}

	logging.LearnerDebug("loaded learner state from %s (turn_count=%d, maturity=%s)", path, l.TurnCount, l.Maturity)
	return l
}
