package attnstate

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Save writes state to path via a temp-file-then-rename, matching the
// teacher's atomic-write discipline for frequently-mutated runtime state.
func Save(state *AttentionState, path string) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".attention-state-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

// Load reads state from path. A missing file or a ParseError (failed
// deserialize) both fall back to a fresh empty state per spec.md §7 —
// the host is expected to treat AttentionState as reconstructible, never
// a reason to crash.
func Load(path string) *AttentionState {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewAttentionState()
	}

	var state AttentionState
	if err := json.Unmarshal(data, &state); err != nil {
		return NewAttentionState()
	}

	if state.Scores == nil {
		state.Scores = make(map[string]float64)
	}
	if state.ConsecutiveTurns == nil {
		state.ConsecutiveTurns = make(map[string]int)
	}
	return &state
}
