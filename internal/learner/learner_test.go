package learner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScenarioDLearnerBoostAfterMaturity(t *testing.T) {
	l := New()
	for i := 0; i < 30; i++ {
		l.ObserveTurn("router config", []string{"router.rs"})
	}
	if !l.IsActive() {
		t.Fatal("expected learner to be Active after 30 turns")
	}

	scores := map[string]float64{"router.rs": 0.3 * 0.70} // post-decay baseline
	boosted := l.BoostScores("router", scores)

	if boosted["router.rs"] <= 0.21 {
		t.Errorf("expected boosted score > pure-decay baseline (0.21), got %f", boosted["router.rs"])
	}
}

func TestObserveTurnRequiresWordsAndFiles(t *testing.T) {
	l := New()
	l.ObserveTurn("", []string{"a.md"})
	if l.TurnCount != 0 {
		t.Error("empty prompt must not count as a turn")
	}
	l.ObserveTurn("significant words here", nil)
	if l.TurnCount != 0 {
		t.Error("no active files must not count as a turn")
	}
}

func TestMaturityMonotonic(t *testing.T) {
	l := New()
	for i := 0; i < 25; i++ {
		l.ObserveTurn("significant words here", []string{"a.md"})
	}
	if !l.IsActive() {
		t.Fatal("expected Active at turn_count=25")
	}
	if l.Maturity != Active {
		t.Errorf("expected Maturity=Active, got %s", l.Maturity)
	}

	l.ObserveTurn("", []string{"a.md"})
	l.ObserveTurn("significant words here", []string{"b.md"})
	if !l.IsActive() {
		t.Error("expected Maturity to stay Active after further turns")
	}
}

func TestGetFileDecayPiecewise(t *testing.T) {
	l := New()
	if got := l.GetFileDecay("never-seen.md"); got != 0.70 {
		t.Errorf("expected default decay 0.70 for unseen file, got %f", got)
	}

	l.ObserveTurn("significant words here", []string{"frequent.md"})
	l.ObserveTurn("significant words here", []string{"frequent.md"})
	l.ObserveTurn("significant words here", []string{"frequent.md"})
	if got := l.GetFileDecay("frequent.md"); got != slowDecay {
		t.Errorf("expected slow decay %f for frequently-revisited file, got %f", slowDecay, got)
	}
}

func TestGetLearnedCoactivationJaccardThreshold(t *testing.T) {
	l := New()
	for i := 0; i < 4; i++ {
		l.ObserveTurn("significant words here", []string{"a.md", "b.md"})
	}
	edges := l.GetLearnedCoactivation()
	found := false
	for _, n := range edges["a.md"] {
		if n == "b.md" {
			found = true
		}
	}
	if !found {
		t.Error("expected a.md<->b.md co-activation edge at Jaccard=1.0, intersection=4")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "learner.json")

	l := New()
	l.ObserveTurn("significant words here", []string{"a.md"})

	if err := l.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load(path)
	if loaded.TurnCount != l.TurnCount {
		t.Errorf("expected turn_count=%d after round-trip, got %d", l.TurnCount, loaded.TurnCount)
	}
}

func TestLoadFallsBackToFreshOnParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	l := Load(path)
	if l.TurnCount != 0 || l.Maturity != Observing {
		t.Error("expected a fresh Learner on parse error")
	}
}
