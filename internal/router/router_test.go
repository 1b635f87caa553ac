package router

import (
	"math"
	"testing"

	"attnrouter/internal/attnstate"
)

func TestScenarioAPureDecay(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["a.md"] = 1.0

	r.UpdateAttention(state, "", nil, nil)

	if state.Scores["a.md"] <= 0.69 || state.Scores["a.md"] >= 0.71 {
		t.Errorf("expected a.md score in (0.69, 0.71), got %f", state.Scores["a.md"])
	}
	if state.ConsecutiveTurns["a.md"] != 1 {
		t.Errorf("expected consecutive_turns=1, got %d", state.ConsecutiveTurns["a.md"])
	}
	if state.TurnCount != 1 {
		t.Errorf("expected turn_count=1, got %d", state.TurnCount)
	}
}

func TestScenarioBPinnedFloor(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	cfg.PinnedFiles = map[string]struct{}{"p.md": {}}
	cfg.PinnedFloorBoost = 0.1
	cfg.WarmThreshold = 0.25
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["p.md"] = 0.05

	r.UpdateAttention(state, "", nil, nil)

	if state.Scores["p.md"] < 0.35 {
		t.Errorf("expected p.md score >= 0.35, got %f", state.Scores["p.md"])
	}
}

func TestScenarioCDemotion(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	cfg.DemotedFiles = map[string]struct{}{"d.md": {}}
	cfg.DemotedPenalty = 0.5
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["d.md"] = 0.6
	state.Scores["n.md"] = 0.6

	r.UpdateAttention(state, "", nil, nil)

	if math.Abs(state.Scores["d.md"]-0.21) > 0.01 {
		t.Errorf("expected d.md ~= 0.21, got %f", state.Scores["d.md"])
	}
	if math.Abs(state.Scores["n.md"]-0.42) > 0.01 {
		t.Errorf("expected n.md ~= 0.42, got %f", state.Scores["n.md"])
	}
}

func TestScenarioECacheStabilitySort(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["high_score.md"] = 0.95
	state.Scores["high_streak.md"] = 0.9
	state.ConsecutiveTurns["high_score.md"] = 1
	state.ConsecutiveTurns["high_streak.md"] = 5

	hot, _, _ := r.BuildContextOutput(state)

	if len(hot) != 2 || hot[0] != "high_streak.md" {
		t.Errorf("expected streak to beat score, got %v", hot)
	}
}

func TestCoActivationBFSTakesMaxNotSum(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	cfg.CoActivation = map[string][]string{
		"seed.md":  {"mid.md"},
		"mid.md":   {"far.md"},
		"other.md": {"far.md"},
	}
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["seed.md"] = 0.5
	state.Scores["mid.md"] = 0.1
	state.Scores["far.md"] = 0.1
	state.Scores["other.md"] = 0.1

	r.UpdateAttention(state, "", []string{"seed.md", "other.md"}, nil)

	// far.md is 2 hops from seed.md (transitive_boost=0.15) and 1 hop from
	// other.md (coactivation_boost=0.35); the larger wins.
	decayed := 0.1 * attnstate.DefaultDecay
	expected := attnstate.ClampScore(decayed + cfg.CoactivationBoost)
	if math.Abs(state.Scores["far.md"]-expected) > 1e-9 {
		t.Errorf("expected far.md=%f (max boost), got %f", expected, state.Scores["far.md"])
	}
}

func TestCoActivationNeverCreatesNewScoreEntry(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	cfg.CoActivation = map[string][]string{"seed.md": {"ghost.md"}}
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["seed.md"] = 0.5

	r.UpdateAttention(state, "", []string{"seed.md"}, nil)

	if _, ok := state.Scores["ghost.md"]; ok {
		t.Error("phase 2 must not create a new scores entry")
	}
}

func TestInvariantScoresClampedAndTurnCountMonotonic(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["x.md"] = 1.0
	state.Scores["y.md"] = 0.0

	before := state.TurnCount
	r.UpdateAttention(state, "", nil, nil)

	for path, score := range state.Scores {
		if score < 0 || score > 1 {
			t.Errorf("score for %s out of [0,1]: %f", path, score)
		}
	}
	if state.TurnCount != before+1 {
		t.Errorf("turn_count should increment by exactly 1")
	}
}

func TestStreakResetsOnCold(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["cold.md"] = 0.01
	state.ConsecutiveTurns["cold.md"] = 4

	r.UpdateAttention(state, "", nil, nil)

	tier := attnstate.TierOf(state.Scores["cold.md"], cfg.HotThreshold, cfg.WarmThreshold)
	if tier == attnstate.Cold && state.ConsecutiveTurns["cold.md"] != 0 {
		t.Error("COLD file must have consecutive_turns reset to 0")
	}
}

func TestHotWarmCapsRespected(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	cfg.MaxHotFiles = 1
	cfg.MaxWarmFiles = 1
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["h1.md"] = 0.9
	state.Scores["h2.md"] = 0.85
	state.Scores["w1.md"] = 0.5
	state.Scores["w2.md"] = 0.4

	hot, warm, _ := r.BuildContextOutput(state)
	if len(hot) > 1 {
		t.Errorf("expected hot truncated to 1, got %d", len(hot))
	}
	if len(warm) > 1 {
		t.Errorf("expected warm truncated to 1, got %d", len(warm))
	}
}

func TestBuildContextOutputIdempotent(t *testing.T) {
	cfg := attnstate.DefaultConfig()
	r := New(cfg)

	state := attnstate.NewAttentionState()
	state.Scores["a.md"] = 0.9
	state.Scores["b.md"] = 0.5
	state.Scores["c.md"] = 0.1

	hot1, warm1, cold1 := r.BuildContextOutput(state)
	hot2, warm2, cold2 := r.BuildContextOutput(state)

	if !equalSlices(hot1, hot2) || !equalSlices(warm1, warm2) || !equalSlices(cold1, cold2) {
		t.Error("build_context_output must be idempotent on an unchanged state")
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
