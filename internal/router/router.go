// Package router implements the attention-routing engine's six-phase
// per-turn score update and the tiered context output it produces.
//
// Router owns no mutable state of its own: every mutation targets the
// AttentionState passed by reference, and the phase order is part of the
// contract — there is no plugin point at the scoring boundary, matching the
// teacher's ActivationEngine-as-pure-scorer shape
// (internal/context/activation.go in the teacher repo).
package router

import (
	"attnrouter/internal/attnstate"
	"attnrouter/internal/logging"
)

// Learner is the read-only view the Router needs from a Learner during a
// turn. internal/learner.Learner satisfies this interface; Router never
// mutates it.
type Learner interface {
	IsActive() bool
	GetFileDecay(path string) float64
	BoostScores(prompt string, currentScores map[string]float64) map[string]float64
}

// Router runs the fixed six-phase update over an AttentionState.
type Router struct {
	Config *attnstate.Config
}

// New builds a Router bound to an immutable Config.
func New(cfg *attnstate.Config) *Router {
	if cfg == nil {
		cfg = attnstate.DefaultConfig()
	}
	return &Router{Config: cfg}
}

// UpdateAttention runs the six phases in their fixed order and returns the
// set of files directly activated by this prompt (spec.md §4.1). learner
// may be nil.
func (r *Router) UpdateAttention(state *attnstate.AttentionState, prompt string, directlyActivated []string, learner Learner) []string {
	timer := logging.StartTimer(logging.CategoryRouter, "UpdateAttention")
	defer timer.Stop()

	if state.Scores == nil {
		state.Scores = make(map[string]float64)
	}
	if state.ConsecutiveTurns == nil {
		state.ConsecutiveTurns = make(map[string]int)
	}

	activatedSet := make(map[string]struct{}, len(directlyActivated))
	for _, f := range directlyActivated {
		activatedSet[f] = struct{}{}
	}

	r.phaseDecay(state, learner)
	r.phaseCoActivation(state, directlyActivated)
	r.phasePinnedFloor(state)
	r.phaseDemotion(state, activatedSet)
	r.phaseLearnerBoost(state, prompt, learner)
	r.phaseStreakAccounting(state)

	logging.RouterDebug("UpdateAttention: turn=%d files=%d activated=%d", state.TurnCount, len(state.Scores), len(directlyActivated))

	return directlyActivated
}
