package router

import "attnrouter/internal/attnstate"

// phaseDecay is Phase 1. Every file present in scores is multiplied by its
// decay factor: the learner's per-file decay when a learner is supplied,
// otherwise the config's prefix-resolved decay rate. Decay runs before any
// boost so HOT files bled back into range must be re-earned.
func (r *Router) phaseDecay(state *attnstate.AttentionState, learner Learner) {
	for path, score := range state.Scores {
		decay := r.decayFor(path, learner)
		state.Scores[path] = attnstate.ClampScore(score * decay)
	}
}

func (r *Router) decayFor(path string, learner Learner) float64 {
	var d float64
	if learner != nil {
		d = learner.GetFileDecay(path)
	} else {
		d = r.Config.DecayRates.GetDecay(path)
	}
	// NaN or non-positive decay factors fall back to the documented default
	// per spec.md §4.1's defensive-clamp rule.
	if d != d || d <= 0 {
		return attnstate.DefaultDecay
	}
	return d
}

// phaseCoActivation is Phase 2. For each directly-activated file, BFS the
// static co-activation graph up to 2 hops. 1-hop neighbors receive
// coactivation_boost, 2-hop neighbors receive transitive_boost; when a file
// is reachable at multiple hop distances the larger boost wins. A file with
// no prior entry in scores is never created by this phase.
func (r *Router) phaseCoActivation(state *attnstate.AttentionState, directlyActivated []string) {
	if len(directlyActivated) == 0 {
		return
	}

	boosts := make(map[string]float64)
	for _, seed := range directlyActivated {
		hop1 := r.Config.CoActivation[seed]
		seen := map[string]struct{}{seed: {}}
		for _, n1 := range hop1 {
			if n1 == seed {
				continue
			}
			if r.Config.CoactivationBoost > boosts[n1] {
				boosts[n1] = r.Config.CoactivationBoost
			}
			seen[n1] = struct{}{}
		}
		for _, n1 := range hop1 {
			for _, n2 := range r.Config.CoActivation[n1] {
				if _, ok := seen[n2]; ok {
					continue
				}
				if r.Config.TransitiveBoost > boosts[n2] {
					boosts[n2] = r.Config.TransitiveBoost
				}
			}
		}
	}

	for path, boost := range boosts {
		if cur, exists := state.Scores[path]; exists {
			state.Scores[path] = attnstate.ClampScore(cur + boost)
		}
	}
}

// phasePinnedFloor is Phase 3: a floor, not an override. Higher scores are
// preserved.
func (r *Router) phasePinnedFloor(state *attnstate.AttentionState) {
	floor := r.Config.WarmThreshold + r.Config.PinnedFloorBoost
	for path := range r.Config.PinnedFiles {
		if cur, exists := state.Scores[path]; exists && cur < floor {
			state.Scores[path] = attnstate.ClampScore(floor)
		}
	}
}

// phaseDemotion is Phase 4. Demoted files not directly activated this turn
// are multiplicatively penalized; directly-activated demoted files escape
// the penalty for this turn only.
func (r *Router) phaseDemotion(state *attnstate.AttentionState, activated map[string]struct{}) {
	for path := range r.Config.DemotedFiles {
		if _, isActivated := activated[path]; isActivated {
			continue
		}
		if cur, exists := state.Scores[path]; exists {
			state.Scores[path] = attnstate.ClampScore(cur * r.Config.DemotedPenalty)
		}
	}
}

// phaseLearnerBoost is Phase 5. Observing-mode or absent learners leave
// scores unchanged; an Active learner's BoostScores output is applied by
// assignment (it already folds in the current score, per spec.md §4.2).
func (r *Router) phaseLearnerBoost(state *attnstate.AttentionState, prompt string, learner Learner) {
	if learner == nil || !learner.IsActive() {
		return
	}
	boosted := learner.BoostScores(prompt, state.Scores)
	for path, score := range boosted {
		state.Scores[path] = attnstate.ClampScore(score)
	}
}

// phaseStreakAccounting is Phase 6. No score mutation: HOT/WARM files gain
// a consecutive-turn streak, COLD files reset to zero, and turn_count
// advances by exactly one.
func (r *Router) phaseStreakAccounting(state *attnstate.AttentionState) {
	for path, score := range state.Scores {
		tier := attnstate.TierOf(score, r.Config.HotThreshold, r.Config.WarmThreshold)
		if tier == attnstate.Hot || tier == attnstate.Warm {
			state.ConsecutiveTurns[path]++
		} else {
			state.ConsecutiveTurns[path] = 0
		}
	}
	state.TurnCount++
}
