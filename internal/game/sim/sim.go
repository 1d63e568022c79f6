// Package sim drives full games with uniformly random action selection. It
// exists for integration testing: a playout exercises every phase and combat
// step and verifies the engine's structural invariants after every action.
package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/fabrules/fab-engine-go/internal/game"
)

// Result summarizes one playout.
type Result struct {
	Terminal bool
	Winner   int
	Actions  int
	Turns    int
}

// RunPlayout plays one game to termination (or the action cap) choosing
// uniformly random legal actions for both players. It fails if the enumerator
// ever returns no actions, if an enumerated action is rejected by the
// executor, or if an invariant breaks.
func RunPlayout(eng *game.Engine, g *game.Game, seed int64, maxActions int) (Result, error) {
	rng := rand.New(rand.NewSource(seed))
	res := Result{Winner: game.NoPlayer}

	baseline := cardCensus(g.State)
	state := g.State
	for step := 0; step < maxActions; step++ {
		if state.Terminal() {
			res.Terminal = true
			res.Winner = state.Winner()
			break
		}
		legal := eng.EnumerateLegalActions(state)
		if len(legal) == 0 {
			return res, fmt.Errorf("step %d: no legal actions (phase=%s step=%s)", step, state.Phase, state.CombatStep)
		}
		act := legal[rng.Intn(len(legal))]
		next, terminal, event := eng.ApplyAction(state, act)
		if event.Type == game.EventIllegalAction {
			return res, fmt.Errorf("step %d: enumerated action rejected: %s (%s)", step, act, event.Reason)
		}
		if event.Type == game.EventPassAction || event.Type == game.EventSetArsenal || event.Type == game.EventSkipArsenal {
			res.Turns++
		}
		if err := checkInvariants(next, baseline); err != nil {
			return res, fmt.Errorf("step %d after %s: %w", step, act, err)
		}
		state = next
		res.Actions++
		if terminal {
			res.Terminal = true
			res.Winner = state.Winner()
			break
		}
	}
	g.State = state
	return res, nil
}

// checkInvariants verifies the structural invariants that must hold after
// every successful transition.
func checkInvariants(gs *game.GameState, baseline []string) error {
	if gs.ActionPoints < 0 {
		return fmt.Errorf("negative action points: %d", gs.ActionPoints)
	}
	if gs.PendingAttack < 0 {
		return fmt.Errorf("negative pending attack: %d", gs.PendingAttack)
	}
	if gs.CombatStep != game.StepIdle && gs.Phase != game.PhaseAction {
		return fmt.Errorf("combat step %s outside the action phase (%s)", gs.CombatStep, gs.Phase)
	}
	for i, p := range gs.Players {
		if len(p.Arsenal) > 1 {
			return fmt.Errorf("player %d arsenal holds %d cards", i, len(p.Arsenal))
		}
	}
	census := cardCensus(gs)
	if len(census) != len(baseline) {
		return fmt.Errorf("card count changed: %d -> %d", len(baseline), len(census))
	}
	for i := range census {
		if census[i] != baseline[i] {
			return fmt.Errorf("card multiset changed at %d: %s -> %s", i, baseline[i], census[i])
		}
	}
	return nil
}

// cardCensus returns the sorted multiset of card instances across every zone
// of both players. Zone transfers must preserve it exactly.
func cardCensus(gs *game.GameState) []string {
	var ids []string
	for _, p := range gs.Players {
		for _, zone := range [][]*game.Card{p.Deck, p.Hand, p.Grave, p.Pitched, p.Arsenal} {
			for _, c := range zone {
				ids = append(ids, fmt.Sprintf("%p", c))
			}
		}
	}
	sort.Strings(ids)
	return ids
}
