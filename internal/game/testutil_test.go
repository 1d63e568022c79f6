package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Card builders used across the package tests. Attack cards are pure attacks
// (no defense value) so enumeration tests can count actions precisely.

func attackCard(name string, cost, attack, pitch int, keywords ...string) *Card {
	return &Card{Name: name, Cost: cost, Attack: attack, Pitch: pitch, Keywords: keywords}
}

func defenseCard(name string, defense, pitch int) *Card {
	return &Card{Name: name, Defense: defense, Pitch: pitch}
}

func reactionCard(name string, defense, pitch int) *Card {
	return &Card{Name: name, Defense: defense, Pitch: pitch, Keywords: []string{KeywordDefenseReaction}}
}

func attackReactionCard(name string, cost, attack, pitch int) *Card {
	return &Card{Name: name, Cost: cost, Attack: attack, Pitch: pitch, Keywords: []string{KeywordAttackReaction}}
}

func resourceCard(name string, pitch int) *Card {
	return &Card{Name: name, Pitch: pitch}
}

// harness wraps an engine and a hand-built state for scenario tests. State
// mutation goes through the engine so clone/rollback semantics are always in
// play.
type harness struct {
	t   *testing.T
	eng *Engine
	gs  *GameState
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gs := &GameState{
		Phase:          PhaseSOT,
		Rules:          DefaultRules(),
		ArsenalPlayer:  NoPlayer,
		CombatPriority: NoPlayer,
		ReactionActor:  NoPlayer,
	}
	gs.Players[0] = &PlayerState{Life: 20, Hero: Hero{Name: "Hero Zero"}}
	gs.Players[1] = &PlayerState{Life: 20, Hero: Hero{Name: "Hero One"}}
	return &harness{t: t, eng: NewEngine(zaptest.NewLogger(t)), gs: gs}
}

func (h *harness) hand(player int, cards ...*Card) *harness {
	h.gs.Players[player].Hand = cards
	return h
}

func (h *harness) deck(player int, cards ...*Card) *harness {
	h.gs.Players[player].Deck = cards
	return h
}

func (h *harness) arsenal(player int, cards ...*Card) *harness {
	h.gs.Players[player].Arsenal = cards
	return h
}

func (h *harness) weapon(player int, w *Weapon) *harness {
	h.gs.Players[player].Weapon = w
	return h
}

// actionPhase skips the start-of-turn prompt: action phase, one action point.
func (h *harness) actionPhase() *harness {
	h.gs.Phase = PhaseAction
	h.gs.ActionPoints = 1
	return h
}

func (h *harness) legal() []Action {
	return h.eng.EnumerateLegalActions(h.gs)
}

func (h *harness) apply(a Action) Event {
	h.t.Helper()
	next, _, ev := h.eng.ApplyAction(h.gs, a)
	h.gs = next
	return ev
}

func (h *harness) mustApply(a Action) Event {
	h.t.Helper()
	ev := h.apply(a)
	require.NotEqual(h.t, EventIllegalAction, ev.Type,
		"action %s rejected: %s", a.String(), ev.Reason)
	return ev
}

// declareAttack plays the given attacker action and passes the layer step for
// both players, leaving the state awaiting blockers.
func (h *harness) declareAttack(a Action) Event {
	h.t.Helper()
	ev := h.mustApply(a)
	h.mustApply(NewAction(ActPass))
	h.mustApply(NewAction(ActPass))
	require.True(h.t, h.gs.AwaitingDefense)
	return ev
}

func playAttack(idx int, pitch ...int) Action {
	a := NewAction(ActPlayAttack)
	a.PlayIdx = idx
	a.Pitch = NewCardSet(pitch...)
	return a
}

func defend(indices ...int) Action {
	a := NewAction(ActDefend)
	a.Defend = NewCardSet(indices...)
	return a
}

func kindsOf(actions []Action) []ActionKind {
	kinds := make([]ActionKind, len(actions))
	for i, a := range actions {
		kinds[i] = a.Kind
	}
	return kinds
}

func countKind(actions []Action, kind ActionKind) int {
	n := 0
	for _, a := range actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}
