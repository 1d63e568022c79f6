package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_StartOfTurnContinue(t *testing.T) {
	h := newHarness(t)
	ev := h.mustApply(NewAction(ActContinue))
	assert.Equal(t, EventSOTToAction, ev.Type)
	assert.Equal(t, PhaseAction, h.gs.Phase)
	assert.Equal(t, 1, h.gs.ActionPoints)
}

func TestExecute_LayerClosesAfterTwoPasses(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Hit", 0, 4, 1)).
		actionPhase()
	h.mustApply(playAttack(0))
	require.Equal(t, StepLayer, h.gs.CombatStep)
	require.Equal(t, 0, h.gs.CombatPriority)

	ev := h.mustApply(NewAction(ActPass))
	assert.Equal(t, EventLayerPass, ev.Type)
	assert.Equal(t, StepLayer, h.gs.CombatStep)
	assert.Equal(t, 1, h.gs.CombatPriority)

	ev = h.mustApply(NewAction(ActPass))
	assert.Equal(t, EventLayerEnd, ev.Type)
	assert.Equal(t, StepAttack, h.gs.CombatStep)
	assert.True(t, h.gs.AwaitingDefense)
	assert.Equal(t, NoPlayer, h.gs.CombatPriority)
}

// Worked sequence: a cost-3 attack for 5 is blocked for 3, both players pass
// the reaction window, the defender takes 2.
func TestExecute_AttackBlockedResolves(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Big Hit", 3, 5, 1), resourceCard("Blue", 3)).
		hand(1, defenseCard("Wall", 3, 2)).
		actionPhase()

	ev := h.declareAttack(playAttack(0, 1))
	assert.Equal(t, EventDeclareAttack, ev.Type)
	assert.Equal(t, 5, ev.Attack)
	assert.Equal(t, 3, ev.PitchSum)
	assert.Equal(t, 5, h.gs.PendingAttack)

	ev = h.mustApply(defend(0))
	assert.Equal(t, EventBlockPlay, ev.Type)
	assert.Equal(t, 3, ev.Blocked)
	assert.Equal(t, StepReaction, h.gs.CombatStep)
	assert.Equal(t, 3, h.gs.ReactionBlock)

	h.mustApply(NewAction(ActPass))      // defender
	ev = h.mustApply(NewAction(ActPass)) // attacker closes the chain

	assert.Equal(t, EventDefenseResolve, ev.Type)
	assert.Equal(t, 3, ev.Blocked)
	assert.Equal(t, 2, ev.Damage)
	assert.Equal(t, 18, ev.DefenderLife)
	assert.Equal(t, 18, h.gs.Players[1].Life)

	// Combat-transient state fully reset, attacker back in the action phase.
	assert.Equal(t, StepIdle, h.gs.CombatStep)
	assert.Zero(t, h.gs.PendingAttack)
	assert.Zero(t, h.gs.ReactionBlock)
	assert.Equal(t, NoPlayer, h.gs.ReactionActor)
	assert.False(t, h.gs.AwaitingDefense)

	// The block card went to the defender's grave, the attack to the
	// attacker's, the pitched card to the pitched zone.
	assert.Len(t, h.gs.Players[1].Grave, 1)
	assert.Len(t, h.gs.Players[0].Grave, 1)
	assert.Len(t, h.gs.Players[0].Pitched, 1)
	assert.Empty(t, h.gs.Players[0].Hand)
}

func TestExecute_DamageFloorsAtZero(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Jab", 0, 2, 1)).
		hand(1, defenseCard("Wall A", 3, 2), defenseCard("Wall B", 2, 1)).
		actionPhase()
	h.declareAttack(playAttack(0))
	h.mustApply(defend(0, 1)) // block 5 against attack 2
	h.mustApply(NewAction(ActPass))
	ev := h.mustApply(NewAction(ActPass))

	assert.Equal(t, EventDefenseResolve, ev.Type)
	assert.Zero(t, ev.Damage)
	assert.Equal(t, 20, h.gs.Players[1].Life)
}

func TestExecute_GoAgainRefundsActionPoint(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Swift", 0, 2, 1, KeywordGoAgain)).
		actionPhase()
	h.declareAttack(playAttack(0))
	require.Zero(t, h.gs.ActionPoints)

	h.mustApply(NewAction(ActPass)) // no block
	h.mustApply(NewAction(ActPass)) // defender passes reactions
	ev := h.mustApply(NewAction(ActPass))

	assert.Equal(t, EventDefenseResolve, ev.Type)
	assert.True(t, ev.GoAgain)
	assert.Equal(t, 1, h.gs.ActionPoints)
}

func TestExecute_DefenderReactionHandsPriorityToAttacker(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Hit", 0, 4, 1)).
		hand(1, reactionCard("Sink", 3, 2)).
		actionPhase()
	h.declareAttack(playAttack(0))
	h.mustApply(NewAction(ActPass)) // decline to block
	require.Equal(t, 1, h.gs.ReactionActor)

	ev := h.mustApply(defend(0))
	assert.Equal(t, EventDefenseReact, ev.Type)
	assert.Equal(t, 3, ev.Blocked)
	assert.Equal(t, 3, h.gs.ReactionBlock)
	// after a defender reaction the attacker speaks next
	assert.Equal(t, 0, h.gs.ReactionActor)
	assert.Zero(t, h.gs.CombatPasses)
}

func TestExecute_ArsenalDefenseReaction(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Hit", 0, 4, 1)).
		arsenal(1, reactionCard("Stored Sink", 3, 2)).
		actionPhase()
	h.declareAttack(playAttack(0))
	h.mustApply(NewAction(ActPass)) // decline to block

	a := NewAction(ActDefend)
	a.ArsenalIdx = 0
	ev := h.mustApply(a)
	assert.Equal(t, EventDefenseReact, ev.Type)
	assert.Equal(t, 3, ev.Blocked)
	assert.Empty(t, h.gs.Players[1].Arsenal)

	// the reaction handed priority to the attacker, so the chain needs a
	// fresh pair of passes to close
	h.mustApply(NewAction(ActPass)) // attacker
	h.mustApply(NewAction(ActPass)) // defender
	ev = h.mustApply(NewAction(ActPass))
	assert.Equal(t, EventDefenseResolve, ev.Type)
	assert.Equal(t, []string{"Stored Sink"}, ev.ArsenalDefense)
	assert.Equal(t, 1, ev.Damage)
}

func TestExecute_AttackReactionRaisesPending(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Hit", 0, 4, 1), attackReactionCard("Surge", 0, 2, 1)).
		hand(1, defenseCard("Wall", 3, 2)).
		actionPhase()
	h.declareAttack(playAttack(0))
	h.mustApply(defend(0))          // block 3
	h.mustApply(NewAction(ActPass)) // defender passes

	ar := NewAction(ActPlayAttackReaction)
	ar.PlayIdx = 0 // Surge is hand index 0 after Hit was played
	ev := h.mustApply(ar)
	assert.Equal(t, EventAttackReact, ev.Type)
	assert.Equal(t, 2, ev.Bonus)
	assert.Equal(t, SourceHand, ev.Source)
	assert.Equal(t, 6, h.gs.PendingAttack)
	// the window reopens for the defender
	assert.Equal(t, 1, h.gs.ReactionActor)

	h.mustApply(NewAction(ActPass)) // defender
	ev = h.mustApply(NewAction(ActPass))
	assert.Equal(t, EventDefenseResolve, ev.Type)
	assert.Equal(t, 3, ev.Damage)
	assert.Equal(t, 17, h.gs.Players[1].Life)
}

func TestExecute_FloatingResourcesCarryAcrossPlays(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Jab", 1, 2, 1, KeywordGoAgain), resourceCard("Blue", 3)).
		weapon(0, &Weapon{Name: "Sword", BaseAttack: 3, Cost: 2, OncePerTurn: true}).
		actionPhase()

	// Pitch 3 for cost 1: 2 left floating.
	h.declareAttack(playAttack(0, 1))
	assert.Equal(t, 2, h.gs.FloatingResources[0])

	h.mustApply(NewAction(ActPass)) // no block
	h.mustApply(NewAction(ActPass))
	h.mustApply(NewAction(ActPass)) // resolve; go_again refunds the point

	// The weapon swing costs 2, paid entirely from floating resources.
	actions := h.legal()
	require.Equal(t, 1, countKind(actions, ActWeaponAttack))
	for _, a := range actions {
		if a.Kind == ActWeaponAttack {
			require.Empty(t, a.Pitch)
			h.declareAttack(a)
		}
	}
	assert.Zero(t, h.gs.FloatingResources[0])
	assert.True(t, h.gs.Players[0].Weapon.UsedThisTurn)
}

func TestExecute_TurnEndBottomsPitchAndRefills(t *testing.T) {
	h := newHarness(t).
		hand(0,
			attackCard("Hit", 1, 3, 1),
			resourceCard("Blue", 3),
			resourceCard("Spare", 1),
		).
		deck(0,
			resourceCard("Deck A", 1),
			resourceCard("Deck B", 1),
			resourceCard("Deck C", 1),
		).
		arsenal(0, resourceCard("Stored", 1)). // occupied arsenal skips the prompt
		actionPhase()

	h.declareAttack(playAttack(0, 1))
	h.mustApply(NewAction(ActPass))
	h.mustApply(NewAction(ActPass))
	h.mustApply(NewAction(ActPass)) // resolve
	require.Len(t, h.gs.Players[0].Pitched, 1)

	ev := h.mustApply(NewAction(ActPass)) // end turn
	assert.Equal(t, EventPassAction, ev.Type)

	p0 := h.gs.Players[0]
	assert.Equal(t, 1, h.gs.Turn)
	assert.Equal(t, PhaseSOT, h.gs.Phase)
	assert.Empty(t, p0.Pitched)
	// pitched card went under the deck
	assert.Equal(t, "Blue", p0.Deck[0].Name)
	// hand refilled up to intellect: Spare plus three draws
	assert.Len(t, p0.Hand, 4)
	assert.Zero(t, h.gs.FloatingResources[0])
}

func TestExecute_ArsenalPromptSetAndSkip(t *testing.T) {
	h := newHarness(t).
		hand(0, resourceCard("Keep", 2), resourceCard("Other", 1)).
		actionPhase()

	ev := h.mustApply(NewAction(ActPass))
	assert.Equal(t, EventEndPhasePrompt, ev.Type)
	require.True(t, h.gs.AwaitingArsenal)
	assert.Equal(t, 0, h.gs.ArsenalPlayer)
	assert.Equal(t, PhaseEnd, h.gs.Phase)

	set := NewAction(ActSetArsenal)
	set.PlayIdx = 0
	ev = h.mustApply(set)
	assert.Equal(t, EventSetArsenal, ev.Type)
	assert.Equal(t, "Keep", ev.Card)

	require.Len(t, h.gs.Players[0].Arsenal, 1)
	assert.Equal(t, "Keep", h.gs.Players[0].Arsenal[0].Name)
	assert.Equal(t, 1, h.gs.Turn)
	assert.Equal(t, PhaseSOT, h.gs.Phase)
}

func TestExecute_ArsenalPromptSkip(t *testing.T) {
	h := newHarness(t).
		hand(0, resourceCard("Keep", 2)).
		actionPhase()
	h.mustApply(NewAction(ActPass))
	require.True(t, h.gs.AwaitingArsenal)

	ev := h.mustApply(NewAction(ActPass))
	assert.Equal(t, EventSkipArsenal, ev.Type)
	assert.Empty(t, h.gs.Players[0].Arsenal)
	assert.Equal(t, 1, h.gs.Turn)
}

func TestExecute_NoArsenalPromptWithEmptyHand(t *testing.T) {
	h := newHarness(t).actionPhase()
	ev := h.mustApply(NewAction(ActPass))
	assert.Equal(t, EventPassAction, ev.Type)
	assert.False(t, h.gs.AwaitingArsenal)
	assert.Equal(t, 1, h.gs.Turn)
}

func TestExecute_WeaponResetsAtTurnEnd(t *testing.T) {
	h := newHarness(t).
		weapon(0, &Weapon{Name: "Sword", BaseAttack: 3, OncePerTurn: true}).
		actionPhase()
	h.declareAttack(NewAction(ActWeaponAttack))
	h.mustApply(NewAction(ActPass))
	h.mustApply(NewAction(ActPass))
	h.mustApply(NewAction(ActPass)) // resolve
	require.True(t, h.gs.Players[0].Weapon.UsedThisTurn)

	h.mustApply(NewAction(ActPass)) // empty hand, turn passes
	assert.False(t, h.gs.Players[0].Weapon.UsedThisTurn)
}

func TestExecute_IllegalActionIsNoOp(t *testing.T) {
	h := newHarness(t).hand(0, attackCard("Hit", 0, 4, 1))
	before := h.gs

	ev := h.apply(playAttack(0)) // attacks are not legal at start of turn
	assert.Equal(t, EventIllegalAction, ev.Type)
	assert.NotEmpty(t, ev.Reason)
	assert.Equal(t, "SOT", ev.Phase)

	assert.Equal(t, before.Phase, h.gs.Phase)
	assert.Equal(t, before.ActionPoints, h.gs.ActionPoints)
	assert.Equal(t, before.Players[0].Life, h.gs.Players[0].Life)
	assert.Len(t, h.gs.Players[0].Hand, 1)
}

func TestExecute_InsufficientPitchRejected(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Big", 3, 6, 1), resourceCard("Red", 1)).
		actionPhase()

	ev := h.apply(playAttack(0, 1)) // pitch 1 against cost 3
	assert.Equal(t, EventIllegalAction, ev.Type)
	assert.Contains(t, ev.Reason, "pitch insufficient")
	assert.Len(t, h.gs.Players[0].Hand, 2)
	assert.Empty(t, h.gs.Players[0].Pitched)
	assert.Equal(t, 1, h.gs.ActionPoints)
}

func TestExecute_LethalDamageEndsGame(t *testing.T) {
	h := newHarness(t).
		hand(0, attackCard("Finisher", 0, 5, 1)).
		actionPhase()
	h.gs.Players[1].Life = 3

	h.declareAttack(playAttack(0))
	h.mustApply(NewAction(ActPass))
	h.mustApply(NewAction(ActPass))

	next, terminal, ev := h.eng.ApplyAction(h.gs, NewAction(ActPass))
	assert.Equal(t, EventDefenseResolve, ev.Type)
	assert.Equal(t, 5, ev.Damage)
	assert.True(t, terminal)
	assert.Equal(t, -2, next.Players[1].Life)
	assert.True(t, next.Terminal())
	assert.Equal(t, 0, next.Winner())
}
