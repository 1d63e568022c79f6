package game

import (
	"fmt"
	"sort"
)

// EnumerateLegalActions returns every legal action for whoever currently
// holds priority. It is total and side-effect-free; the output order is
// deterministic so index-based selection is reproducible.
func EnumerateLegalActions(gs *GameState) []Action {
	switch {
	case gs.AwaitingArsenal:
		return arsenalActions(gs)
	case gs.Phase == PhaseSOT:
		return []Action{NewAction(ActContinue)}
	case gs.CombatStep == StepLayer:
		return []Action{NewAction(ActPass)}
	case gs.CombatStep == StepDamage || gs.CombatStep == StepResolution:
		// Transitional steps; a well-formed caller never observes them,
		// but enumeration must not crash.
		return []Action{NewAction(ActPass)}
	case gs.CombatStep == StepReaction:
		return reactionActions(gs)
	case gs.Phase == PhaseAction:
		if gs.AwaitingDefense {
			return defenseBlockActions(gs)
		}
		return attackerActions(gs)
	default:
		return nil
	}
}

func arsenalActions(gs *GameState) []Action {
	playerIdx := gs.ArsenalPlayer
	if playerIdx == NoPlayer {
		playerIdx = gs.Turn
	}
	player := gs.Players[playerIdx]
	actions := make([]Action, 0, len(player.Hand)+1)
	for idx := range player.Hand {
		a := NewAction(ActSetArsenal)
		a.PlayIdx = idx
		actions = append(actions, a)
	}
	return append(actions, NewAction(ActPass))
}

func reactionActions(gs *GameState) []Action {
	actor := gs.ReactionActor
	if actor == NoPlayer {
		actor = 1 - gs.Turn
	}
	if actor == 1-gs.Turn {
		return defenseReactionActions(gs)
	}
	if gs.LastAttackCard == nil {
		// Weapon attacks cannot be boosted by attack reactions.
		return []Action{NewAction(ActPass)}
	}
	return attackReactionActions(gs)
}

// reactionChoice keys one defender reaction: a hand selection plus an
// optional arsenal card.
type reactionChoice struct {
	hand       CardSet
	arsenalIdx int // NoIndex for none
}

func defenseReactionActions(gs *GameState) []Action {
	defender := gs.DefendingPlayer()

	var handReactions []int
	for i, card := range defender.Hand {
		if card.IsDefense() && card.IsReaction() {
			handReactions = append(handReactions, i)
		}
	}
	var arsenalReactions []int
	for i, card := range defender.Arsenal {
		if card.IsDefense() && card.IsReaction() {
			arsenalReactions = append(arsenalReactions, i)
		}
	}

	seen := make(map[string]struct{})
	var choices []reactionChoice
	add := func(hand CardSet, arsenalIdx int) {
		key := fmt.Sprintf("%s|%d", hand.Key(), arsenalIdx)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		choices = append(choices, reactionChoice{hand: hand, arsenalIdx: arsenalIdx})
	}

	maxCards := gs.Rules.DefendMax
	if len(handReactions) < maxCards {
		maxCards = len(handReactions)
	}
	for k := 1; k <= maxCards; k++ {
		forEachCombination(handReactions, k, func(combo []int) {
			set := NewCardSet(combo...)
			add(set, NoIndex)
			for _, arsenalIdx := range arsenalReactions {
				add(set, arsenalIdx)
			}
		})
	}
	for _, arsenalIdx := range arsenalReactions {
		add(nil, arsenalIdx)
	}

	sort.Slice(choices, func(i, j int) bool {
		if c := choices[i].hand.Compare(choices[j].hand); c != 0 {
			return c < 0
		}
		return arsenalSortKey(choices[i].arsenalIdx) < arsenalSortKey(choices[j].arsenalIdx)
	})

	actions := make([]Action, 0, len(choices)+1)
	for _, choice := range choices {
		a := NewAction(ActDefend)
		a.Defend = choice.hand
		a.ArsenalIdx = choice.arsenalIdx
		actions = append(actions, a)
	}
	return append(actions, NewAction(ActPass))
}

func arsenalSortKey(idx int) int {
	if idx == NoIndex {
		return -1
	}
	return idx + 1
}

func attackReactionActions(gs *GameState) []Action {
	attacker := gs.TurnPlayer()
	floatAvailable := gs.FloatingResources[gs.Turn]
	handSize := len(attacker.Hand)

	var actions []Action
	for idx, card := range attacker.Hand {
		if !card.IsAttackReaction() {
			continue
		}
		pool := poolExcluding(handSize, idx)
		needed := max(0, card.Cost-floatAvailable)
		for _, pitch := range pitchCombos(gs, attacker, pool, needed) {
			a := NewAction(ActPlayAttackReaction)
			a.PlayIdx = idx
			a.Pitch = pitch
			actions = append(actions, a)
		}
	}
	for idx, card := range attacker.Arsenal {
		if !card.IsAttackReaction() {
			continue
		}
		pool := poolExcluding(handSize, NoIndex)
		needed := max(0, card.Cost-floatAvailable)
		for _, pitch := range pitchCombos(gs, attacker, pool, needed) {
			a := NewAction(ActPlayAttackReaction)
			a.PlayIdx = idx
			a.FromArsenal = true
			a.Pitch = pitch
			actions = append(actions, a)
		}
	}
	return append(actions, NewAction(ActPass))
}

func defenseBlockActions(gs *GameState) []Action {
	defender := gs.DefendingPlayer()
	var defendIndices []int
	for i, card := range defender.Hand {
		if card.IsDefense() && !card.IsReaction() {
			defendIndices = append(defendIndices, i)
		}
	}
	actions := []Action{NewAction(ActPass)}
	maxCards := gs.Rules.DefendMax
	if len(defendIndices) < maxCards {
		maxCards = len(defendIndices)
	}
	for k := 1; k <= maxCards; k++ {
		forEachCombination(defendIndices, k, func(combo []int) {
			a := NewAction(ActDefend)
			a.Defend = NewCardSet(combo...)
			actions = append(actions, a)
		})
	}
	return actions
}

func attackerActions(gs *GameState) []Action {
	var actions []Action
	if gs.ActionPoints > 0 {
		actions = append(actions, handAttackActions(gs)...)
		if len(gs.TurnPlayer().Arsenal) > 0 {
			actions = append(actions, arsenalAttackActions(gs)...)
		}
		actions = append(actions, weaponAttackActions(gs)...)
	}
	return append(actions, NewAction(ActPass))
}

func handAttackActions(gs *GameState) []Action {
	attacker := gs.TurnPlayer()
	floatAvailable := gs.FloatingResources[gs.Turn]
	handSize := len(attacker.Hand)

	var actions []Action
	for idx, card := range attacker.Hand {
		if !card.IsAttack() {
			continue
		}
		// The card being played cannot pay for itself.
		pool := poolExcluding(handSize, idx)
		needed := max(0, card.Cost-floatAvailable)
		for _, pitch := range pitchCombos(gs, attacker, pool, needed) {
			a := NewAction(ActPlayAttack)
			a.PlayIdx = idx
			a.Pitch = pitch
			actions = append(actions, a)
		}
	}
	return actions
}

func arsenalAttackActions(gs *GameState) []Action {
	attacker := gs.TurnPlayer()
	floatAvailable := gs.FloatingResources[gs.Turn]
	pool := poolExcluding(len(attacker.Hand), NoIndex)

	var actions []Action
	for idx, card := range attacker.Arsenal {
		if !card.IsAttack() {
			continue
		}
		needed := max(0, card.Cost-floatAvailable)
		for _, pitch := range pitchCombos(gs, attacker, pool, needed) {
			a := NewAction(ActPlayArsenalAttack)
			a.PlayIdx = idx
			a.Pitch = pitch
			actions = append(actions, a)
		}
	}
	return actions
}

func weaponAttackActions(gs *GameState) []Action {
	attacker := gs.TurnPlayer()
	weapon := attacker.Weapon
	if weapon == nil {
		return nil
	}
	if weapon.OncePerTurn && weapon.UsedThisTurn {
		return nil
	}
	floatAvailable := gs.FloatingResources[gs.Turn]
	pool := poolExcluding(len(attacker.Hand), NoIndex)
	needed := max(0, weapon.Cost-floatAvailable)

	var actions []Action
	for _, pitch := range pitchCombos(gs, attacker, pool, needed) {
		a := NewAction(ActWeaponAttack)
		a.Pitch = pitch
		actions = append(actions, a)
	}
	return actions
}

// pitchCombos returns every minimal pitch selection from pool covering
// needed: the selection's pitch sum meets needed and no single card can be
// dropped with the remainder still sufficient. A zero need yields exactly one
// empty selection.
func pitchCombos(gs *GameState, player *PlayerState, pool []int, needed int) []CardSet {
	if needed <= 0 {
		return []CardSet{nil}
	}
	maxPitch := len(pool)
	if gs.Rules.MaxPitchEnum > 0 && gs.Rules.MaxPitchEnum < maxPitch {
		maxPitch = gs.Rules.MaxPitchEnum
	}
	var combos []CardSet
	for k := 1; k <= maxPitch; k++ {
		forEachCombination(pool, k, func(combo []int) {
			sum := 0
			for _, j := range combo {
				sum += player.Hand[j].Pitch
			}
			if sum < needed {
				return
			}
			for _, j := range combo {
				if sum-player.Hand[j].Pitch >= needed {
					return // a smaller selection already covers the cost
				}
			}
			combos = append(combos, NewCardSet(combo...))
		})
	}
	return combos
}

// poolExcluding returns the indices 0..size-1 with skip removed (pass NoIndex
// to keep all).
func poolExcluding(size, skip int) []int {
	pool := make([]int, 0, size)
	for i := 0; i < size; i++ {
		if i != skip {
			pool = append(pool, i)
		}
	}
	return pool
}

// forEachCombination visits every k-combination of src in lexicographic
// order. The slice passed to fn is reused between calls.
func forEachCombination(src []int, k int, fn func([]int)) {
	if k <= 0 || k > len(src) {
		return
	}
	combo := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			fn(combo)
			return
		}
		for i := start; i <= len(src)-(k-depth); i++ {
			combo[depth] = src[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}
