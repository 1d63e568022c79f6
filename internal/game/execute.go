package game

import (
	"errors"
	"fmt"
)

// IllegalActionError reports an action that failed validation for the current
// phase or combat step. The engine façade recovers it into an illegal_action
// event; the state the executor was mutating is discarded.
type IllegalActionError struct {
	Reason string
}

func (e *IllegalActionError) Error() string { return e.Reason }

func illegalf(format string, args ...any) error {
	return &IllegalActionError{Reason: fmt.Sprintf(format, args...)}
}

// AsIllegalAction unwraps err into an IllegalActionError, if it is one.
func AsIllegalAction(err error) (*IllegalActionError, bool) {
	var iae *IllegalActionError
	if errors.As(err, &iae) {
		return iae, true
	}
	return nil, false
}

// AttackModifier is the hook consulted once per declared attack, before
// PendingAttack is set. Implementations must treat the state as read-only;
// the result is clamped to zero by the caller.
type AttackModifier interface {
	ModifyAttack(gs *GameState, baseAttack int, source *Card, isWeapon bool) int
}

// nopModifier leaves the base attack unchanged.
type nopModifier struct{}

func (nopModifier) ModifyAttack(_ *GameState, baseAttack int, _ *Card, _ bool) int {
	return baseAttack
}

// executor applies one action to a state the caller already cloned. Dispatch
// mirrors the enumerator's priority order exactly; any branch the enumerator
// would never offer fails with an IllegalActionError.
type executor struct {
	state    *GameState
	action   Action
	modifier AttackModifier
}

func (ex *executor) turnPlayer() *PlayerState      { return ex.state.TurnPlayer() }
func (ex *executor) defendingPlayer() *PlayerState { return ex.state.DefendingPlayer() }

func (ex *executor) run() (Event, error) {
	switch {
	case ex.state.AwaitingArsenal:
		return ex.awaitingArsenal()
	case ex.state.Phase == PhaseSOT:
		return ex.startOfTurn()
	case ex.state.CombatStep == StepLayer:
		return ex.layerStep()
	case ex.state.Phase == PhaseAction:
		return ex.actionPhase()
	default:
		return Event{}, nil
	}
}

func (ex *executor) awaitingArsenal() (Event, error) {
	gs := ex.state
	playerIdx := gs.ArsenalPlayer
	if playerIdx == NoPlayer {
		playerIdx = gs.Turn
	}
	player := gs.Players[playerIdx]

	switch ex.action.Kind {
	case ActSetArsenal:
		idx := ex.action.PlayIdx
		if idx < 0 || idx >= len(player.Hand) {
			return Event{}, illegalf("arsenal set index %d out of range", idx)
		}
		card := player.removeFromHand(idx)
		player.Arsenal = append(player.Arsenal, card)
		clearArsenalStep(gs)
		endAndPassTurn(gs)
		return Event{Type: EventSetArsenal, Player: playerIdx, Card: card.Name}, nil
	case ActPass:
		clearArsenalStep(gs)
		endAndPassTurn(gs)
		return Event{Type: EventSkipArsenal, Player: playerIdx}, nil
	default:
		return Event{}, illegalf("invalid action %s while awaiting arsenal", ex.action.Kind)
	}
}

func (ex *executor) startOfTurn() (Event, error) {
	if ex.action.Kind != ActContinue {
		return Event{}, illegalf("only CONTINUE is valid at start of turn")
	}
	ex.state.Phase = PhaseAction
	ex.state.ActionPoints = 1
	return Event{Type: EventSOTToAction, Player: ex.state.Turn}, nil
}

func (ex *executor) layerStep() (Event, error) {
	gs := ex.state
	if ex.action.Kind != ActPass {
		return Event{}, illegalf("only PASS is allowed during the layer step")
	}
	actor := gs.CombatPriority
	if actor == NoPlayer {
		actor = gs.Turn
	}
	gs.CombatPasses++
	gs.CombatPriority = 1 - actor
	if gs.CombatPasses >= 2 {
		gs.CombatStep = StepAttack
		gs.CombatPriority = NoPlayer
		gs.CombatPasses = 0
		gs.AwaitingDefense = true
		return Event{Type: EventLayerEnd, Player: actor}, nil
	}
	return Event{Type: EventLayerPass, Player: actor}, nil
}

func (ex *executor) actionPhase() (Event, error) {
	gs := ex.state
	if gs.CombatStep == StepReaction {
		return ex.reactionStep()
	}
	if gs.AwaitingDefense && gs.CombatStep == StepAttack {
		return ex.defenseStep()
	}
	return ex.attackerStep()
}

func (ex *executor) reactionStep() (Event, error) {
	actor := ex.state.ReactionActor
	if actor == NoPlayer {
		actor = 1 - ex.state.Turn
	}
	if actor == 1-ex.state.Turn {
		return ex.defenderReaction(actor)
	}
	return ex.attackerReaction(actor)
}

func (ex *executor) defenderReaction(actor int) (Event, error) {
	gs := ex.state
	act := ex.action
	defender := ex.defendingPlayer()

	if act.Kind == ActPass {
		gs.CombatPasses = 1
		gs.ReactionActor = gs.Turn
		return Event{Type: EventReactionPass, Player: actor}, nil
	}
	if act.Kind != ActDefend {
		return Event{}, illegalf("only DEFEND is valid for defense reactions")
	}
	if act.Defend.Len() > gs.Rules.DefendMax {
		return Event{}, illegalf("at most %d cards may defend", gs.Rules.DefendMax)
	}

	handCards, err := resolveHand(defender, act.Defend)
	if err != nil {
		return Event{}, err
	}
	for _, card := range handCards {
		if !card.IsDefense() || !card.IsReaction() {
			return Event{}, illegalf("%s is not a reaction defense card", card.Name)
		}
	}

	var arsenalCard *Card
	if act.ArsenalIdx != NoIndex {
		if act.ArsenalIdx < 0 || act.ArsenalIdx >= len(defender.Arsenal) {
			return Event{}, illegalf("arsenal index %d out of range", act.ArsenalIdx)
		}
		arsenalCard = defender.Arsenal[act.ArsenalIdx]
		if !arsenalCard.IsDefense() {
			return Event{}, illegalf("arsenal card %s cannot defend", arsenalCard.Name)
		}
		if !arsenalCard.IsReaction() {
			return Event{}, illegalf("arsenal card %s is not a reaction", arsenalCard.Name)
		}
	}

	addedBlock := 0
	playedCards := make([]string, 0, len(handCards)+1)
	for _, card := range defender.removeCards(handCards) {
		addedBlock += card.Defense
		playedCards = append(playedCards, card.Name)
		defender.Grave = append(defender.Grave, card)
	}
	if arsenalCard != nil {
		defender.removeFromArsenal(act.ArsenalIdx)
		addedBlock += arsenalCard.Defense
		playedCards = append(playedCards, arsenalCard.Name)
		defender.Grave = append(defender.Grave, arsenalCard)
		gs.ReactionArsenalCards = append(gs.ReactionArsenalCards, arsenalCard.Name)
	}

	gs.ReactionBlock += addedBlock
	gs.CombatPasses = 0
	// Priority hands back to the turn player: the attacker gets the next say
	// after a defender reaction resolves.
	gs.ReactionActor = gs.Turn

	return Event{
		Type:    EventDefenseReact,
		Player:  actor,
		Blocked: addedBlock,
		Cards:   playedCards,
	}, nil
}

func (ex *executor) attackerReaction(actor int) (Event, error) {
	gs := ex.state
	act := ex.action
	attacker := ex.turnPlayer()

	if act.Kind == ActPass {
		if gs.CombatPasses == 1 {
			return ex.resolveCombatChain(), nil
		}
		gs.CombatPasses = 0
		gs.ReactionActor = 1 - gs.Turn
		return Event{Type: EventReactionPass, Player: actor}, nil
	}
	if act.Kind != ActPlayAttackReaction {
		return Event{}, illegalf("only attack reactions or PASS allowed for attacker")
	}
	if gs.LastAttackCard == nil {
		return Event{}, illegalf("no attack card to target with attack reaction")
	}
	if act.PlayIdx == NoIndex {
		return Event{}, illegalf("attack reaction card missing index")
	}

	var (
		card   *Card
		source string
	)
	if !act.FromArsenal {
		if act.PlayIdx < 0 || act.PlayIdx >= len(attacker.Hand) {
			return Event{}, illegalf("attack reaction index %d out of range", act.PlayIdx)
		}
		card = attacker.Hand[act.PlayIdx]
		if !card.IsAttackReaction() {
			return Event{}, illegalf("%s is not an attack reaction", card.Name)
		}
		if act.Pitch.Contains(act.PlayIdx) {
			return Event{}, illegalf("a card cannot pitch for itself")
		}
		pitchSum, err := consumeResources(gs, attacker, act.Pitch, card.Cost)
		if err != nil {
			return Event{}, err
		}
		attacker.removeCards([]*Card{card})
		attacker.Grave = append(attacker.Grave, card)
		gs.PendingAttack += card.Attack
		gs.ReactionActor = 1 - gs.Turn
		gs.CombatPasses = 0
		source = SourceHand
		return Event{
			Type:     EventAttackReact,
			Player:   actor,
			Card:     card.Name,
			Bonus:    card.Attack,
			Source:   source,
			PitchSum: pitchSum,
		}, nil
	}

	if act.PlayIdx < 0 || act.PlayIdx >= len(attacker.Arsenal) {
		return Event{}, illegalf("attack reaction arsenal index %d out of range", act.PlayIdx)
	}
	card = attacker.Arsenal[act.PlayIdx]
	if !card.IsAttackReaction() {
		return Event{}, illegalf("%s is not an attack reaction", card.Name)
	}
	pitchSum, err := consumeResources(gs, attacker, act.Pitch, card.Cost)
	if err != nil {
		return Event{}, err
	}
	attacker.removeFromArsenal(act.PlayIdx)
	attacker.Grave = append(attacker.Grave, card)
	gs.PendingAttack += card.Attack
	gs.ReactionActor = 1 - gs.Turn
	gs.CombatPasses = 0
	source = SourceArsenal
	return Event{
		Type:     EventAttackReact,
		Player:   actor,
		Card:     card.Name,
		Bonus:    card.Attack,
		Source:   source,
		PitchSum: pitchSum,
	}, nil
}

func (ex *executor) resolveCombatChain() Event {
	gs := ex.state
	defender := ex.defendingPlayer()

	blocked := gs.ReactionBlock
	damage := max(0, gs.PendingAttack-blocked)
	gs.PendingDamage = damage
	gs.CombatStep = StepDamage
	if damage > 0 {
		defender.Life -= damage
	}
	gs.CombatStep = StepResolution

	goAgain := false
	if gs.LastAttackHadGoAgain {
		gs.ActionPoints++
		gs.LastAttackHadGoAgain = false
		goAgain = true
	}

	event := Event{
		Type:           EventDefenseResolve,
		Blocked:        blocked,
		Damage:         damage,
		DefenderLife:   defender.Life,
		GoAgain:        goAgain,
		ArsenalDefense: append([]string(nil), gs.ReactionArsenalCards...),
	}

	// Combat-transient fields are fully reset; control returns to the
	// attacker's action phase.
	gs.PendingAttack = 0
	gs.PendingDamage = 0
	gs.ReactionBlock = 0
	gs.CombatBlockTotal = 0
	gs.ReactionActor = NoPlayer
	gs.CombatPasses = 0
	gs.CombatPriority = NoPlayer
	gs.CombatStep = StepIdle
	gs.ReactionArsenalCards = nil
	gs.AwaitingDefense = false

	return event
}

func (ex *executor) defenseStep() (Event, error) {
	gs := ex.state
	act := ex.action
	defender := ex.defendingPlayer()
	defenderIdx := 1 - gs.Turn

	switch act.Kind {
	case ActDefend:
		if act.Defend.Len() == 0 {
			return Event{}, illegalf("no cards selected to defend")
		}
		if act.Defend.Len() > gs.Rules.DefendMax {
			return Event{}, illegalf("at most %d cards may defend", gs.Rules.DefendMax)
		}
		handCards, err := resolveHand(defender, act.Defend)
		if err != nil {
			return Event{}, err
		}
		totalBlock := 0
		for _, card := range handCards {
			if !card.IsDefense() || card.IsReaction() {
				return Event{}, illegalf("%s cannot block during the block step", card.Name)
			}
			totalBlock += card.Defense
		}
		blockCards := make([]string, 0, len(handCards))
		for _, card := range defender.removeCards(handCards) {
			blockCards = append(blockCards, card.Name)
			defender.Grave = append(defender.Grave, card)
		}
		openReactionWindow(gs, totalBlock)
		return Event{
			Type:    EventBlockPlay,
			Player:  defenderIdx,
			Blocked: totalBlock,
			Cards:   blockCards,
		}, nil
	case ActPass:
		openReactionWindow(gs, 0)
		return Event{Type: EventBlockPass, Player: defenderIdx}, nil
	default:
		return Event{}, illegalf("awaiting blockers")
	}
}

// openReactionWindow transitions from the block step to the reaction window
// with the defender holding initial priority.
func openReactionWindow(gs *GameState, totalBlock int) {
	gs.ReactionBlock = totalBlock
	gs.CombatBlockTotal = totalBlock
	gs.ReactionActor = 1 - gs.Turn
	gs.AwaitingDefense = false
	gs.CombatStep = StepReaction
	gs.CombatPriority = NoPlayer
	gs.CombatPasses = 0
	gs.ReactionArsenalCards = nil
	gs.PendingDamage = 0
}

func (ex *executor) attackerStep() (Event, error) {
	gs := ex.state
	switch ex.action.Kind {
	case ActPass:
		if beginArsenalStep(gs) {
			return Event{Type: EventEndPhasePrompt, Player: gs.Turn}, nil
		}
		passer := gs.Turn
		endAndPassTurn(gs)
		return Event{Type: EventPassAction, Player: passer}, nil
	case ActWeaponAttack:
		return ex.weaponAttack()
	case ActPlayAttack:
		return ex.playAttack()
	case ActPlayArsenalAttack:
		return ex.playArsenalAttack()
	default:
		return Event{}, illegalf("invalid action %s during attacker step", ex.action.Kind)
	}
}

func (ex *executor) weaponAttack() (Event, error) {
	gs := ex.state
	attacker := ex.turnPlayer()
	weapon := attacker.Weapon
	if weapon == nil {
		return Event{}, illegalf("no weapon equipped")
	}
	if weapon.OncePerTurn && weapon.UsedThisTurn {
		return Event{}, illegalf("weapon already used this turn")
	}
	if gs.ActionPoints <= 0 {
		return Event{}, illegalf("no action points remaining")
	}
	pitchSum, err := consumeResources(gs, attacker, ex.action.Pitch, weapon.Cost)
	if err != nil {
		return Event{}, err
	}
	weapon.UsedThisTurn = true
	gs.ActionPoints--
	gs.LastPitchSum = pitchSum
	modAttack := max(0, ex.modifier.ModifyAttack(gs, weapon.BaseAttack, nil, true))
	gs.PendingAttack = modAttack
	gs.LastAttackCard = nil
	gs.LastAttackHadGoAgain = weapon.HasGoAgain()
	openLayerStep(gs)
	attacker.AttacksThisTurn++
	return Event{
		Type:     EventDeclareAttack,
		Player:   gs.Turn,
		Card:     weapon.Name,
		Attack:   modAttack,
		Cost:     weapon.Cost,
		PitchSum: pitchSum,
		Source:   SourceWeapon,
	}, nil
}

func (ex *executor) playAttack() (Event, error) {
	gs := ex.state
	act := ex.action
	attacker := ex.turnPlayer()
	if act.PlayIdx < 0 || act.PlayIdx >= len(attacker.Hand) {
		return Event{}, illegalf("play index %d out of range", act.PlayIdx)
	}
	card := attacker.Hand[act.PlayIdx]
	if !card.IsAttack() {
		return Event{}, illegalf("%s is not an attack", card.Name)
	}
	if gs.ActionPoints <= 0 {
		return Event{}, illegalf("no action points remaining")
	}
	if act.Pitch.Contains(act.PlayIdx) {
		return Event{}, illegalf("a card cannot pitch for itself")
	}
	pitchSum, err := consumeResources(gs, attacker, act.Pitch, card.Cost)
	if err != nil {
		return Event{}, err
	}
	attacker.removeCards([]*Card{card})
	attacker.Grave = append(attacker.Grave, card)
	return ex.declareCardAttack(card, pitchSum, SourceHand), nil
}

func (ex *executor) playArsenalAttack() (Event, error) {
	gs := ex.state
	act := ex.action
	attacker := ex.turnPlayer()
	if act.PlayIdx < 0 || act.PlayIdx >= len(attacker.Arsenal) {
		return Event{}, illegalf("arsenal index %d out of range", act.PlayIdx)
	}
	card := attacker.Arsenal[act.PlayIdx]
	if !card.IsAttack() {
		return Event{}, illegalf("arsenal card %s is not an attack", card.Name)
	}
	if gs.ActionPoints <= 0 {
		return Event{}, illegalf("no action points remaining")
	}
	pitchSum, err := consumeResources(gs, attacker, act.Pitch, card.Cost)
	if err != nil {
		return Event{}, err
	}
	attacker.removeFromArsenal(act.PlayIdx)
	attacker.Grave = append(attacker.Grave, card)
	return ex.declareCardAttack(card, pitchSum, SourceArsenal), nil
}

// declareCardAttack finishes a hand or arsenal attack declaration after the
// card has moved to the grave.
func (ex *executor) declareCardAttack(card *Card, pitchSum int, source string) Event {
	gs := ex.state
	gs.ActionPoints--
	gs.LastPitchSum = pitchSum
	modAttack := max(0, ex.modifier.ModifyAttack(gs, card.Attack, card, false))
	gs.PendingAttack = modAttack
	gs.LastAttackCard = card
	gs.LastAttackHadGoAgain = card.HasKeyword(KeywordGoAgain)
	openLayerStep(gs)
	gs.TurnPlayer().AttacksThisTurn++
	return Event{
		Type:     EventDeclareAttack,
		Player:   gs.Turn,
		Card:     card.Name,
		Attack:   modAttack,
		Cost:     card.Cost,
		PitchSum: pitchSum,
		Source:   source,
	}
}

// openLayerStep opens the combat sub-machine with the acting player holding
// initial priority.
func openLayerStep(gs *GameState) {
	gs.AwaitingDefense = false
	gs.CombatStep = StepLayer
	gs.CombatPriority = gs.Turn
	gs.CombatPasses = 0
	gs.ReactionActor = 1 - gs.Turn
	gs.ReactionBlock = 0
	gs.ReactionArsenalCards = nil
	gs.CombatBlockTotal = 0
	gs.PendingDamage = 0
}

// resolveHand maps a CardSet of hand positions to card instances, validating
// range. Resolution happens before any removal so later removals cannot shift
// the meaning of the selection.
func resolveHand(player *PlayerState, set CardSet) ([]*Card, error) {
	cards := make([]*Card, 0, set.Len())
	for _, idx := range set {
		if idx < 0 || idx >= len(player.Hand) {
			return nil, illegalf("hand index %d out of range", idx)
		}
		cards = append(cards, player.Hand[idx])
	}
	return cards, nil
}

// consumeResources pays cost from the turn player's floating resources first,
// then from the pitch values of the selected cards. Pitched cards move to the
// pitched zone; leftover pitch becomes the new floating balance, which
// accumulates across plays within the turn.
func consumeResources(gs *GameState, player *PlayerState, pitch CardSet, cost int) (int, error) {
	floatPool := gs.FloatingResources[gs.Turn]
	spendFromFloat := cost
	if floatPool < spendFromFloat {
		spendFromFloat = floatPool
	}
	remainingCost := cost - spendFromFloat
	floatPool -= spendFromFloat

	cards, err := resolveHand(player, pitch)
	if err != nil {
		return 0, err
	}
	pitchSum := 0
	for _, card := range cards {
		pitchSum += card.Pitch
	}
	if remainingCost > 0 && pitchSum < remainingCost {
		return 0, illegalf("pitch insufficient for cost (%d needed, %d pitched)", remainingCost, pitchSum)
	}

	for _, card := range player.removeCards(cards) {
		player.Pitched = append(player.Pitched, card)
	}

	floatPool += pitchSum - remainingCost
	gs.FloatingResources[gs.Turn] = floatPool
	return pitchSum, nil
}

// beginArsenalStep opens the arsenal wait when the turn player passed with an
// empty arsenal and a non-empty hand. Floating resources are forfeited at
// this point.
func beginArsenalStep(gs *GameState) bool {
	player := gs.TurnPlayer()
	if gs.AwaitingArsenal {
		return true
	}
	if len(player.Arsenal) > 0 || len(player.Hand) == 0 {
		return false
	}
	gs.AwaitingArsenal = true
	gs.ArsenalPlayer = gs.Turn
	gs.Phase = PhaseEnd
	gs.FloatingResources[gs.Turn] = 0
	return true
}

func clearArsenalStep(gs *GameState) {
	gs.AwaitingArsenal = false
	gs.ArsenalPlayer = NoPlayer
	gs.Phase = PhaseAction
}

// endAndPassTurn bottoms pitched cards, refills the hand, resets per-turn
// counters and all combat-transient state, and hands the turn over.
func endAndPassTurn(gs *GameState) {
	current := gs.Turn
	player := gs.Players[current]
	player.BottomPitchedToDeck()
	player.DrawUpTo(gs.Rules.Intellect)
	player.AttacksThisTurn = 0
	if player.Weapon != nil {
		player.Weapon.UsedThisTurn = false
	}
	gs.FloatingResources[current] = 0
	gs.AwaitingDefense = false
	gs.AwaitingArsenal = false
	gs.ArsenalPlayer = NoPlayer
	gs.PendingAttack = 0
	gs.PendingDamage = 0
	gs.LastAttackCard = nil
	gs.LastPitchSum = 0
	gs.ActionPoints = 0
	gs.LastAttackHadGoAgain = false
	gs.Phase = PhaseSOT
	gs.Turn = 1 - current
	gs.FloatingResources[gs.Turn] = 0
	gs.ReactionActor = NoPlayer
	gs.ReactionBlock = 0
	gs.CombatBlockTotal = 0
	gs.ReactionArsenalCards = nil
	gs.CombatStep = StepIdle
	gs.CombatPriority = NoPlayer
	gs.CombatPasses = 0
}
