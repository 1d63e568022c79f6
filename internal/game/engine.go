package game

import (
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine is the façade over the enumerator and executor. It owns the
// clone/rollback discipline: ApplyAction never lets a failed action corrupt
// the caller's state.
type Engine struct {
	logger   *zap.Logger
	rules    Rules
	modifier AttackModifier
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules overrides the default gameplay constants.
func WithRules(rules Rules) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithAttackModifier installs the attack-modifier collaborator consulted on
// every declared attack.
func WithAttackModifier(m AttackModifier) Option {
	return func(e *Engine) {
		if m != nil {
			e.modifier = m
		}
	}
}

// NewEngine creates an engine. A nil logger is replaced with a no-op logger;
// without WithAttackModifier, declared attacks keep their base value.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:   logger,
		rules:    DefaultRules(),
		modifier: nopModifier{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the constants this engine creates games with.
func (e *Engine) Rules() Rules { return e.rules }

// Game pairs a state with its identity. The state field is replaced, never
// mutated in place, after every applied action.
type Game struct {
	ID    string
	State *GameState
}

// PlayerConfig describes one side of a new game. A nil Deck is replaced with
// a seeded random test deck.
type PlayerConfig struct {
	Deck   []*Card
	Hero   Hero
	Weapon *Weapon
}

// NewGame builds the initial state: both players at starting life, hands
// drawn up to intellect, player 0 to act at start of turn.
func (e *Engine) NewGame(seed int64, p0, p1 PlayerConfig) *Game {
	rng := rand.New(rand.NewSource(seed))

	state := &GameState{
		Turn:           0,
		Phase:          PhaseSOT,
		Rules:          e.rules,
		Seed:           seed,
		ArsenalPlayer:  NoPlayer,
		CombatPriority: NoPlayer,
		ReactionActor:  NoPlayer,
	}
	state.Players[0] = e.newPlayer(rng, p0)
	state.Players[1] = e.newPlayer(rng, p1)

	game := &Game{ID: uuid.NewString(), State: state}
	e.logger.Info("game created",
		zap.String("game_id", game.ID),
		zap.Int64("seed", seed),
		zap.String("hero0", state.Players[0].Hero.Name),
		zap.String("hero1", state.Players[1].Hero.Name),
	)
	return game
}

func (e *Engine) newPlayer(rng *rand.Rand, cfg PlayerConfig) *PlayerState {
	deck := cfg.Deck
	if deck == nil {
		deck = MakeRandomDeck(rng)
	}
	hero := cfg.Hero
	if hero.Name == "" {
		hero.Name = "Generic Hero"
	}
	player := &PlayerState{
		Life:   e.rules.StartingLife,
		Deck:   deck,
		Hero:   hero,
		Weapon: cfg.Weapon,
	}
	player.DrawUpTo(e.rules.Intellect)
	return player
}

// CurrentActorIndex returns the player holding priority in gs.
func (e *Engine) CurrentActorIndex(gs *GameState) int { return CurrentActorIndex(gs) }

// EnumerateLegalActions returns every legal action for the current actor.
func (e *Engine) EnumerateLegalActions(gs *GameState) []Action {
	return EnumerateLegalActions(gs)
}

// ApplyAction validates and applies act against a clone of gs, returning the
// next state, whether the game is terminal, and the event describing what
// happened. When validation fails, the returned state is the input state
// unchanged (action points explicitly restored) and the event is
// illegal_action; the caller's value is never mutated in either case.
func (e *Engine) ApplyAction(gs *GameState, act Action) (*GameState, bool, Event) {
	next := gs.Clone()
	ex := &executor{state: next, action: act, modifier: e.modifier}
	event, err := ex.run()
	if err != nil {
		iae, ok := AsIllegalAction(err)
		if !ok {
			// Anything but a validation failure is a programming defect in
			// the enumerator/executor pair.
			panic(err)
		}
		reverted := gs.Clone()
		reverted.ActionPoints = gs.ActionPoints
		e.logger.Debug("illegal action rejected",
			zap.String("action", act.String()),
			zap.String("reason", iae.Reason),
			zap.String("phase", gs.Phase.String()),
			zap.String("combat_step", gs.CombatStep.String()),
		)
		return reverted, reverted.Terminal(), Event{
			Type:                 EventIllegalAction,
			Player:               CurrentActorIndex(gs),
			Action:               act.Kind.String(),
			Reason:               iae.Reason,
			Phase:                gs.Phase.String(),
			CombatStep:           gs.CombatStep.String(),
			AwaitingDefense:      gs.AwaitingDefense,
			RefundedActionPoints: gs.ActionPoints,
		}
	}
	return next, next.Terminal(), event
}
