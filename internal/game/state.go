package game

import "fmt"

// Phase represents the broad phases of a turn.
type Phase int

const (
	PhaseSOT Phase = iota
	PhaseAction
	PhaseReaction // represented via CombatStep during play; kept for views
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseSOT:      "SOT",
	PhaseAction:   "ACTION",
	PhaseReaction: "REACTION",
	PhaseEnd:      "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// CombatStep represents the nested combat sub-machine.
type CombatStep int

const (
	StepIdle CombatStep = iota
	StepLayer
	StepAttack
	StepReaction
	StepDamage
	StepResolution
	StepClose
)

var combatStepNames = map[CombatStep]string{
	StepIdle:       "IDLE",
	StepLayer:      "LAYER",
	StepAttack:     "ATTACK",
	StepReaction:   "REACTION",
	StepDamage:     "DAMAGE",
	StepResolution: "RESOLUTION",
	StepClose:      "CLOSE",
}

func (s CombatStep) String() string {
	if name, ok := combatStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// NoPlayer marks player-index fields that currently reference nobody.
const NoPlayer = -1

// Rules holds the tunable gameplay constants. A copy travels inside every
// GameState so that enumeration and execution stay pure functions of the
// state value.
type Rules struct {
	StartingLife int
	Intellect    int // hand size drawn up to at end of turn
	DefendMax    int // max cards committed to one block or one reaction
	MaxPitchEnum int // cap on cards per enumerated pitch combination; 0 = unbounded
}

// DefaultRules returns the standard two-player configuration.
func DefaultRules() Rules {
	return Rules{
		StartingLife: 20,
		Intellect:    4,
		DefendMax:    2,
		MaxPitchEnum: 0,
	}
}

// GameState is the authoritative state of one game. It is only ever produced
// by NewGame or by ApplyAction operating on a clone, so callers never observe
// a partially applied transition.
type GameState struct {
	Players [2]*PlayerState
	Turn    int // whose turn it is, 0 or 1
	Phase   Phase
	Rules   Rules
	Seed    int64

	AwaitingDefense bool
	AwaitingArsenal bool
	ArsenalPlayer   int // NoPlayer unless AwaitingArsenal

	PendingAttack        int
	PendingDamage        int
	LastAttackCard       *Card // nil for weapon attacks
	LastPitchSum         int
	LastAttackHadGoAgain bool
	ActionPoints         int
	FloatingResources    [2]int

	CombatStep           CombatStep
	CombatPriority       int // NoPlayer outside the layer step
	CombatPasses         int
	CombatBlockTotal     int
	ReactionActor        int // NoPlayer outside the reaction window
	ReactionBlock        int
	ReactionArsenalCards []string
}

// Clone returns a deep copy of the state. Card instances are shared (they are
// immutable), everything mutable is fresh.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Players[0] = gs.Players[0].clone()
	cp.Players[1] = gs.Players[1].clone()
	cp.ReactionArsenalCards = append([]string(nil), gs.ReactionArsenalCards...)
	return &cp
}

// TurnPlayer returns the player whose turn it is.
func (gs *GameState) TurnPlayer() *PlayerState { return gs.Players[gs.Turn] }

// DefendingPlayer returns the non-turn player.
func (gs *GameState) DefendingPlayer() *PlayerState { return gs.Players[1-gs.Turn] }

// Terminal reports whether the game is over: either player at zero or less
// life.
func (gs *GameState) Terminal() bool {
	return gs.Players[0].Life <= 0 || gs.Players[1].Life <= 0
}

// Winner returns the surviving player's index, or NoPlayer if the game is
// still running or both players are dead.
func (gs *GameState) Winner() int {
	p0Dead := gs.Players[0].Life <= 0
	p1Dead := gs.Players[1].Life <= 0
	switch {
	case p0Dead && !p1Dead:
		return 1
	case p1Dead && !p0Dead:
		return 0
	default:
		return NoPlayer
	}
}

// CurrentActorIndex returns the player who currently holds priority.
func CurrentActorIndex(gs *GameState) int {
	if gs.AwaitingArsenal {
		if gs.ArsenalPlayer != NoPlayer {
			return gs.ArsenalPlayer
		}
		return gs.Turn
	}
	if gs.CombatStep == StepLayer && gs.CombatPriority != NoPlayer {
		return gs.CombatPriority
	}
	if gs.CombatStep == StepAttack && gs.AwaitingDefense {
		return 1 - gs.Turn
	}
	if gs.CombatStep == StepReaction {
		if gs.ReactionActor != NoPlayer {
			return gs.ReactionActor
		}
		return 1 - gs.Turn
	}
	if (gs.CombatStep == StepDamage || gs.CombatStep == StepResolution) && gs.CombatPriority != NoPlayer {
		return gs.CombatPriority
	}
	if gs.AwaitingDefense && gs.Phase == PhaseAction {
		return 1 - gs.Turn
	}
	return gs.Turn
}
