package game

// EventType tags the structured record emitted by every applied action.
type EventType string

const (
	EventSOTToAction    EventType = "sot_to_action"
	EventDeclareAttack  EventType = "declare_attack"
	EventBlockPlay      EventType = "block_play"
	EventBlockPass      EventType = "block_pass"
	EventLayerPass      EventType = "layer_pass"
	EventLayerEnd       EventType = "layer_end"
	EventDefenseReact   EventType = "defense_react"
	EventAttackReact    EventType = "attack_react"
	EventReactionPass   EventType = "reaction_pass"
	EventDefenseResolve EventType = "defense_resolve"
	EventEndPhasePrompt EventType = "end_phase_prompt"
	EventSetArsenal     EventType = "set_arsenal"
	EventSkipArsenal    EventType = "skip_arsenal"
	EventPassAction     EventType = "pass_action"
	EventIllegalAction  EventType = "illegal_action"
)

// Attack source labels used in declare_attack and attack_react events.
const (
	SourceHand    = "hand"
	SourceArsenal = "arsenal"
	SourceWeapon  = "weapon"
)

// Event describes what a single applied action did. Only the fields relevant
// to the Type are populated; consumers (rendering, telemetry, the play
// server) dispatch on Type.
type Event struct {
	Type   EventType `json:"type"`
	Player int       `json:"player"`

	Card     string   `json:"card,omitempty"`
	Cards    []string `json:"cards,omitempty"`
	Source   string   `json:"source,omitempty"`
	Attack   int      `json:"attack,omitempty"`
	Cost     int      `json:"cost,omitempty"`
	PitchSum int      `json:"pitch_sum,omitempty"`
	Bonus    int      `json:"bonus,omitempty"`

	Blocked        int      `json:"blocked"`
	Damage         int      `json:"damage"`
	DefenderLife   int      `json:"def_life_after"`
	GoAgain        bool     `json:"go_again,omitempty"`
	ArsenalDefense []string `json:"arsenal_defense,omitempty"`

	// illegal_action diagnostics
	Action               string `json:"action,omitempty"`
	Reason               string `json:"reason,omitempty"`
	Phase                string `json:"phase,omitempty"`
	CombatStep           string `json:"combat_step,omitempty"`
	AwaitingDefense      bool   `json:"awaiting_defense,omitempty"`
	RefundedActionPoints int    `json:"refunded_action_points,omitempty"`
}
