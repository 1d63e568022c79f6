package server

import "github.com/fabrules/fab-engine-go/internal/game"

// ActionDTO is the wire form of one legal action. Clients answer with the
// action's position in the offered list, so the fields here are descriptive.
type ActionDTO struct {
	Kind        string `json:"kind"`
	PlayIdx     int    `json:"play_idx"`
	FromArsenal bool   `json:"from_arsenal,omitempty"`
	ArsenalIdx  int    `json:"arsenal_idx"`
	Pitch       []int  `json:"pitch,omitempty"`
	Defend      []int  `json:"defend,omitempty"`
	Label       string `json:"label"`
}

func actionDTO(a game.Action) ActionDTO {
	return ActionDTO{
		Kind:        a.Kind.String(),
		PlayIdx:     a.PlayIdx,
		FromArsenal: a.FromArsenal,
		ArsenalIdx:  a.ArsenalIdx,
		Pitch:       append([]int(nil), a.Pitch...),
		Defend:      append([]int(nil), a.Defend...),
		Label:       a.String(),
	}
}

func actionDTOs(actions []game.Action) []ActionDTO {
	out := make([]ActionDTO, len(actions))
	for i, a := range actions {
		out[i] = actionDTO(a)
	}
	return out
}

// CardDTO is the wire form of a visible card.
type CardDTO struct {
	Name     string   `json:"name"`
	Cost     int      `json:"cost"`
	Attack   int      `json:"attack"`
	Defense  int      `json:"defense"`
	Pitch    int      `json:"pitch"`
	Keywords []string `json:"keywords,omitempty"`
}

func cardDTO(c *game.Card) CardDTO {
	return CardDTO{
		Name:     c.Name,
		Cost:     c.Cost,
		Attack:   c.Attack,
		Defense:  c.Defense,
		Pitch:    c.Pitch,
		Keywords: c.Keywords,
	}
}

func cardDTOs(cards []*game.Card) []CardDTO {
	out := make([]CardDTO, len(cards))
	for i, c := range cards {
		out[i] = cardDTO(c)
	}
	return out
}

// WeaponDTO is the wire form of an equipped weapon.
type WeaponDTO struct {
	Name         string `json:"name"`
	Attack       int    `json:"attack"`
	Cost         int    `json:"cost"`
	UsedThisTurn bool   `json:"used_this_turn"`
}

// PlayerView is one player's side of the board as seen by the receiving
// client. Opponent hands and arsenals are reported by count only.
type PlayerView struct {
	Hero         string     `json:"hero"`
	Life         int        `json:"life"`
	DeckCount    int        `json:"deck_count"`
	HandCount    int        `json:"hand_count"`
	Hand         []CardDTO  `json:"hand,omitempty"`
	Grave        []CardDTO  `json:"grave"`
	PitchedCount int        `json:"pitched_count"`
	ArsenalCount int        `json:"arsenal_count"`
	Arsenal      []CardDTO  `json:"arsenal,omitempty"`
	Weapon       *WeaponDTO `json:"weapon,omitempty"`
	Floating     int        `json:"floating"`
}

// StateView is the full board from one seat's perspective.
type StateView struct {
	You           int           `json:"you"`
	Turn          int           `json:"turn"`
	Phase         string        `json:"phase"`
	CombatStep    string        `json:"combat_step"`
	ActionPoints  int           `json:"action_points"`
	PendingAttack int           `json:"pending_attack"`
	ReactionBlock int           `json:"reaction_block"`
	Players       [2]PlayerView `json:"players"`
}

func stateView(gs *game.GameState, seat int) StateView {
	view := StateView{
		You:           seat,
		Turn:          gs.Turn,
		Phase:         gs.Phase.String(),
		CombatStep:    gs.CombatStep.String(),
		ActionPoints:  gs.ActionPoints,
		PendingAttack: gs.PendingAttack,
		ReactionBlock: gs.ReactionBlock,
	}
	for i, p := range gs.Players {
		pv := PlayerView{
			Hero:         p.Hero.Name,
			Life:         p.Life,
			DeckCount:    len(p.Deck),
			HandCount:    len(p.Hand),
			Grave:        cardDTOs(p.Grave),
			PitchedCount: len(p.Pitched),
			ArsenalCount: len(p.Arsenal),
			Floating:     gs.FloatingResources[i],
		}
		if p.Weapon != nil {
			pv.Weapon = &WeaponDTO{
				Name:         p.Weapon.Name,
				Attack:       p.Weapon.BaseAttack,
				Cost:         p.Weapon.Cost,
				UsedThisTurn: p.Weapon.UsedThisTurn,
			}
		}
		if i == seat {
			pv.Hand = cardDTOs(p.Hand)
			pv.Arsenal = cardDTOs(p.Arsenal)
		}
		view.Players[i] = pv
	}
	return view
}

// ServerMessage is the envelope for everything the server sends.
type ServerMessage struct {
	Type    string      `json:"type"`
	Seat    int         `json:"seat,omitempty"`
	GameID  string      `json:"game_id,omitempty"`
	State   *StateView  `json:"state,omitempty"`
	Actions []ActionDTO `json:"actions,omitempty"`
	Event   *game.Event `json:"event,omitempty"`
	Winner  int         `json:"winner,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ClientMessage is the envelope for everything a client sends: currently only
// picking one of the offered actions by index.
type ClientMessage struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}
