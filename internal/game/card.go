package game

import "strings"

// Keyword constants recognized by the engine.
const (
	KeywordGoAgain         = "go_again"
	KeywordReaction        = "reaction"
	KeywordDefenseReaction = "defense_reaction"
	KeywordAttackReaction  = "attack_reaction"
)

// ModifierRule is a single declarative attack bonus: when the (optional)
// condition holds at declaration time, AddAttack is added to the attack value.
// The engine treats the condition text as opaque; the rules package evaluates it.
type ModifierRule struct {
	When      string `yaml:"when"`
	AddAttack int    `yaml:"add_attack"`
}

// ModifierTable maps a trigger name (currently only "on_declare") to its rules.
type ModifierTable map[string][]ModifierRule

// Card is an immutable card template. A *Card is a card instance: the same
// pointer is never present in more than one zone, and card fields are never
// mutated after construction, so clones of a GameState may share instances.
type Card struct {
	Name      string
	Cost      int
	Attack    int
	Defense   int
	Pitch     int
	Keywords  []string
	Text      string
	Modifiers ModifierTable
}

// HasKeyword reports whether the card carries the given keyword,
// case-insensitively.
func (c *Card) HasKeyword(keyword string) bool {
	target := strings.ToLower(strings.TrimSpace(keyword))
	for _, kw := range c.Keywords {
		if strings.ToLower(strings.TrimSpace(kw)) == target {
			return true
		}
	}
	return false
}

// IsAttack reports whether the card can be played as an attack.
func (c *Card) IsAttack() bool { return c.Attack > 0 }

// IsDefense reports whether the card can be committed to a block.
func (c *Card) IsDefense() bool { return c.Defense > 0 }

// IsReaction reports whether the card behaves as a defense reaction.
func (c *Card) IsReaction() bool {
	return c.HasKeyword(KeywordReaction) || c.HasKeyword(KeywordDefenseReaction)
}

// IsAttackReaction reports whether the card is playable as an attack reaction.
func (c *Card) IsAttackReaction() bool { return c.HasKeyword(KeywordAttackReaction) }

// Weapon is an equipped item. Unlike cards, a weapon persists across turns;
// UsedThisTurn is cleared when the turn passes.
type Weapon struct {
	Name         string
	BaseAttack   int
	Cost         int
	OncePerTurn  bool
	UsedThisTurn bool
	Keywords     []string
}

// HasKeyword reports whether the weapon carries the given keyword.
func (w *Weapon) HasKeyword(keyword string) bool {
	target := strings.ToLower(strings.TrimSpace(keyword))
	for _, kw := range w.Keywords {
		if strings.ToLower(strings.TrimSpace(kw)) == target {
			return true
		}
	}
	return false
}

// HasGoAgain reports whether attacks with this weapon refund an action point.
func (w *Weapon) HasGoAgain() bool { return w.HasKeyword(KeywordGoAgain) }

// Hero is the resolved hero identity attached to a player.
type Hero struct {
	Name      string
	Text      string
	Modifiers ModifierTable
}
