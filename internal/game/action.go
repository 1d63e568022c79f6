package game

import (
	"fmt"
	"sort"
	"strings"
)

// ActionKind enumerates every move the engine understands. The set is closed:
// the enumerator emits only these and the executor has a branch for each.
type ActionKind int

const (
	ActContinue ActionKind = iota
	ActPlayAttack
	ActDefend
	ActPass
	ActWeaponAttack
	ActSetArsenal
	ActPlayArsenalAttack
	ActPlayAttackReaction
)

var actionKindNames = map[ActionKind]string{
	ActContinue:           "CONTINUE",
	ActPlayAttack:         "PLAY_ATTACK",
	ActDefend:             "DEFEND",
	ActPass:               "PASS",
	ActWeaponAttack:       "WEAPON_ATTACK",
	ActSetArsenal:         "SET_ARSENAL",
	ActPlayArsenalAttack:  "PLAY_ARSENAL_ATTACK",
	ActPlayAttackReaction: "PLAY_ATTACK_REACTION",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(k))
}

// NoIndex marks index fields that do not reference a card.
const NoIndex = -1

// CardSet is an explicit multi-card selection over hand positions: a sorted,
// duplicate-free slice of indices as they existed when the action was
// enumerated. It replaces a machine-word bitmask so that hand size is never
// limited by bit width.
type CardSet []int

// NewCardSet builds a set from the given indices, sorting and deduplicating.
func NewCardSet(indices ...int) CardSet {
	if len(indices) == 0 {
		return nil
	}
	s := append([]int(nil), indices...)
	sort.Ints(s)
	out := s[:1]
	for _, idx := range s[1:] {
		if idx != out[len(out)-1] {
			out = append(out, idx)
		}
	}
	return CardSet(out)
}

// Len returns the number of selected positions.
func (s CardSet) Len() int { return len(s) }

// Contains reports whether idx is selected.
func (s CardSet) Contains(idx int) bool {
	i := sort.SearchInts([]int(s), idx)
	return i < len(s) && s[i] == idx
}

// Without returns a copy of the set with idx removed.
func (s CardSet) Without(idx int) CardSet {
	out := make(CardSet, 0, len(s))
	for _, v := range s {
		if v != idx {
			out = append(out, v)
		}
	}
	return out
}

// Equal reports whether both sets select the same positions.
func (s CardSet) Equal(o CardSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Compare orders sets the way their bitmask encodings would order as
// integers: the set with the larger highest index sorts later; ties recurse
// on the remaining indices, and a strict subset-prefix sorts earlier.
func (s CardSet) Compare(o CardSet) int {
	i, j := len(s)-1, len(o)-1
	for i >= 0 && j >= 0 {
		if s[i] != o[j] {
			if s[i] < o[j] {
				return -1
			}
			return 1
		}
		i--
		j--
	}
	switch {
	case i < 0 && j < 0:
		return 0
	case i < 0:
		return -1
	default:
		return 1
	}
}

// Key returns a canonical string form, usable for deduplication.
func (s CardSet) Key() string {
	parts := make([]string, len(s))
	for i, idx := range s {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return strings.Join(parts, ",")
}

func (s CardSet) String() string {
	return "{" + s.Key() + "}"
}

// Action is the closed move representation shared by the enumerator and the
// executor. PlayIdx indexes the hand, or the arsenal when FromArsenal is set.
// Pitch and Defend select hand positions captured at enumeration time; the
// executor resolves them to card instances before removing anything, so index
// shift never occurs. ArsenalIdx pairs one arsenal card with a reaction block
// (NoIndex for none).
type Action struct {
	Kind        ActionKind
	PlayIdx     int
	FromArsenal bool
	ArsenalIdx  int
	Pitch       CardSet
	Defend      CardSet
}

// NewAction returns an action of the given kind with all index fields unset.
func NewAction(kind ActionKind) Action {
	return Action{Kind: kind, PlayIdx: NoIndex, ArsenalIdx: NoIndex}
}

func (a Action) String() string {
	var b strings.Builder
	b.WriteString(a.Kind.String())
	if a.PlayIdx != NoIndex {
		if a.FromArsenal {
			fmt.Fprintf(&b, " arsenal=%d", a.PlayIdx)
		} else {
			fmt.Fprintf(&b, " idx=%d", a.PlayIdx)
		}
	}
	if a.ArsenalIdx != NoIndex {
		fmt.Fprintf(&b, " arsenal_pair=%d", a.ArsenalIdx)
	}
	if len(a.Pitch) > 0 {
		fmt.Fprintf(&b, " pitch=%s", a.Pitch)
	}
	if len(a.Defend) > 0 {
		fmt.Fprintf(&b, " defend=%s", a.Defend)
	}
	return b.String()
}
