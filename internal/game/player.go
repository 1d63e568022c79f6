package game

// PlayerState holds one player's life total, zones and per-turn counters.
// Zones own their card instances: moving a card always removes it from the
// source slice before appending it to the destination.
type PlayerState struct {
	Life            int
	Deck            []*Card // drawn from the end
	Hand            []*Card
	Grave           []*Card
	Pitched         []*Card // transient, bottomed into the deck at end of turn
	Arsenal         []*Card // at most one card
	Hero            Hero
	Weapon          *Weapon
	AttacksThisTurn int
}

// DrawUpTo draws from the deck until the hand holds n cards or the deck is
// empty.
func (p *PlayerState) DrawUpTo(n int) {
	for len(p.Hand) < n && len(p.Deck) > 0 {
		last := len(p.Deck) - 1
		p.Hand = append(p.Hand, p.Deck[last])
		p.Deck = p.Deck[:last]
	}
}

// BottomPitchedToDeck moves every pitched card to the bottom of the deck,
// most recently pitched first.
func (p *PlayerState) BottomPitchedToDeck() {
	for len(p.Pitched) > 0 {
		last := len(p.Pitched) - 1
		card := p.Pitched[last]
		p.Pitched = p.Pitched[:last]
		p.Deck = append([]*Card{card}, p.Deck...)
	}
}

// clone copies the player. Card instances are shared between the copies
// because cards are immutable; the zone slices themselves are fresh. The
// weapon is copied by value since UsedThisTurn mutates within a turn.
func (p *PlayerState) clone() *PlayerState {
	cp := *p
	cp.Deck = append([]*Card(nil), p.Deck...)
	cp.Hand = append([]*Card(nil), p.Hand...)
	cp.Grave = append([]*Card(nil), p.Grave...)
	cp.Pitched = append([]*Card(nil), p.Pitched...)
	cp.Arsenal = append([]*Card(nil), p.Arsenal...)
	if p.Weapon != nil {
		w := *p.Weapon
		w.Keywords = append([]string(nil), p.Weapon.Keywords...)
		cp.Weapon = &w
	}
	return &cp
}

// removeFromHand removes the card at idx and returns it. The caller must have
// validated idx.
func (p *PlayerState) removeFromHand(idx int) *Card {
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return card
}

// removeFromArsenal removes the card at idx and returns it.
func (p *PlayerState) removeFromArsenal(idx int) *Card {
	card := p.Arsenal[idx]
	p.Arsenal = append(p.Arsenal[:idx], p.Arsenal[idx+1:]...)
	return card
}

// removeCards removes the identified cards from the hand by identity and
// returns them in hand order. Resolving instances before removal avoids any
// index-shift bookkeeping when several cards leave the hand at once.
func (p *PlayerState) removeCards(cards []*Card) []*Card {
	removed := make([]*Card, 0, len(cards))
	kept := p.Hand[:0]
	for _, c := range p.Hand {
		if containsCard(cards, c) {
			removed = append(removed, c)
		} else {
			kept = append(kept, c)
		}
	}
	p.Hand = kept
	return removed
}

func containsCard(cards []*Card, target *Card) bool {
	for _, c := range cards {
		if c == target {
			return true
		}
	}
	return false
}
