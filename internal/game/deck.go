package game

import (
	"fmt"
	"math/rand"
)

// Random deck generation constants, used for tests and quick games without a
// resolved deck list.
const (
	randomDeckAttackCards  = 8
	randomDeckDefenseCards = 8
)

var (
	randomCardCosts       = []int{1, 2, 3}
	randomCardAttacks     = []int{3, 4, 5, 6}
	randomCardDefenses    = []int{2, 3}
	randomCardPitchValues = []int{1, 2, 3}
)

// MakeRandomDeck builds a shuffled test deck of attack and defense cards with
// randomized stats. Deterministic for a given rng state.
func MakeRandomDeck(rng *rand.Rand) []*Card {
	deck := make([]*Card, 0, randomDeckAttackCards+randomDeckDefenseCards)

	for i := 0; i < randomDeckAttackCards; i++ {
		cost := pick(rng, randomCardCosts)
		attack := pick(rng, randomCardAttacks)
		defense := pick(rng, randomCardDefenses)
		pitch := pick(rng, randomCardPitchValues)
		deck = append(deck, &Card{
			Name:    fmt.Sprintf("Strike%d-%d-%d", cost, attack, pitch),
			Cost:    cost,
			Attack:  attack,
			Defense: defense,
			Pitch:   pitch,
		})
	}

	for i := 0; i < randomDeckDefenseCards; i++ {
		defense := pick(rng, randomCardDefenses)
		pitch := pick(rng, randomCardPitchValues)
		deck = append(deck, &Card{
			Name:    fmt.Sprintf("BlockRes%d-%d", i+1, pitch),
			Defense: defense,
			Pitch:   pitch,
		})
	}

	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

func pick(rng *rand.Rand, values []int) int {
	return values[rng.Intn(len(values))]
}
