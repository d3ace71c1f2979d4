package engine

import "math/rand"

// BuildDeck returns one card per (suit, rank) combination of the ruleset.
func BuildDeck(r Rules) []Card {
	deck := make([]Card, 0, len(r.DeckRanks)*4)
	suits := []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}
	for _, s := range suits {
		for _, rank := range r.DeckRanks {
			deck = append(deck, Card{Suit: s, Rank: rank})
		}
	}
	return deck
}

// Shuffle returns a Fisher-Yates permutation of deck drawn from rng. The
// input is not modified.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// deal distributes a shuffled deck into player hands and the talon. Any
// remainder stays in the deck zone.
func (g *Game) deal() {
	deck := Shuffle(BuildDeck(g.state.Rules), g.rng)

	idx := 0
	for p := range g.state.Players {
		g.state.Players[p].Hand = append([]Card(nil), deck[idx:idx+g.state.Rules.HandSize]...)
		idx += g.state.Rules.HandSize
	}
	g.state.Talon = append([]Card(nil), deck[idx:idx+g.state.Rules.TalonSize]...)
	idx += g.state.Rules.TalonSize
	g.state.Deck = append([]Card(nil), deck[idx:]...)
}
