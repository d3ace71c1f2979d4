package engine

// TrickWinnerIndex picks the winning play of a trick. The lead card wins
// unless a later card is trump while the current winner is not, or is the
// same suit as the current winner with a higher point value. A card of a
// different non-trump suit never takes the trick.
func TrickWinnerIndex(trick []TrickPlay, trump *Suit) int {
	if len(trick) == 0 {
		return -1
	}
	bestIdx := 0
	for i := 1; i < len(trick); i++ {
		c := trick[i].Card
		best := trick[bestIdx].Card

		if trump != nil {
			if c.Suit == *trump && best.Suit != *trump {
				bestIdx = i
				continue
			}
			if c.Suit != *trump && best.Suit == *trump {
				continue
			}
		}

		if c.Suit == best.Suit && c.Points() > best.Points() {
			bestIdx = i
		}
	}
	return bestIdx
}

func trickPoints(trick []TrickPlay) int {
	pts := 0
	for _, p := range trick {
		pts += p.Card.Points()
	}
	return pts
}

// legalCard reports whether a card in hand may be played against the
// current trick. An empty trick accepts any card; otherwise the leading
// suit must be followed when the hand holds it.
func legalCard(hand []Card, idx int, trick []TrickPlay) bool {
	if idx < 0 || idx >= len(hand) {
		return false
	}
	if len(trick) == 0 {
		return true
	}
	lead := trick[0].Card.Suit
	if hand[idx].Suit == lead {
		return true
	}
	return !hasSuit(hand, lead)
}

// LegalCardIndexes returns the hand indexes the player may legally play in
// the current trick. Empty when it is not the player's turn to play.
func LegalCardIndexes(g GameState, id PlayerID) []int {
	if g.Phase != PhasePlaying || g.CurrentPlayer != id {
		return nil
	}
	p := g.PlayerByID(id)
	if p == nil {
		return nil
	}
	out := []int{}
	for i := range p.Hand {
		if legalCard(p.Hand, i, g.Trick) {
			out = append(out, i)
		}
	}
	return out
}

func hasSuit(cards []Card, suit Suit) bool {
	for _, c := range cards {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// lowestCardIndex returns the index of the lowest-value card in hand, the
// earliest one on ties.
func lowestCardIndex(hand []Card) int {
	if len(hand) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(hand); i++ {
		if hand[i].Points() < hand[best].Points() {
			best = i
		}
	}
	return best
}
