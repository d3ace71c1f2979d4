package bots

import (
	"math/rand"

	"github.com/Equinox89/1000/internal/engine"
)

// Strategy is the decision contract for automated players. DecideBid
// returns 0 to pass or an amount strictly above the state's highest bid;
// amounts at or above the marriage gate are only proposed when the player
// holds a marriage. DecideCardToPlay returns a hand index that is legal
// for the current trick. Both consume read-only state.
type Strategy interface {
	DecideBid(state engine.GameState, player engine.Player) int
	DecideCardToPlay(state engine.GameState, player engine.Player) int
}

// EasyBot passes often and otherwise plays random legal moves.
type EasyBot struct {
	rng *rand.Rand
}

func NewEasy(seed int64) *EasyBot {
	return &EasyBot{rng: rand.New(rand.NewSource(seed))}
}

func (b *EasyBot) DecideBid(state engine.GameState, player engine.Player) int {
	if player.Passed || b.rng.Intn(2) == 0 {
		return 0
	}
	bid := state.HighestBid + 5 + b.rng.Intn(3)*5
	if bid >= state.Rules.MarriageGate && !player.HoldsMarriage() {
		return 0
	}
	if bid > state.Rules.BidCap {
		return 0
	}
	return bid
}

func (b *EasyBot) DecideCardToPlay(state engine.GameState, player engine.Player) int {
	legal := engine.LegalCardIndexes(state, player.ID)
	if len(legal) == 0 {
		return -1
	}
	return legal[b.rng.Intn(len(legal))]
}

// NormalBot bids from hand strength and plays to win tricks cheaply.
type NormalBot struct {
	rng *rand.Rand
}

func NewNormal(seed int64) *NormalBot {
	return &NormalBot{rng: rand.New(rand.NewSource(seed))}
}

func (b *NormalBot) DecideBid(state engine.GameState, player engine.Player) int {
	if player.Passed {
		return 0
	}
	handValue := 0
	for _, c := range player.Hand {
		handValue += c.Points()
	}
	jitter := b.rng.Intn(21) - 10
	bid := handValue + 40 + jitter

	limit := state.Rules.MarriageGate - 1
	if player.HoldsMarriage() {
		limit = state.Rules.BidCap
	}
	if bid > limit {
		bid = limit
	}
	if bid <= state.HighestBid {
		return 0
	}
	return bid
}

func (b *NormalBot) DecideCardToPlay(state engine.GameState, player engine.Player) int {
	legal := engine.LegalCardIndexes(state, player.ID)
	if len(legal) == 0 {
		return -1
	}

	// Leading: put out the highest-value card.
	if len(state.Trick) == 0 {
		best := legal[0]
		for _, i := range legal[1:] {
			if player.Hand[i].Points() > player.Hand[best].Points() {
				best = i
			}
		}
		return best
	}

	// Win the trick with the cheapest card that takes it.
	winning, winningPts := -1, 0
	for _, i := range legal {
		if !winsTrick(state, player, i) {
			continue
		}
		if winning == -1 || player.Hand[i].Points() < winningPts {
			winning = i
			winningPts = player.Hand[i].Points()
		}
	}
	if winning != -1 {
		return winning
	}

	// Otherwise shed the lowest-value card.
	low := legal[0]
	for _, i := range legal[1:] {
		if player.Hand[i].Points() < player.Hand[low].Points() {
			low = i
		}
	}
	return low
}

func winsTrick(state engine.GameState, player engine.Player, cardIdx int) bool {
	trick := append([]engine.TrickPlay(nil), state.Trick...)
	trick = append(trick, engine.TrickPlay{Card: player.Hand[cardIdx], PlayedBy: player.ID})
	win := engine.TrickWinnerIndex(trick, state.Trump)
	return trick[win].PlayedBy == player.ID
}
