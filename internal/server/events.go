package server

import (
	"github.com/Equinox89/1000/internal/engine"
)

// Event describes one observable consequence of an applied action. A single
// card play can produce several (card_played, trick_won, round_settled).
type Event struct {
	Type   string         `json:"type"`
	Player string         `json:"player,omitempty"`
	Amount int            `json:"amount,omitempty"`
	Suit   string         `json:"suit,omitempty"`
	Card   *CardDTO       `json:"card,omitempty"`
	Scores map[string]int `json:"scores,omitempty"`
	Winner string         `json:"winner,omitempty"`
}

const (
	eventBidMade          = "bid_made"
	eventBidPassed        = "bid_passed"
	eventMarriageDeclared = "marriage_declared"
	eventCardPlayed       = "card_played"
	eventTrickWon         = "trick_won"
	eventRoundSettled     = "round_settled"
	eventGameOver         = "game_over"
)

// diffEvents derives events by comparing the state before and after a move by
// actor. It relies on the engine mutating only through its public operations.
func diffEvents(before, after engine.GameState, actor engine.PlayerID) []Event {
	var events []Event

	pb := before.PlayerByID(actor)
	pa := after.PlayerByID(actor)
	if pb == nil || pa == nil {
		return nil
	}

	if before.Phase == engine.PhaseBidding {
		if pa.Passed && !pb.Passed {
			events = append(events, Event{Type: eventBidPassed, Player: string(actor)})
		} else if pa.CurrentBid > pb.CurrentBid {
			events = append(events, Event{Type: eventBidMade, Player: string(actor), Amount: pa.CurrentBid})
		}
	}

	for s := range pa.Marriages {
		if pa.Marriages[s] && !pb.Marriages[s] {
			events = append(events, Event{
				Type:   eventMarriageDeclared,
				Player: string(actor),
				Suit:   suitToString(s),
				Amount: engine.MarriageValue(s),
			})
		}
	}

	if len(pa.Hand) < len(pb.Hand) && before.Phase == engine.PhasePlaying {
		played := playedCard(pb.Hand, pa.Hand)
		dto := cardToDTO(played)
		events = append(events, Event{Type: eventCardPlayed, Player: string(actor), Card: &dto})

		// A full trick was resolved when the pile shrank back.
		if len(after.Trick) == 0 && len(before.Trick) == len(before.Players)-1 {
			trick := append(append([]engine.TrickPlay{}, before.Trick...), engine.TrickPlay{Card: played, PlayedBy: actor})
			winner := trick[engine.TrickWinnerIndex(trick, before.Trump)].PlayedBy
			events = append(events, Event{Type: eventTrickWon, Winner: string(winner)})
		}
	}

	if before.Round != after.Round || (after.Phase == engine.PhaseGameEnd && before.Phase != engine.PhaseGameEnd) {
		events = append(events, Event{Type: eventRoundSettled, Scores: scoreMap(after)})
	}

	if after.Phase == engine.PhaseGameEnd && before.Phase != engine.PhaseGameEnd {
		var winner string
		best := 0
		for _, p := range after.Players {
			if winner == "" || p.Score > best {
				winner = string(p.ID)
				best = p.Score
			}
		}
		events = append(events, Event{Type: eventGameOver, Winner: winner, Scores: scoreMap(after)})
	}

	return events
}

func playedCard(before, after []engine.Card) engine.Card {
	counts := make(map[engine.Card]int)
	for _, c := range before {
		counts[c]++
	}
	for _, c := range after {
		counts[c]--
	}
	for c, n := range counts {
		if n > 0 {
			return c
		}
	}
	return engine.Card{}
}

func scoreMap(g engine.GameState) map[string]int {
	scores := make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		scores[string(p.ID)] = p.Score
	}
	return scores
}
