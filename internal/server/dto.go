package server

import (
	"errors"

	"github.com/Equinox89/1000/internal/engine"
)

type CardDTO struct {
	Suit  string `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

type TrickPlayDTO struct {
	Card     CardDTO `json:"card"`
	PlayedBy string  `json:"playedBy"`
}

// ActionDTO is a client move. Exactly one of the type-specific fields is
// meaningful per type.
type ActionDTO struct {
	Type      string `json:"type"`
	Amount    int    `json:"amount,omitempty"`
	CardIndex int    `json:"cardIndex,omitempty"`
	Suit      string `json:"suit,omitempty"`
}

const (
	actionBid             = "bid"
	actionPass            = "pass"
	actionPlayCard        = "play_card"
	actionDeclareMarriage = "declare_marriage"
)

func cardToDTO(c engine.Card) CardDTO {
	return CardDTO{Suit: suitToString(c.Suit), Rank: c.Rank.String(), Value: c.Points()}
}

func trickToDTO(trick []engine.TrickPlay) []TrickPlayDTO {
	out := make([]TrickPlayDTO, 0, len(trick))
	for _, tp := range trick {
		out = append(out, TrickPlayDTO{Card: cardToDTO(tp.Card), PlayedBy: string(tp.PlayedBy)})
	}
	return out
}

func suitToString(s engine.Suit) string {
	switch s {
	case engine.SuitHearts:
		return "hearts"
	case engine.SuitDiamonds:
		return "diamonds"
	case engine.SuitClubs:
		return "clubs"
	case engine.SuitSpades:
		return "spades"
	default:
		return "unknown"
	}
}

func parseSuit(s string) (engine.Suit, error) {
	switch s {
	case "hearts":
		return engine.SuitHearts, nil
	case "diamonds":
		return engine.SuitDiamonds, nil
	case "clubs":
		return engine.SuitClubs, nil
	case "spades":
		return engine.SuitSpades, nil
	default:
		return engine.SuitHearts, errors.New("invalid suit")
	}
}
