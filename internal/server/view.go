package server

import (
	"sort"

	"github.com/Equinox89/1000/internal/engine"
)

// PlayerView is what one player is allowed to see of another. Hand is
// populated only for the viewer themselves.
type PlayerView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsBot      bool      `json:"isBot"`
	Hand       []CardDTO `json:"hand,omitempty"`
	HandCount  int       `json:"handCount"`
	Score      int       `json:"score"`
	RoundPts   int       `json:"roundPts"`
	CurrentBid int       `json:"currentBid"`
	Passed     bool      `json:"passed"`
	Marriages  []string  `json:"marriages,omitempty"`
	TrickCount int       `json:"trickCount"`
}

// GameView is a snapshot of the game redacted for a single viewer.
type GameView struct {
	SessionID     string         `json:"sessionId"`
	Phase         string         `json:"phase"`
	Round         int            `json:"round"`
	Players       []PlayerView   `json:"players"`
	CurrentPlayer string         `json:"currentPlayer"`
	Dealer        string         `json:"dealer"`
	Trump         string         `json:"trump,omitempty"`
	Trick         []TrickPlayDTO `json:"trick"`
	TalonCount    int            `json:"talonCount"`
	DeckCount     int            `json:"deckCount"`
	HighestBid    int            `json:"highestBid"`
	HighestBidder string         `json:"highestBidder,omitempty"`
	TargetScore   int            `json:"targetScore"`
	LegalCards    []int          `json:"legalCards,omitempty"`
}

func buildView(sessionID string, g engine.GameState, viewer engine.PlayerID) GameView {
	view := GameView{
		SessionID:     sessionID,
		Phase:         phaseToString(g.Phase),
		Round:         g.Round,
		CurrentPlayer: string(g.CurrentPlayer),
		Dealer:        string(g.Dealer),
		Trick:         trickToDTO(g.Trick),
		TalonCount:    len(g.Talon),
		DeckCount:     len(g.Deck),
		HighestBid:    g.HighestBid,
		HighestBidder: string(g.HighestBidder),
		TargetScore:   g.Rules.TargetScore,
	}
	if g.Trump != nil {
		view.Trump = suitToString(*g.Trump)
	}
	for i := range g.Players {
		p := &g.Players[i]
		pv := PlayerView{
			ID:         string(p.ID),
			Name:       p.Name,
			IsBot:      p.IsBot,
			HandCount:  len(p.Hand),
			Score:      p.Score,
			RoundPts:   p.RoundPts,
			CurrentBid: p.CurrentBid,
			Passed:     p.Passed,
			TrickCount: len(p.Tricks),
		}
		for s, declared := range p.Marriages {
			if declared {
				pv.Marriages = append(pv.Marriages, suitToString(s))
			}
		}
		sort.Strings(pv.Marriages)
		if p.ID == viewer {
			for _, c := range p.Hand {
				pv.Hand = append(pv.Hand, cardToDTO(c))
			}
		}
		view.Players = append(view.Players, pv)
	}
	view.LegalCards = engine.LegalCardIndexes(g, viewer)
	return view
}

func phaseToString(p engine.Phase) string {
	switch p {
	case engine.PhaseBidding:
		return "bidding"
	case engine.PhasePlaying:
		return "playing"
	case engine.PhaseRoundEnd:
		return "roundEnd"
	case engine.PhaseGameEnd:
		return "gameEnd"
	default:
		return "unknown"
	}
}
