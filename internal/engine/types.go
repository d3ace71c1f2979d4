package engine

import "fmt"

type Suit int

type Rank int

const (
	SuitHearts Suit = iota
	SuitDiamonds
	SuitClubs
	SuitSpades
)

const (
	Rank9 Rank = iota
	RankJ
	RankQ
	RankK
	Rank10
	RankA
)

func (s Suit) String() string {
	switch s {
	case SuitHearts:
		return "H"
	case SuitDiamonds:
		return "D"
	case SuitClubs:
		return "C"
	case SuitSpades:
		return "S"
	default:
		return "?"
	}
}

func (r Rank) String() string {
	switch r {
	case Rank9:
		return "9"
	case RankJ:
		return "J"
	case RankQ:
		return "Q"
	case RankK:
		return "K"
	case Rank10:
		return "10"
	case RankA:
		return "A"
	default:
		return "?"
	}
}

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank.String(), c.Suit.String())
}

// Points returns the trick value of a card.
func (c Card) Points() int {
	switch c.Rank {
	case RankA:
		return 11
	case Rank10:
		return 10
	case RankK:
		return 4
	case RankQ:
		return 3
	case RankJ:
		return 2
	default:
		return 0
	}
}

// MarriageValue returns the bonus credited for declaring a marriage in a suit.
// Hearts is worth the most.
func MarriageValue(s Suit) int {
	switch s {
	case SuitSpades:
		return 40
	case SuitClubs:
		return 60
	case SuitDiamonds:
		return 80
	case SuitHearts:
		return 100
	default:
		return 0
	}
}

// PlayerID identifies a player for the lifetime of a game.
type PlayerID string

type Phase int

const (
	PhaseBidding Phase = iota
	PhasePlaying
	PhaseRoundEnd
	PhaseGameEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseBidding:
		return "Bidding"
	case PhasePlaying:
		return "Playing"
	case PhaseRoundEnd:
		return "RoundEnd"
	case PhaseGameEnd:
		return "GameEnd"
	default:
		return "Unknown"
	}
}

type Rules struct {
	Players      int
	DeckRanks    []Rank
	HandSize     int
	TalonSize    int
	BidCap       int
	MarriageGate int // bids at or above this require a marriage in hand
	TargetScore  int
}

// ClassicPreset returns the canonical short-deck ruleset for n players.
// The talon size equals the player count so the deal exhausts the deck
// and hands are even-sized again after the talon cards are passed around.
func ClassicPreset(n int) Rules {
	ranks := []Rank{Rank9, RankJ, RankQ, RankK, Rank10, RankA}
	talon := n
	deckSize := len(ranks) * 4
	return Rules{
		Players:      n,
		DeckRanks:    ranks,
		HandSize:     (deckSize - talon) / n,
		TalonSize:    talon,
		BidCap:       300,
		MarriageGate: 120,
		TargetScore:  1000,
	}
}

// Config carries the recognized game construction options.
type Config struct {
	NumberOfPlayers int
	PlayerName      string
	BotNames        []string
	StartingScore   int
	TargetScore     int
}

type Player struct {
	ID         PlayerID      `json:"id"`
	Name       string        `json:"name"`
	IsBot      bool          `json:"isBot"`
	Hand       []Card        `json:"hand"`
	Score      int           `json:"score"`
	RoundPts   int           `json:"roundPts"`
	CurrentBid int           `json:"currentBid"`
	Passed     bool          `json:"passed"`
	Marriages  map[Suit]bool `json:"marriages,omitempty"`
	Tricks     [][]Card      `json:"tricks,omitempty"`
}

// HoldsMarriage reports whether the player holds queen and king of any suit.
func (p Player) HoldsMarriage() bool {
	for s := SuitHearts; s <= SuitSpades; s++ {
		if p.HoldsMarriageIn(s) {
			return true
		}
	}
	return false
}

// HoldsMarriageIn reports whether the player holds queen and king of suit s.
func (p Player) HoldsMarriageIn(s Suit) bool {
	hasQ, hasK := false, false
	for _, c := range p.Hand {
		if c.Suit != s {
			continue
		}
		if c.Rank == RankQ {
			hasQ = true
		}
		if c.Rank == RankK {
			hasK = true
		}
	}
	return hasQ && hasK
}

// TrickPlay is one card laid into the current trick.
type TrickPlay struct {
	Card     Card     `json:"card"`
	PlayedBy PlayerID `json:"playedBy"`
}

// GameState is the full round-scoped state. Turn order is the order of
// Players and is fixed for the game.
type GameState struct {
	Rules         Rules       `json:"rules"`
	Players       []Player    `json:"players"`
	CurrentPlayer PlayerID    `json:"currentPlayer"`
	Dealer        PlayerID    `json:"dealer"`
	Trump         *Suit       `json:"trump,omitempty"`
	Trick         []TrickPlay `json:"trick"`
	Deck          []Card      `json:"deck"`
	Talon         []Card      `json:"talon"`
	Phase         Phase       `json:"phase"`
	HighestBid    int         `json:"highestBid"`
	HighestBidder PlayerID    `json:"highestBidder,omitempty"`
	MarriageGated bool        `json:"marriageGated"`
	Round         int         `json:"round"`
}

// PlayerByID returns the player with the given id, or nil.
func (g *GameState) PlayerByID(id PlayerID) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

func (g *GameState) playerIndex(id PlayerID) int {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// DeclaredMarriages returns the suits each player has declared this round.
func (g *GameState) DeclaredMarriages() map[PlayerID][]Suit {
	out := map[PlayerID][]Suit{}
	for _, p := range g.Players {
		for s := SuitHearts; s <= SuitSpades; s++ {
			if p.Marriages[s] {
				out[p.ID] = append(out[p.ID], s)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the state. Callers receive clones so that
// external mutation cannot bypass the engine.
func (g GameState) Clone() GameState {
	out := g
	out.Rules.DeckRanks = append([]Rank(nil), g.Rules.DeckRanks...)
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		cp := p
		cp.Hand = append([]Card(nil), p.Hand...)
		if p.Tricks != nil {
			cp.Tricks = make([][]Card, len(p.Tricks))
			for t, trick := range p.Tricks {
				cp.Tricks[t] = append([]Card(nil), trick...)
			}
		}
		if p.Marriages != nil {
			cp.Marriages = make(map[Suit]bool, len(p.Marriages))
			for s, v := range p.Marriages {
				cp.Marriages[s] = v
			}
		}
		out.Players[i] = cp
	}
	out.Trick = append([]TrickPlay(nil), g.Trick...)
	out.Deck = append([]Card(nil), g.Deck...)
	out.Talon = append([]Card(nil), g.Talon...)
	if g.Trump != nil {
		t := *g.Trump
		out.Trump = &t
	}
	return out
}
