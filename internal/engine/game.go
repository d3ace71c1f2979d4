package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Game owns the mutable state of one table. Every public operation either
// fully applies, including any cascading trick or round resolution, or
// rejects with an error and leaves the state untouched.
type Game struct {
	state GameState
	rng   *rand.Rand
}

// New builds a game from config and deals the first round. All randomness
// comes from rng so games are reproducible from a seed.
func New(cfg Config, rng *rand.Rand) (*Game, error) {
	if cfg.NumberOfPlayers != 3 && cfg.NumberOfPlayers != 4 {
		return nil, fmt.Errorf("unsupported player count %d", cfg.NumberOfPlayers)
	}
	if len(cfg.BotNames) != cfg.NumberOfPlayers-1 {
		return nil, fmt.Errorf("need %d bot names, got %d", cfg.NumberOfPlayers-1, len(cfg.BotNames))
	}
	if rng == nil {
		return nil, errors.New("rng required")
	}

	rules := ClassicPreset(cfg.NumberOfPlayers)
	if cfg.TargetScore > 0 {
		rules.TargetScore = cfg.TargetScore
	}

	name := cfg.PlayerName
	if name == "" {
		name = "You"
	}
	players := make([]Player, 0, cfg.NumberOfPlayers)
	players = append(players, Player{ID: "player1", Name: name, Score: cfg.StartingScore})
	for i, botName := range cfg.BotNames {
		players = append(players, Player{
			ID:    PlayerID(fmt.Sprintf("bot%d", i+1)),
			Name:  botName,
			IsBot: true,
			Score: cfg.StartingScore,
		})
	}

	g := &Game{
		rng: rng,
		state: GameState{
			Rules:   rules,
			Players: players,
			Dealer:  players[0].ID,
			Round:   1,
		},
	}
	g.startRound()
	return g, nil
}

// Rules returns the active ruleset.
func (g *Game) Rules() Rules { return g.state.Rules }

// State returns a deep copy of the current state.
func (g *Game) State() GameState { return g.state.Clone() }

// startRound shuffles and deals a fresh round. Player identity and
// cumulative score carry over; everything round-scoped resets.
func (g *Game) startRound() {
	for i := range g.state.Players {
		g.state.Players[i].Hand = nil
		g.state.Players[i].RoundPts = 0
		g.state.Players[i].CurrentBid = 0
		g.state.Players[i].Passed = false
		g.state.Players[i].Marriages = nil
		g.state.Players[i].Tricks = nil
	}
	g.state.Trump = nil
	g.state.Trick = nil
	g.state.Talon = nil
	g.state.Deck = nil
	g.state.HighestBid = 0
	g.state.HighestBidder = ""
	g.state.MarriageGated = false
	g.state.Phase = PhaseBidding
	g.state.CurrentPlayer = g.state.Dealer
	g.deal()
}

// PlaceBid records a bid for the current player. Amount 0 is a pass. A
// positive amount must beat the highest bid, stay within the cap, and at
// or above the marriage gate requires a marriage pair in hand.
func (g *Game) PlaceBid(id PlayerID, amount int) error {
	if g.state.Phase != PhaseBidding {
		return errors.New("not in bidding phase")
	}
	if g.state.CurrentPlayer != id {
		return errors.New("not your turn to bid")
	}
	player := g.state.PlayerByID(id)
	if player == nil {
		return errors.New("unknown player")
	}

	if amount == 0 {
		player.CurrentBid = 0
		player.Passed = true
		g.advanceBidding()
		return nil
	}

	if player.Passed {
		return errors.New("player already passed")
	}
	if amount <= g.state.HighestBid {
		return errors.New("bid not high enough")
	}
	if amount > g.state.Rules.BidCap {
		return errors.New("bid above maximum")
	}
	if amount >= g.state.Rules.MarriageGate && !player.HoldsMarriage() {
		return errors.New("bid requires a marriage in hand")
	}

	player.CurrentBid = amount
	g.state.HighestBid = amount
	g.state.HighestBidder = id

	// A gated bid forces every other marriage-less player to pass. This
	// runs once, at the moment the first qualifying bid is accepted.
	if amount >= g.state.Rules.MarriageGate && !g.state.MarriageGated {
		g.state.MarriageGated = true
		for i := range g.state.Players {
			p := &g.state.Players[i]
			if p.ID == id || p.HoldsMarriage() {
				continue
			}
			p.CurrentBid = 0
			p.Passed = true
		}
	}

	g.advanceBidding()
	return nil
}

// advanceBidding moves the bid turn to the next player; a full circle back
// to the dealer ends the bidding phase.
func (g *Game) advanceBidding() {
	idx := g.state.playerIndex(g.state.CurrentPlayer)
	next := (idx + 1) % len(g.state.Players)
	g.state.CurrentPlayer = g.state.Players[next].ID
	if g.state.CurrentPlayer == g.state.Dealer {
		g.endBidding()
	}
}

// endBidding hands the talon to the highest bidder, who then passes their
// lowest-value card to each opponent in turn order. With no bidder the
// talon stays put and the dealer leads.
func (g *Game) endBidding() {
	g.state.Phase = PhasePlaying

	if g.state.HighestBidder == "" {
		g.state.CurrentPlayer = g.state.Dealer
		return
	}

	bidder := g.state.PlayerByID(g.state.HighestBidder)
	bidder.Hand = append(bidder.Hand, g.state.Talon...)
	g.state.Talon = nil

	bidderIdx := g.state.playerIndex(bidder.ID)
	for i := 1; i < len(g.state.Players); i++ {
		other := &g.state.Players[(bidderIdx+i)%len(g.state.Players)]
		low := lowestCardIndex(bidder.Hand)
		other.Hand = append(other.Hand, bidder.Hand[low])
		bidder.Hand = append(bidder.Hand[:low], bidder.Hand[low+1:]...)
	}

	g.state.CurrentPlayer = bidder.ID
}

// DeclareMarriage credits the suit bonus and sets the trump suit. Legal
// while bidding or playing, for a player holding both queen and king of
// the suit, once per suit per round.
func (g *Game) DeclareMarriage(id PlayerID, suit Suit) error {
	if g.state.Phase != PhaseBidding && g.state.Phase != PhasePlaying {
		return errors.New("marriages may only be declared during a round")
	}
	player := g.state.PlayerByID(id)
	if player == nil {
		return errors.New("unknown player")
	}
	if player.Marriages[suit] {
		return errors.New("marriage already declared")
	}
	if !player.HoldsMarriageIn(suit) {
		return errors.New("marriage requires queen and king in hand")
	}

	if player.Marriages == nil {
		player.Marriages = map[Suit]bool{}
	}
	player.Marriages[suit] = true
	bonus := MarriageValue(suit)
	player.Score += bonus
	player.RoundPts += bonus
	s := suit
	g.state.Trump = &s
	return nil
}

// PlayCard moves the card at cardIndex from the player's hand into the
// trick. A completed trick resolves synchronously; an exhausted round
// settles synchronously.
func (g *Game) PlayCard(id PlayerID, cardIndex int) error {
	if g.state.Phase != PhasePlaying {
		return errors.New("not in playing phase")
	}
	if g.state.CurrentPlayer != id {
		return errors.New("not your turn to play")
	}
	player := g.state.PlayerByID(id)
	if player == nil {
		return errors.New("unknown player")
	}
	if cardIndex < 0 || cardIndex >= len(player.Hand) {
		return errors.New("card index out of range")
	}
	if !legalCard(player.Hand, cardIndex, g.state.Trick) {
		return errors.New("must follow the leading suit")
	}

	card := player.Hand[cardIndex]
	player.Hand = append(player.Hand[:cardIndex], player.Hand[cardIndex+1:]...)
	g.state.Trick = append(g.state.Trick, TrickPlay{Card: card, PlayedBy: id})

	if len(g.state.Trick) == len(g.state.Players) {
		g.resolveTrick()
		return nil
	}

	idx := g.state.playerIndex(id)
	g.state.CurrentPlayer = g.state.Players[(idx+1)%len(g.state.Players)].ID
	return nil
}

func (g *Game) resolveTrick() {
	winIdx := TrickWinnerIndex(g.state.Trick, g.state.Trump)
	winner := g.state.PlayerByID(g.state.Trick[winIdx].PlayedBy)
	pts := trickPoints(g.state.Trick)
	winner.Score += pts
	winner.RoundPts += pts
	captured := make([]Card, 0, len(g.state.Trick))
	for _, tp := range g.state.Trick {
		captured = append(captured, tp.Card)
	}
	winner.Tricks = append(winner.Tricks, captured)
	g.state.Trick = nil
	g.state.CurrentPlayer = winner.ID

	for _, p := range g.state.Players {
		if len(p.Hand) > 0 {
			return
		}
	}
	g.endRound()
}

// endRound applies the bid penalty, then either finishes the game or
// rotates the dealer into a fresh round.
func (g *Game) endRound() {
	g.state.Phase = PhaseRoundEnd

	if g.state.HighestBidder != "" {
		bidder := g.state.PlayerByID(g.state.HighestBidder)
		if bidder.RoundPts < bidder.CurrentBid {
			bidder.Score -= bidder.CurrentBid
		}
	}

	for _, p := range g.state.Players {
		if p.Score >= g.state.Rules.TargetScore {
			g.state.Phase = PhaseGameEnd
			return
		}
	}

	dealerIdx := g.state.playerIndex(g.state.Dealer)
	g.state.Dealer = g.state.Players[(dealerIdx+1)%len(g.state.Players)].ID
	g.state.Round++
	g.startRound()
}

// Result reports the finished game for external storage. It is only
// meaningful once the phase is GameEnd.
func (g *Game) Result() (GameResult, error) {
	if g.state.Phase != PhaseGameEnd {
		return GameResult{}, errors.New("game not finished")
	}
	res := GameResult{Date: time.Now()}
	best := 0
	for i, p := range g.state.Players {
		res.Players = append(res.Players, PlayerResult{
			Name:       p.Name,
			FinalScore: p.Score,
			FinalBid:   p.CurrentBid,
		})
		if p.Score > g.state.Players[best].Score {
			best = i
		}
	}
	res.Winner = g.state.Players[best].Name
	return res, nil
}

// PlayerResult is one line of a finished game report.
type PlayerResult struct {
	Name       string `json:"name"`
	FinalScore int    `json:"finalScore"`
	FinalBid   int    `json:"finalBid"`
}

// GameResult is emitted at game end for the persistence collaborator. The
// engine itself performs no I/O.
type GameResult struct {
	ID      string         `json:"id,omitempty"`
	Date    time.Time      `json:"date"`
	Players []PlayerResult `json:"players"`
	Winner  string         `json:"winner"`
}
