package engine

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestNewGameValidatesConfig(t *testing.T) {
	if _, err := New(Config{NumberOfPlayers: 2, BotNames: []string{"A"}}, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("expected error for 2 players")
	}
	if _, err := New(Config{NumberOfPlayers: 3, BotNames: []string{"A"}}, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("expected error for missing bot names")
	}
	if _, err := New(Config{NumberOfPlayers: 3, BotNames: []string{"A", "B"}}, nil); err == nil {
		t.Fatalf("expected error for nil rng")
	}
}

func TestNewGameStartsBiddingAtDealer(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	state := g.State()
	if state.Phase != PhaseBidding {
		t.Fatalf("phase: got %v, want Bidding", state.Phase)
	}
	if state.CurrentPlayer != state.Dealer {
		t.Fatalf("expected dealer to open the bidding")
	}
	if state.Players[0].IsBot || !state.Players[1].IsBot || !state.Players[2].IsBot {
		t.Fatalf("expected one human and two bots")
	}
}

func TestPlaceBidRejections(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	state := g.State()

	if err := g.PlaceBid(state.Players[1].ID, 100); err == nil {
		t.Fatalf("expected rejection for out-of-turn bid")
	}
	if err := g.PlaceBid("ghost", 100); err == nil {
		t.Fatalf("expected rejection for unknown player")
	}
	if err := g.PlaceBid(state.CurrentPlayer, 400); err == nil {
		t.Fatalf("expected rejection above the bid cap")
	}

	if err := g.PlaceBid(state.CurrentPlayer, 100); err != nil {
		t.Fatalf("valid bid rejected: %v", err)
	}
	next := g.State().CurrentPlayer
	if err := g.PlaceBid(next, 100); err == nil {
		t.Fatalf("expected rejection for bid not above highest")
	}
	if err := g.PlaceBid(next, 90); err == nil {
		t.Fatalf("expected rejection for lower bid")
	}
}

func TestPlaceBidRejectedOutsideBidding(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	g.state.Phase = PhasePlaying
	if err := g.PlaceBid(g.state.CurrentPlayer, 100); err == nil {
		t.Fatalf("expected rejection outside bidding phase")
	}
}

func TestHighBidRequiresMarriage(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	id := g.state.CurrentPlayer
	p := g.state.PlayerByID(id)
	p.Hand = []Card{
		{Suit: SuitClubs, Rank: RankA},
		{Suit: SuitSpades, Rank: Rank9},
	}
	if err := g.PlaceBid(id, 120); err == nil {
		t.Fatalf("expected rejection of 120 without a marriage")
	}

	p.Hand = []Card{
		{Suit: SuitHearts, Rank: RankQ},
		{Suit: SuitHearts, Rank: RankK},
	}
	if err := g.PlaceBid(id, 130); err != nil {
		t.Fatalf("marriage-backed bid rejected: %v", err)
	}
}

func TestHighBidForcesMarriagelessPass(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	bidder := g.state.CurrentPlayer
	g.state.PlayerByID(bidder).Hand = []Card{
		{Suit: SuitHearts, Rank: RankQ},
		{Suit: SuitHearts, Rank: RankK},
	}
	withPair := g.state.Players[1].ID
	g.state.PlayerByID(withPair).Hand = []Card{
		{Suit: SuitSpades, Rank: RankQ},
		{Suit: SuitSpades, Rank: RankK},
	}
	without := g.state.Players[2].ID
	g.state.PlayerByID(without).Hand = []Card{
		{Suit: SuitClubs, Rank: RankA},
	}

	if err := g.PlaceBid(bidder, 130); err != nil {
		t.Fatalf("qualifying bid rejected: %v", err)
	}

	forced := g.state.PlayerByID(without)
	if !forced.Passed || forced.CurrentBid != 0 {
		t.Fatalf("expected marriage-less player forced to pass")
	}
	holder := g.state.PlayerByID(withPair)
	if holder.Passed {
		t.Fatalf("marriage holder must not be forced out")
	}

	// The forced player may not outbid afterwards.
	if err := g.PlaceBid(withPair, 140); err != nil {
		t.Fatalf("marriage holder raise rejected: %v", err)
	}
	if err := g.PlaceBid(without, 150); err == nil {
		t.Fatalf("expected forced-out player's bid to be rejected")
	}
}

func TestBiddingEndsAfterFullCircle(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	state := g.State()
	order := []PlayerID{state.Players[0].ID, state.Players[1].ID, state.Players[2].ID}

	if err := g.PlaceBid(order[0], 100); err != nil {
		t.Fatalf("bid 1: %v", err)
	}
	if err := g.PlaceBid(order[1], 110); err != nil {
		t.Fatalf("bid 2: %v", err)
	}
	if err := g.PlaceBid(order[2], 0); err != nil {
		t.Fatalf("pass: %v", err)
	}

	state = g.State()
	if state.Phase != PhasePlaying {
		t.Fatalf("phase after full circle: got %v, want Playing", state.Phase)
	}
	if state.HighestBidder != order[1] || state.HighestBid != 110 {
		t.Fatalf("highest bid: got %s/%d", state.HighestBidder, state.HighestBid)
	}
	if state.CurrentPlayer != order[1] {
		t.Fatalf("expected the highest bidder to lead")
	}
}

func TestTalonAwardAndLowestCardDiscards(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	order := []PlayerID{g.state.Players[0].ID, g.state.Players[1].ID, g.state.Players[2].ID}

	g.state.PlayerByID(order[1]).Hand = []Card{
		{Suit: SuitHearts, Rank: RankA},
		{Suit: SuitHearts, Rank: Rank10},
		{Suit: SuitClubs, Rank: RankK},
		{Suit: SuitClubs, Rank: RankQ},
		{Suit: SuitSpades, Rank: RankJ},
		{Suit: SuitSpades, Rank: Rank9},
		{Suit: SuitDiamonds, Rank: Rank9},
	}
	g.state.Talon = []Card{
		{Suit: SuitDiamonds, Rank: RankA},
		{Suit: SuitDiamonds, Rank: Rank10},
		{Suit: SuitDiamonds, Rank: RankK},
	}

	if err := g.PlaceBid(order[0], 0); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if err := g.PlaceBid(order[1], 100); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := g.PlaceBid(order[2], 0); err != nil {
		t.Fatalf("pass: %v", err)
	}

	state := g.State()
	if len(state.Talon) != 0 {
		t.Fatalf("talon should be empty after the award")
	}
	bidderHand := state.PlayerByID(order[1]).Hand
	if len(bidderHand) != 8 {
		t.Fatalf("bidder hand: got %d, want 8", len(bidderHand))
	}
	// The two nines are the lowest-value cards; one goes to each opponent
	// in turn order after the bidder.
	got2 := state.PlayerByID(order[2]).Hand
	got0 := state.PlayerByID(order[0]).Hand
	if got2[len(got2)-1].Rank != Rank9 || got0[len(got0)-1].Rank != Rank9 {
		t.Fatalf("expected the nines to be discarded to the opponents")
	}
	for _, c := range bidderHand {
		if c.Rank == Rank9 {
			t.Fatalf("bidder kept a nine after discards")
		}
	}
}

func TestNoBidsSkipsTalonAward(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	for i := 0; i < 3; i++ {
		if err := g.PlaceBid(g.state.CurrentPlayer, 0); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
	}
	state := g.State()
	if state.Phase != PhasePlaying {
		t.Fatalf("phase: got %v, want Playing", state.Phase)
	}
	if state.HighestBidder != "" {
		t.Fatalf("expected no highest bidder")
	}
	if len(state.Talon) != 3 {
		t.Fatalf("talon must stay put when nobody bids")
	}
	if state.CurrentPlayer != state.Dealer {
		t.Fatalf("expected the dealer to lead a no-bid round")
	}
}

func TestPlayCardRejectionsLeaveStateUntouched(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	g.state.Phase = PhasePlaying
	g.state.CurrentPlayer = g.state.Players[0].ID
	g.state.Players[0].Hand = []Card{{Suit: SuitClubs, Rank: RankA}}

	before := g.State()
	if err := g.PlayCard(g.state.Players[1].ID, 0); err == nil {
		t.Fatalf("expected out-of-turn rejection")
	}
	if err := g.PlayCard(g.state.Players[0].ID, 5); err == nil {
		t.Fatalf("expected out-of-range rejection")
	}
	if !reflect.DeepEqual(before, g.State()) {
		t.Fatalf("rejected plays must not mutate state")
	}
}

func TestPlayCardEnforcesFollowSuit(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	ids := []PlayerID{g.state.Players[0].ID, g.state.Players[1].ID, g.state.Players[2].ID}
	g.state.Phase = PhasePlaying
	g.state.CurrentPlayer = ids[0]
	g.state.Players[0].Hand = []Card{{Suit: SuitHearts, Rank: RankA}}
	g.state.Players[1].Hand = []Card{
		{Suit: SuitSpades, Rank: RankA},
		{Suit: SuitHearts, Rank: Rank9},
	}
	g.state.Players[2].Hand = []Card{{Suit: SuitClubs, Rank: Rank9}}

	if err := g.PlayCard(ids[0], 0); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if err := g.PlayCard(ids[1], 0); err == nil {
		t.Fatalf("expected follow-suit rejection while holding hearts")
	}
	if err := g.PlayCard(ids[1], 1); err != nil {
		t.Fatalf("legal follow rejected: %v", err)
	}
	// Void in hearts: any card goes.
	if err := g.PlayCard(ids[2], 0); err != nil {
		t.Fatalf("void discard rejected: %v", err)
	}
}

func TestTrickResolutionScoresWinnerWhoLeadsNext(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	ids := []PlayerID{g.state.Players[0].ID, g.state.Players[1].ID, g.state.Players[2].ID}
	trump := SuitHearts
	g.state.Phase = PhasePlaying
	g.state.Trump = &trump
	g.state.CurrentPlayer = ids[0]
	g.state.Players[0].Hand = []Card{{Suit: SuitClubs, Rank: RankA}, {Suit: SuitClubs, Rank: Rank9}}
	g.state.Players[1].Hand = []Card{{Suit: SuitHearts, Rank: Rank9}, {Suit: SuitSpades, Rank: Rank9}}
	g.state.Players[2].Hand = []Card{{Suit: SuitClubs, Rank: RankK}, {Suit: SuitClubs, Rank: Rank10}}

	if err := g.PlayCard(ids[0], 0); err != nil {
		t.Fatalf("play 1: %v", err)
	}
	if err := g.PlayCard(ids[1], 0); err != nil {
		t.Fatalf("play 2: %v", err)
	}
	if err := g.PlayCard(ids[2], 0); err != nil {
		t.Fatalf("play 3: %v", err)
	}

	state := g.State()
	winner := state.PlayerByID(ids[1])
	if winner.Score != 15 || winner.RoundPts != 15 {
		t.Fatalf("winner score: got %d/%d, want 15", winner.Score, winner.RoundPts)
	}
	if len(state.Trick) != 0 {
		t.Fatalf("trick must be cleared after resolution")
	}
	if state.CurrentPlayer != ids[1] {
		t.Fatalf("trick winner must lead the next trick")
	}
	if len(winner.Tricks) != 1 || len(winner.Tricks[0]) != 3 {
		t.Fatalf("captured trick not recorded")
	}
}

func TestRoundSettlementPenalizesFailedBid(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	ids := []PlayerID{g.state.Players[0].ID, g.state.Players[1].ID, g.state.Players[2].ID}
	g.state.Phase = PhasePlaying
	g.state.CurrentPlayer = ids[0]
	g.state.HighestBid = 120
	g.state.HighestBidder = ids[0]
	g.state.PlayerByID(ids[0]).CurrentBid = 120
	// Last trick of the round; the bidder wins it but stays far short of 120.
	g.state.Players[0].Hand = []Card{{Suit: SuitClubs, Rank: RankA}}
	g.state.Players[1].Hand = []Card{{Suit: SuitClubs, Rank: Rank9}}
	g.state.Players[2].Hand = []Card{{Suit: SuitClubs, Rank: Rank10}}

	for _, id := range ids {
		if err := g.PlayCard(id, 0); err != nil {
			t.Fatalf("play %s: %v", id, err)
		}
	}

	state := g.State()
	bidder := state.PlayerByID(ids[0])
	// 21 trick points minus the 120 bid.
	if bidder.Score != 21-120 {
		t.Fatalf("bidder score: got %d, want %d", bidder.Score, 21-120)
	}
	if state.Round != 2 || state.Phase != PhaseBidding {
		t.Fatalf("expected a fresh round to begin")
	}
}

func TestRoundRolloverCarriesScoresResetsRoundState(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	ids := []PlayerID{g.state.Players[0].ID, g.state.Players[1].ID, g.state.Players[2].ID}
	g.state.Phase = PhasePlaying
	g.state.CurrentPlayer = ids[0]
	g.state.Players[0].Score = 200
	g.state.Players[0].Hand = []Card{{Suit: SuitClubs, Rank: RankA}}
	g.state.Players[1].Hand = []Card{{Suit: SuitClubs, Rank: Rank9}}
	g.state.Players[2].Hand = []Card{{Suit: SuitDiamonds, Rank: Rank9}}
	oldDealer := g.state.Dealer

	for _, id := range ids {
		if err := g.PlayCard(id, 0); err != nil {
			t.Fatalf("play %s: %v", id, err)
		}
	}

	state := g.State()
	if state.PlayerByID(ids[0]).Score != 211 {
		t.Fatalf("score not carried: got %d", state.PlayerByID(ids[0]).Score)
	}
	if state.Dealer == oldDealer {
		t.Fatalf("dealer must rotate between rounds")
	}
	for _, p := range state.Players {
		if len(p.Hand) != 7 || p.CurrentBid != 0 || p.RoundPts != 0 || p.Passed || len(p.Marriages) != 0 || len(p.Tricks) != 0 {
			t.Fatalf("round state not reset for %s", p.ID)
		}
	}
	if state.HighestBid != 0 || state.HighestBidder != "" || state.Trump != nil {
		t.Fatalf("round-scoped state must reset")
	}
}

func TestGameEndsAtTargetScore(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	ids := []PlayerID{g.state.Players[0].ID, g.state.Players[1].ID, g.state.Players[2].ID}
	g.state.Rules.TargetScore = 100
	g.state.Phase = PhasePlaying
	g.state.CurrentPlayer = ids[0]
	g.state.Players[0].Score = 95
	g.state.Players[0].Hand = []Card{{Suit: SuitClubs, Rank: RankA}}
	g.state.Players[1].Hand = []Card{{Suit: SuitClubs, Rank: Rank9}}
	g.state.Players[2].Hand = []Card{{Suit: SuitDiamonds, Rank: Rank9}}

	for _, id := range ids {
		if err := g.PlayCard(id, 0); err != nil {
			t.Fatalf("play %s: %v", id, err)
		}
	}

	state := g.State()
	if state.Phase != PhaseGameEnd {
		t.Fatalf("phase: got %v, want GameEnd", state.Phase)
	}

	res, err := g.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Winner != state.PlayerByID(ids[0]).Name {
		t.Fatalf("winner: got %s", res.Winner)
	}
	if len(res.Players) != 3 || res.Players[0].FinalScore != 106 {
		t.Fatalf("result players wrong: %+v", res.Players)
	}
}

func TestResultBeforeGameEndRejected(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	if _, err := g.Result(); err == nil {
		t.Fatalf("expected error before game end")
	}
}

func TestDeclareMarriage(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	id := g.state.Players[0].ID
	g.state.Players[0].Hand = []Card{
		{Suit: SuitHearts, Rank: RankQ},
		{Suit: SuitHearts, Rank: RankK},
		{Suit: SuitClubs, Rank: Rank9},
	}

	if err := g.DeclareMarriage(id, SuitSpades); err == nil {
		t.Fatalf("expected rejection without the pair")
	}
	if err := g.DeclareMarriage(id, SuitHearts); err != nil {
		t.Fatalf("declare: %v", err)
	}

	state := g.State()
	p := state.PlayerByID(id)
	if p.Score != 100 || p.RoundPts != 100 {
		t.Fatalf("hearts bonus: got %d, want 100", p.Score)
	}
	if state.Trump == nil || *state.Trump != SuitHearts {
		t.Fatalf("trump not set by the declaration")
	}

	if err := g.DeclareMarriage(id, SuitHearts); err == nil {
		t.Fatalf("expected rejection on repeat declaration")
	}
	if g.state.PlayerByID(id).Score != 100 {
		t.Fatalf("repeat declaration must not credit again")
	}
}

func TestDeclareMarriageDuringBiddingEnablesHighBid(t *testing.T) {
	g := mustNewGame(t, 3, 1)
	id := g.state.CurrentPlayer
	g.state.PlayerByID(id).Hand = []Card{
		{Suit: SuitHearts, Rank: RankQ},
		{Suit: SuitHearts, Rank: RankK},
	}
	if err := g.DeclareMarriage(id, SuitHearts); err != nil {
		t.Fatalf("declare during bidding: %v", err)
	}
	if err := g.PlaceBid(id, 130); err != nil {
		t.Fatalf("bid after declaring: %v", err)
	}
}
