package sim

import (
	"fmt"
	"math/rand"

	"github.com/Equinox89/1000/internal/bots"
	"github.com/Equinox89/1000/internal/engine"
)

type stepRecord struct {
	Step   int
	Phase  engine.Phase
	Player engine.PlayerID
	Note   string
}

// RunSelfPlay drives a full game of bots from a seed and verifies the
// state invariants after every accepted operation. It returns an error
// describing the first violation, with a tail of the action log.
func RunSelfPlay(seed int64, players int, maxSteps int) error {
	cfg := engine.Config{
		NumberOfPlayers: players,
		PlayerName:      "Sim",
		BotNames:        botNames(players - 1),
		TargetScore:     500,
	}
	g, err := engine.New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	strategies := map[engine.PlayerID]bots.Strategy{}
	for i, p := range g.State().Players {
		if i%2 == 0 {
			strategies[p.ID] = bots.NewNormal(seed + int64(i))
		} else {
			strategies[p.ID] = bots.NewEasy(seed + int64(i))
		}
	}

	records := []stepRecord{}
	for step := 0; step < maxSteps; step++ {
		state := g.State()
		if state.Phase == engine.PhaseGameEnd {
			return nil
		}
		id := state.CurrentPlayer
		player := state.PlayerByID(id)
		if player == nil {
			return failure(seed, step, state.Phase, id, records, "no current player")
		}
		strat := strategies[id]

		var note string
		switch state.Phase {
		case engine.PhaseBidding:
			bid := strat.DecideBid(state, *player)
			if err := g.PlaceBid(id, bid); err != nil {
				return failure(seed, step, state.Phase, id, records, fmt.Sprintf("bid %d: %v", bid, err))
			}
			note = fmt.Sprintf("bid %d", bid)
		case engine.PhasePlaying:
			// Declare a held marriage when leading, so trump changes
			// get exercised.
			if len(state.Trick) == 0 {
				for s := engine.SuitHearts; s <= engine.SuitSpades; s++ {
					if player.HoldsMarriageIn(s) && !player.Marriages[s] {
						if err := g.DeclareMarriage(id, s); err != nil {
							return failure(seed, step, state.Phase, id, records, fmt.Sprintf("marriage %v: %v", s, err))
						}
						break
					}
				}
				state = g.State()
				player = state.PlayerByID(id)
			}
			idx := strat.DecideCardToPlay(state, *player)
			if err := g.PlayCard(id, idx); err != nil {
				return failure(seed, step, state.Phase, id, records, fmt.Sprintf("play %d: %v", idx, err))
			}
			note = fmt.Sprintf("play %d", idx)
		default:
			return failure(seed, step, state.Phase, id, records, "unexpected phase with current player")
		}

		records = append(records, stepRecord{Step: step, Phase: state.Phase, Player: id, Note: note})
		if err := checkInvariants(g.State()); err != nil {
			return failure(seed, step, state.Phase, id, records, err.Error())
		}
	}
	return fmt.Errorf("seed=%d: game did not finish in %d steps", seed, maxSteps)
}

func botNames(n int) []string {
	names := []string{"Anna", "Boris", "Celina"}
	return names[:n]
}

func checkInvariants(state engine.GameState) error {
	deckSize := len(state.Rules.DeckRanks) * 4
	total, dup := countCards(state)
	if total != deckSize {
		return fmt.Errorf("card count mismatch: %d", total)
	}
	if dup {
		return fmt.Errorf("duplicate card detected")
	}
	if len(state.Trick) >= len(state.Players) {
		return fmt.Errorf("unresolved trick of size %d", len(state.Trick))
	}
	if state.PlayerByID(state.CurrentPlayer) == nil {
		return fmt.Errorf("current player %q unknown", state.CurrentPlayer)
	}
	if state.HighestBid > 0 && state.PlayerByID(state.HighestBidder) == nil {
		return fmt.Errorf("highest bidder %q unknown", state.HighestBidder)
	}
	for _, p := range state.Players {
		if p.Hand == nil {
			continue
		}
		if len(p.Hand) > state.Rules.HandSize+state.Rules.TalonSize {
			return fmt.Errorf("hand size too large: %d", len(p.Hand))
		}
	}
	return nil
}

func countCards(state engine.GameState) (int, bool) {
	seen := map[engine.Card]bool{}
	total := 0
	dup := false
	add := func(c engine.Card) {
		total++
		if seen[c] {
			dup = true
		}
		seen[c] = true
	}
	for _, p := range state.Players {
		for _, c := range p.Hand {
			add(c)
		}
		for _, trick := range p.Tricks {
			for _, c := range trick {
				add(c)
			}
		}
	}
	for _, tp := range state.Trick {
		add(tp.Card)
	}
	for _, c := range state.Talon {
		add(c)
	}
	for _, c := range state.Deck {
		add(c)
	}
	return total, dup
}

func failure(seed int64, step int, phase engine.Phase, player engine.PlayerID, records []stepRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		log += fmt.Sprintf("[s%d %v %s] %s\n", r.Step, r.Phase, r.Player, r.Note)
	}
	return fmt.Errorf("seed=%d step=%d phase=%v player=%s reason=%s\nlast actions:\n%s",
		seed, step, phase, player, reason, log)
}
