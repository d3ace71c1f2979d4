package engine

import (
	"encoding/json"
	"errors"
	"math/rand"
)

// Snapshot serializes the full game so it can be restored later. Replaying
// the same accepted moves against a restored game yields identical state.
func (g *Game) Snapshot() ([]byte, error) {
	return json.Marshal(g.state)
}

// Restore rebuilds a game from a snapshot. The rng is only consulted again
// at the next deal, so a mid-round restore is exact.
func Restore(data []byte, rng *rand.Rand) (*Game, error) {
	if rng == nil {
		return nil, errors.New("rng required")
	}
	var state GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if len(state.Players) == 0 {
		return nil, errors.New("snapshot has no players")
	}
	if state.PlayerByID(state.CurrentPlayer) == nil {
		return nil, errors.New("snapshot current player unknown")
	}
	return &Game{state: state, rng: rng}, nil
}
