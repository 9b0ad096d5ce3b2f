package tictactoe

// Snapshot captures the game state for determinism testing and HTTP views.
type Snapshot struct {
	Board   [Cells]string `json:"board"`
	Turn    string        `json:"turn"` // "player", "bot" or "" when over
	Outcome string        `json:"outcome,omitempty"`
	Plies   int           `json:"plies"`
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	var s Snapshot
	for i, m := range g.board {
		s.Board[i] = m.String()
	}
	switch {
	case g.outcome.Terminal():
		s.Outcome = string(g.outcome)
	case g.botTurn:
		s.Turn = "bot"
	default:
		s.Turn = "player"
	}
	s.Plies = g.plies
	return s
}

// View implements registry.Snapshotter.
func (g *Game) View() any {
	return g.Snapshot()
}
