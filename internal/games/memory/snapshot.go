package memory

// CardView is a card as a client may see it: face-down symbols are hidden.
type CardView struct {
	Symbol  string `json:"symbol,omitempty"`
	Flipped bool   `json:"flipped"`
	Matched bool   `json:"matched"`
}

// Snapshot captures the round for determinism testing and HTTP views.
type Snapshot struct {
	Cards          []CardView `json:"cards"`
	Flipped        []int      `json:"flipped"`
	MatchedPairs   int        `json:"matched_pairs"`
	Pairs          int        `json:"pairs"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	Started        bool       `json:"started"`
}

// Snapshot returns the current round snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Cards:          make([]CardView, len(g.state.Cards)),
		Flipped:        append([]int{}, g.state.Flipped...),
		MatchedPairs:   g.state.MatchedPairs,
		Pairs:          g.state.Pairs(),
		ElapsedSeconds: int(g.Elapsed().Seconds()),
		Started:        !g.state.StartedAt.IsZero(),
	}
	for i, c := range g.state.Cards {
		v := CardView{Flipped: c.Flipped, Matched: c.Matched}
		if c.Flipped || c.Matched {
			v.Symbol = c.Symbol
		}
		s.Cards[i] = v
	}
	return s
}

// View implements registry.Snapshotter.
func (g *Game) View() any {
	return g.Snapshot()
}
