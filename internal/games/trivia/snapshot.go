package trivia

// Snapshot captures the quiz state for determinism testing and HTTP views.
// The correct answer is only exposed once the active question is locked.
type Snapshot struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
	Selected int      `json:"selected"`
	Answer   *int     `json:"answer,omitempty"`
	Correct  int      `json:"correct"`
	Percent  int      `json:"percent"`
	Finished bool     `json:"finished"`
}

// Snapshot returns the current quiz snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Index:    g.state.Current,
		Total:    len(g.cfg.Questions),
		Selected: g.state.Selected,
		Correct:  g.state.Correct,
		Percent:  g.Percent(),
		Finished: g.state.Finished,
	}
	if !g.state.Finished && g.state.Current < len(g.cfg.Questions) {
		q := g.cfg.Questions[g.state.Current]
		s.Question = q.Text
		s.Options = q.Options
		if g.state.Answered {
			answer := q.Answer
			s.Answer = &answer
		}
	}
	return s
}

// View implements registry.Snapshotter.
func (g *Game) View() any {
	return g.Snapshot()
}
