// Package trivia implements the modal's quiz: a fixed question list where
// each answer locks, is revealed, then advances after a delay.
package trivia

import (
	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/registry"
)

// Game implements registry.Game for the trivia quiz.
type Game struct {
	cfg     config.TriviaConfig
	state   State
	outcome core.Outcome
}

// New creates a trivia game.
func New(cfg config.TriviaConfig) *Game {
	g := &Game{cfg: cfg}
	g.Reset(core.DefaultConfig())
	return g
}

func init() {
	registry.Register(core.GameTrivia, func(cfg config.ModalConfig) registry.Game {
		return New(cfg.Trivia)
	})
}

// ID returns the game identifier.
func (g *Game) ID() core.GameID { return core.GameTrivia }

// Info returns the selection-screen card.
func (g *Game) Info() config.GameInfo { return g.cfg.Info }

// Reset restarts at question 0.
func (g *Game) Reset(core.RuntimeConfig) {
	g.state = NewState()
	g.outcome = core.OutcomeNone
}

// Select answers the active question and asks for the reveal delay.
func (g *Game) Select(choice int) (core.StepResult, error) {
	next, _, err := SubmitAnswer(g.cfg.Questions, g.state, choice)
	if err != nil {
		return core.StepResult{State: g.State()}, err
	}
	g.state = next
	return core.StepResult{
		State:    g.State(),
		Followup: &core.Followup{Kind: core.FollowupTriviaAdvance, Delay: g.cfg.RevealDelay},
	}, nil
}

// Continue advances to the next question, scoring the quiz after the last.
func (g *Game) Continue(kind core.FollowupKind) core.StepResult {
	if kind != core.FollowupTriviaAdvance || !g.state.Answered {
		return core.StepResult{State: g.State()}
	}
	g.state = Advance(g.cfg.Questions, g.state)
	if g.state.Finished {
		if Passed(g.state.Correct, len(g.cfg.Questions), g.cfg.PassingScore) {
			g.outcome = core.OutcomeWin
		} else {
			g.outcome = core.OutcomeLose
		}
	}
	return core.StepResult{State: g.State()}
}

// Targets returns the option count of the active question.
func (g *Game) Targets() int {
	if g.state.Finished || g.state.Current >= len(g.cfg.Questions) {
		return 0
	}
	return len(g.cfg.Questions[g.state.Current].Options)
}

// Percent returns the current score percentage over the whole quiz.
func (g *Game) Percent() int {
	return Percent(g.state.Correct, len(g.cfg.Questions))
}

// Progress returns the current state.
func (g *Game) Progress() State { return g.state }

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.state.Correct,
		Outcome:  g.outcome,
		Finished: g.outcome.Terminal(),
		Busy:     g.state.Answered,
	}
}
