// Package memory implements the modal's pair-matching game against the
// clock: clearing the board within the good-score time wins.
package memory

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/registry"
)

// Game implements registry.Game for the memory game.
type Game struct {
	cfg     config.MemoryConfig
	now     func() time.Time
	state   State
	outcome core.Outcome
}

// New creates a memory game.
func New(cfg config.MemoryConfig) *Game {
	g := &Game{cfg: cfg}
	g.Reset(core.DefaultConfig())
	return g
}

func init() {
	registry.Register(core.GameMemory, func(cfg config.ModalConfig) registry.Game {
		return New(cfg.Memory)
	})
}

// ID returns the game identifier.
func (g *Game) ID() core.GameID { return core.GameMemory }

// Info returns the selection-screen card.
func (g *Game) Info() config.GameInfo { return g.cfg.Info }

// Reset deals a new shuffled deck and stops the timer.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.now = cfg.Clock()
	g.state = NewState(g.cfg.Symbols, rand.New(rand.NewSource(seed)))
	g.outcome = core.OutcomeNone
}

// Select flips a card. The second flip asks for a resolve after the match
// or mismatch delay.
func (g *Game) Select(id int) (core.StepResult, error) {
	next, err := FlipCard(g.state, id, g.now())
	if err != nil {
		return core.StepResult{State: g.State()}, err
	}
	g.state = next

	res := core.StepResult{State: g.State()}
	if g.state.Pending() {
		delay := g.cfg.MismatchDelay
		if g.state.PendingMatch() {
			delay = g.cfg.MatchDelay
		}
		res.Followup = &core.Followup{Kind: core.FollowupMemoryResolve, Delay: delay}
	}
	return res, nil
}

// Continue resolves the face-up pair. Matching the final pair decides the
// outcome against the good-score time.
func (g *Game) Continue(kind core.FollowupKind) core.StepResult {
	if kind != core.FollowupMemoryResolve || !g.state.Pending() {
		return core.StepResult{State: g.State()}
	}
	now := g.now()
	g.state = Resolve(g.state, now)
	if g.state.Complete() {
		if g.state.Elapsed(now) <= g.cfg.GoodScoreTime {
			g.outcome = core.OutcomeWin
		} else {
			g.outcome = core.OutcomeLose
		}
	}
	return core.StepResult{State: g.State()}
}

// Targets returns the number of cards.
func (g *Game) Targets() int { return len(g.state.Cards) }

// Elapsed returns the round time so far.
func (g *Game) Elapsed() time.Duration { return g.state.Elapsed(g.now()) }

// Progress returns the current state.
func (g *Game) Progress() State { return g.state }

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.state.MatchedPairs,
		Outcome:  g.outcome,
		Finished: g.outcome.Terminal(),
		Busy:     g.state.Pending(),
	}
}
