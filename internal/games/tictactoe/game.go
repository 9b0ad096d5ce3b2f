// Package tictactoe implements the modal's X & O game: the player (X) moves
// first against a heuristic bot (O) whose reply is delayed for pacing.
package tictactoe

import (
	"errors"
	"math/rand"
	"time"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/registry"
)

// ErrBotTurn is returned when the player selects a cell while the bot is
// still thinking.
var ErrBotTurn = errors.New("tictactoe: waiting for bot move")

// Game implements registry.Game for tic-tac-toe.
type Game struct {
	cfg     config.TicTacToeConfig
	rng     *rand.Rand
	board   Board
	outcome core.Outcome
	botTurn bool
	plies   int
}

// New creates a tic-tac-toe game.
func New(cfg config.TicTacToeConfig) *Game {
	g := &Game{cfg: cfg}
	g.Reset(core.DefaultConfig())
	return g
}

func init() {
	registry.Register(core.GameTicTacToe, func(cfg config.ModalConfig) registry.Game {
		return New(cfg.TicTacToe)
	})
}

// ID returns the game identifier.
func (g *Game) ID() core.GameID { return core.GameTicTacToe }

// Info returns the selection-screen card.
func (g *Game) Info() config.GameInfo { return g.cfg.Info }

// Reset clears the board.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))
	g.board = Board{}
	g.outcome = core.OutcomeNone
	g.botTurn = false
	g.plies = 0
}

// Select places the player's mark. On a non-terminal move it asks for a
// bot move after the configured delay.
func (g *Game) Select(cell int) (core.StepResult, error) {
	if g.botTurn {
		return core.StepResult{State: g.State()}, ErrBotTurn
	}
	next, err := ApplyPlayerMove(g.board, cell)
	if err != nil {
		return core.StepResult{State: g.State()}, err
	}
	g.board = next
	g.plies++

	if g.settle() {
		return core.StepResult{State: g.State()}, nil
	}

	g.botTurn = true
	return core.StepResult{
		State:    g.State(),
		Followup: &core.Followup{Kind: core.FollowupBotMove, Delay: g.cfg.BotDelay},
	}, nil
}

// Continue commits the bot's move.
func (g *Game) Continue(kind core.FollowupKind) core.StepResult {
	if kind != core.FollowupBotMove || !g.botTurn {
		return core.StepResult{State: g.State()}
	}
	g.botTurn = false

	cell := ChooseBotMove(g.board, g.rng)
	if next, err := place(g.board, cell, Bot); err == nil {
		g.board = next
		g.plies++
	}
	g.settle()
	return core.StepResult{State: g.State()}
}

// settle records the terminal outcome, if any, and reports whether the
// round is over.
func (g *Game) settle() bool {
	switch {
	case Validate(g.board) != nil:
		// Unreachable through Select/Continue.
		g.outcome = core.OutcomeDraw
	case CheckWinner(g.board) == Player:
		g.outcome = core.OutcomeWin
	case CheckWinner(g.board) == Bot:
		g.outcome = core.OutcomeLose
	case g.board.Full():
		g.outcome = core.OutcomeDraw
	default:
		return false
	}
	return true
}

// Targets returns the number of cells.
func (g *Game) Targets() int { return Cells }

// Board returns a copy of the current board.
func (g *Game) Board() Board { return g.board }

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.plies,
		Outcome:  g.outcome,
		Finished: g.outcome.Terminal(),
		Busy:     g.botTurn,
	}
}
