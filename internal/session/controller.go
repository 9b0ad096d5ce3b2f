// Package session implements the game modal's session controller and its
// presentation shell. Both are driver agnostic: the Bubble Tea shell and the
// HTTP API feed them input and schedule the pacing.Deferred values they
// return, handing each token back through Fire once its delay has passed.
package session

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/pacing"
	"github.com/vovakirdan/folio-arcade/internal/profile"
	"github.com/vovakirdan/folio-arcade/internal/registry"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

// Screen is what the modal currently shows: the selection screen or a game.
type Screen string

// ScreenSelection is the game picker.
const ScreenSelection Screen = "selection"

// Errors returned by Controller.
var (
	ErrClosed      = errors.New("session: modal is closed")
	ErrUnknownGame = errors.New("session: unknown game")
)

// ResultLog receives every terminal outcome. *storage.Store implements it.
type ResultLog interface {
	SaveResult(r storage.ResultRecord) (storage.ResultRecord, error)
}

// Factory creates a game by ID. registry.Create is the default.
type Factory func(id core.GameID, cfg config.ModalConfig) (registry.Game, error)

// Controller owns one GameSession: whether the modal is open, which screen
// is active, the running game and its result. It is not safe for concurrent
// use; drivers serialize access.
type Controller struct {
	cfg      config.ModalConfig
	profiles *profile.Store
	results  ResultLog
	visitor  string
	runtime  core.RuntimeConfig
	create   Factory
	log      *log.Logger

	queue pacing.Queue

	open         bool
	screen       Screen
	game         registry.Game
	result       core.Outcome
	resultMsg    string
	resultDetail string
}

// Option configures a Controller.
type Option func(*Controller)

// WithResultLog appends every terminal outcome to l.
func WithResultLog(l ResultLog) Option {
	return func(c *Controller) { c.results = l }
}

// WithVisitor tags logged results with a visitor id.
func WithVisitor(id string) Option {
	return func(c *Controller) { c.visitor = id }
}

// WithRuntime sets the seed and clock handed to games.
func WithRuntime(rt core.RuntimeConfig) Option {
	return func(c *Controller) { c.runtime = rt }
}

// WithFactory replaces the game factory.
func WithFactory(f Factory) Option {
	return func(c *Controller) { c.create = f }
}

// WithLogger sets the logger. Rejected moves are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController creates a closed controller backed by profiles.
func NewController(cfg config.ModalConfig, profiles *profile.Store, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		profiles: profiles,
		runtime:  core.DefaultConfig(),
		create:   registry.Create,
		log:      log.New(io.Discard),
		screen:   ScreenSelection,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open shows the modal on a fresh selection screen.
func (c *Controller) Open() {
	c.discard()
	c.open = true
}

// Close hides the modal and discards the session, including any pending
// deferred step.
func (c *Controller) Close() {
	c.discard()
	c.open = false
}

func (c *Controller) discard() {
	c.queue.Cancel()
	c.screen = ScreenSelection
	c.game = nil
	c.clearResult()
}

func (c *Controller) clearResult() {
	c.result = core.OutcomeNone
	c.resultMsg = ""
	c.resultDetail = ""
}

// IsOpen reports whether the modal is shown.
func (c *Controller) IsOpen() bool { return c.open }

// Screen returns the active screen.
func (c *Controller) Screen() Screen { return c.screen }

// Game returns the running game, or nil on the selection screen.
func (c *Controller) Game() registry.Game { return c.game }

// Result returns the outcome of the current round, OutcomeNone while playing.
func (c *Controller) Result() core.Outcome { return c.result }

// Select starts a fresh round of game id.
func (c *Controller) Select(id core.GameID) error {
	if !c.open {
		return ErrClosed
	}
	if !id.Valid() {
		return ErrUnknownGame
	}
	g, err := c.create(id, c.cfg)
	if err != nil {
		return err
	}
	c.queue.Cancel()
	g.Reset(c.runtime)
	c.game = g
	c.screen = Screen(id)
	c.clearResult()
	c.log.Debug("game selected", "game", id)
	return nil
}

// Back returns to the selection screen, abandoning the current round.
func (c *Controller) Back() {
	if !c.open {
		return
	}
	c.discard()
}

// ResetGame restarts the current game from scratch.
func (c *Controller) ResetGame() {
	if c.game == nil {
		return
	}
	c.queue.Cancel()
	c.game.Reset(c.runtime)
	c.clearResult()
}

// Input forwards the player's choice of target to the running game.
// Rejected choices and input after the round has ended are ignored.
func (c *Controller) Input(index int) []pacing.Deferred {
	if !c.open || c.game == nil || c.result.Terminal() {
		return nil
	}
	step, err := c.game.Select(index)
	if err != nil {
		c.log.Debug("input ignored", "game", c.game.ID(), "index", index, "err", err)
		return nil
	}
	return c.apply(step)
}

// Fire runs a deferred step issued by this controller. Tokens from a
// discarded session are ignored.
func (c *Controller) Fire(tok pacing.Token) []pacing.Deferred {
	if !c.queue.Claim(tok) {
		return nil
	}
	if c.game == nil {
		return nil
	}
	return c.apply(c.game.Continue(core.FollowupKind(tok.Kind)))
}

// Pending returns the number of outstanding deferred steps.
func (c *Controller) Pending() int { return c.queue.Pending() }

func (c *Controller) apply(step core.StepResult) []pacing.Deferred {
	if f := step.Followup; f != nil {
		return []pacing.Deferred{c.queue.Schedule(pacing.Kind(f.Kind), f.Delay)}
	}
	if step.State.Finished && !c.result.Terminal() {
		c.finish(step.State.Outcome)
	}
	return nil
}

func (c *Controller) finish(outcome core.Outcome) {
	id := c.game.ID()
	c.result = outcome

	p, err := c.profiles.RecordResult(id, outcome)
	if err != nil {
		c.log.Warn("cannot save profile", "game", id, "err", err)
	}
	c.resultMsg = profile.ResultMessage(p, outcome, c.cfg.Messages, c.cfg.Points)
	c.resultDetail = profile.OutcomeDetail(id, outcome, c.cfg.Messages)

	points := PointsFor(outcome, c.cfg.Points)
	c.log.Info("round finished", "game", id, "outcome", outcome, "points", points, "total", p.TotalScore)

	if c.results == nil {
		return
	}
	_, err = c.results.SaveResult(storage.ResultRecord{
		GameID:    id,
		Outcome:   outcome,
		Points:    points,
		Visitor:   c.visitor,
		CreatedAt: c.runtime.Clock()(),
	})
	if err != nil {
		c.log.Warn("cannot log result", "game", id, "err", err)
	}
}

// PointsFor returns the profile points awarded for an outcome.
func PointsFor(outcome core.Outcome, points config.PointsConfig) int {
	switch outcome {
	case core.OutcomeWin:
		return points.Win
	case core.OutcomeDraw:
		return points.Draw
	case core.OutcomeLose:
		return points.Lose
	}
	return 0
}

// CallToAction closes the modal and returns the page section the visitor
// should be taken to.
func (c *Controller) CallToAction() string {
	c.Close()
	return c.cfg.Modal.ContactSection
}

// Render draws the running game into dst. It reports false on the selection
// screen, which drivers lay out themselves from View.
func (c *Controller) Render(dst *core.Screen, cursor int) bool {
	if c.game == nil {
		return false
	}
	dst.Clear()
	c.game.Render(dst, cursor)
	return true
}

func (c *Controller) now() time.Time {
	return c.runtime.Clock()()
}
