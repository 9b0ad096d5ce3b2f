package session

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/games/memory"
	"github.com/vovakirdan/folio-arcade/internal/games/tictactoe"
	"github.com/vovakirdan/folio-arcade/internal/games/trivia"
	"github.com/vovakirdan/folio-arcade/internal/pacing"
	"github.com/vovakirdan/folio-arcade/internal/profile"
	"github.com/vovakirdan/folio-arcade/internal/registry"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
}

type memoryLog struct {
	records []storage.ResultRecord
	err     error
}

func (l *memoryLog) SaveResult(r storage.ResultRecord) (storage.ResultRecord, error) {
	if l.err != nil {
		return storage.ResultRecord{}, l.err
	}
	l.records = append(l.records, r)
	return r, nil
}

// scriptedTicTacToe is a tic-tac-toe round whose bot always answers on the
// middle row, so the player can take the top row.
type scriptedTicTacToe struct {
	board   tictactoe.Board
	outcome core.Outcome
	botTurn bool
	replies []int
}

func (g *scriptedTicTacToe) ID() core.GameID { return core.GameTicTacToe }

func (g *scriptedTicTacToe) Info() config.GameInfo {
	return config.Default().TicTacToe.Info
}

func (g *scriptedTicTacToe) Reset(core.RuntimeConfig) {
	*g = scriptedTicTacToe{replies: []int{3, 4, 5}}
}

func (g *scriptedTicTacToe) Select(cell int) (core.StepResult, error) {
	if g.botTurn {
		return core.StepResult{State: g.State()}, tictactoe.ErrBotTurn
	}
	next, err := tictactoe.ApplyPlayerMove(g.board, cell)
	if err != nil {
		return core.StepResult{State: g.State()}, err
	}
	g.board = next
	if tictactoe.CheckWinner(g.board) == tictactoe.Player {
		g.outcome = core.OutcomeWin
		return core.StepResult{State: g.State()}, nil
	}
	g.botTurn = true
	return core.StepResult{
		State:    g.State(),
		Followup: &core.Followup{Kind: core.FollowupBotMove, Delay: 500 * time.Millisecond},
	}, nil
}

func (g *scriptedTicTacToe) Continue(kind core.FollowupKind) core.StepResult {
	if kind == core.FollowupBotMove && g.botTurn {
		g.board[g.replies[0]] = tictactoe.Bot
		g.replies = g.replies[1:]
		g.botTurn = false
	}
	return core.StepResult{State: g.State()}
}

func (g *scriptedTicTacToe) Targets() int { return tictactoe.Cells }

func (g *scriptedTicTacToe) Render(*core.Screen, int) {}

func (g *scriptedTicTacToe) View() any { return g.board }

func (g *scriptedTicTacToe) State() core.GameState {
	return core.GameState{Outcome: g.outcome, Finished: g.outcome.Terminal(), Busy: g.botTurn}
}

func scriptedFactory(id core.GameID, cfg config.ModalConfig) (registry.Game, error) {
	if id == core.GameTicTacToe {
		return &scriptedTicTacToe{}, nil
	}
	return registry.Create(id, cfg)
}

type fixture struct {
	cfg      config.ModalConfig
	clock    *fakeClock
	profiles *profile.Store
	results  *memoryLog
	ctrl     *Controller
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		cfg:     config.Default(),
		clock:   newClock(),
		results: &memoryLog{},
	}
	f.profiles = profile.NewStore(profile.NewMemoryKV(), "", f.cfg.Points, profile.WithClock(f.clock.Now))
	base := []Option{
		WithRuntime(core.RuntimeConfig{Seed: 7, Now: f.clock.Now}),
		WithResultLog(f.results),
		WithVisitor("visitor-1"),
	}
	f.ctrl = NewController(f.cfg, f.profiles, append(base, opts...)...)
	return f
}

// fireAll fires deferred steps in order until none are left.
func fireAll(c *Controller, pending []pacing.Deferred) {
	for len(pending) > 0 {
		d := pending[0]
		pending = append(pending[1:], c.Fire(d.Token)...)
	}
}

func TestSelectRequiresOpen(t *testing.T) {
	f := newFixture(t)
	if err := f.ctrl.Select(core.GameTrivia); !errors.Is(err, ErrClosed) {
		t.Errorf("Select on closed modal = %v, expected ErrClosed", err)
	}
	f.ctrl.Open()
	if err := f.ctrl.Select("pong"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Select(pong) = %v, expected ErrUnknownGame", err)
	}
	if f.ctrl.Screen() != ScreenSelection {
		t.Errorf("screen = %q, expected selection", f.ctrl.Screen())
	}
}

func TestTicTacToeTopRowWin(t *testing.T) {
	f := newFixture(t, WithFactory(scriptedFactory))
	f.ctrl.Open()
	if err := f.ctrl.Select(core.GameTicTacToe); err != nil {
		t.Fatal(err)
	}
	if f.ctrl.Screen() != Screen(core.GameTicTacToe) {
		t.Fatalf("screen = %q", f.ctrl.Screen())
	}

	for _, cell := range []int{0, 1, 2} {
		fireAll(f.ctrl, f.ctrl.Input(cell))
	}

	g := f.ctrl.Game().(*scriptedTicTacToe)
	if got := tictactoe.CheckWinner(g.board); got != tictactoe.Player {
		t.Errorf("CheckWinner = %v, expected player", got)
	}
	if f.ctrl.Result() != core.OutcomeWin {
		t.Errorf("result = %q, expected win", f.ctrl.Result())
	}

	p := f.profiles.Load()
	if p.TotalScore != 20 {
		t.Errorf("TotalScore = %d, expected 20", p.TotalScore)
	}

	v := f.ctrl.View()
	if v.ResultMessage != f.cfg.Messages.FirstWin {
		t.Errorf("result message = %q, expected first-win line", v.ResultMessage)
	}
	if v.CTA != f.cfg.Modal.CTAText {
		t.Errorf("CTA = %q", v.CTA)
	}
	if v.Header != "🎯 Tic Tac Toe" {
		t.Errorf("header = %q", v.Header)
	}

	if len(f.results.records) != 1 {
		t.Fatalf("logged %d results, expected 1", len(f.results.records))
	}
	r := f.results.records[0]
	if r.GameID != core.GameTicTacToe || r.Outcome != core.OutcomeWin || r.Points != 20 || r.Visitor != "visitor-1" {
		t.Errorf("logged record = %+v", r)
	}

	// Input after the round is over is ignored.
	if d := f.ctrl.Input(8); d != nil {
		t.Errorf("input after result returned %v", d)
	}
}

func TestInvalidInputIgnored(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.Select(core.GameTicTacToe)

	d := f.ctrl.Input(4)
	if len(d) != 1 || d[0].Token.Kind != pacing.Kind(core.FollowupBotMove) {
		t.Fatalf("first move returned %+v, expected a bot-move step", d)
	}
	if d[0].Delay != f.cfg.TicTacToe.BotDelay {
		t.Errorf("bot delay = %v, expected %v", d[0].Delay, f.cfg.TicTacToe.BotDelay)
	}

	// The bot is thinking: further input is swallowed.
	if got := f.ctrl.Input(0); got != nil {
		t.Errorf("input during bot turn returned %v", got)
	}
	fireAll(f.ctrl, d)

	// Occupied cell.
	if got := f.ctrl.Input(4); got != nil {
		t.Errorf("occupied cell returned %v", got)
	}
	if f.ctrl.Result() != core.OutcomeNone {
		t.Errorf("result = %q after ignored input", f.ctrl.Result())
	}
}

func TestTicTacToeAlwaysTerminates(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.Select(core.GameTicTacToe)

	for ply := 0; ply < tictactoe.Cells && !f.ctrl.Result().Terminal(); ply++ {
		g := f.ctrl.Game().(*tictactoe.Game)
		free := g.Board().FreeCells()
		fireAll(f.ctrl, f.ctrl.Input(free[0]))
	}
	if !f.ctrl.Result().Terminal() {
		t.Fatal("round did not terminate within 9 plies")
	}
	if len(f.results.records) != 1 {
		t.Errorf("logged %d results, expected 1", len(f.results.records))
	}
}

func TestTriviaAllWrongLoses(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	if err := f.ctrl.Select(core.GameTrivia); err != nil {
		t.Fatal(err)
	}

	qs := f.cfg.Trivia.Questions
	for i := 0; i < len(qs); i++ {
		g := f.ctrl.Game().(*trivia.Game)
		q := qs[g.Progress().Current]
		d := f.ctrl.Input((q.Answer + 1) % len(q.Options))
		if len(d) != 1 || d[0].Delay != f.cfg.Trivia.RevealDelay {
			t.Fatalf("question %d: expected one reveal step, got %+v", i, d)
		}
		fireAll(f.ctrl, d)
	}

	if f.ctrl.Result() != core.OutcomeLose {
		t.Errorf("result = %q, expected lose", f.ctrl.Result())
	}
	if pct := f.ctrl.Game().(*trivia.Game).Percent(); pct != 0 {
		t.Errorf("percent = %d, expected 0", pct)
	}
	if p := f.profiles.Load(); p.TotalScore != 5 {
		t.Errorf("TotalScore = %d, expected 5", p.TotalScore)
	}
	if v := f.ctrl.View(); v.ResultMessage != f.cfg.Messages.Lose {
		t.Errorf("result message = %q", v.ResultMessage)
	}
}

// solveMemory matches every pair, advancing the clock by total just before
// the final pair resolves.
func solveMemory(t *testing.T, f *fixture, total time.Duration) {
	t.Helper()
	g := f.ctrl.Game().(*memory.Game)
	pairs := map[string][]int{}
	for i, c := range g.Progress().Cards {
		pairs[c.Symbol] = append(pairs[c.Symbol], i)
	}

	n := 0
	for _, ids := range pairs {
		n++
		f.ctrl.Input(ids[0])
		d := f.ctrl.Input(ids[1])
		if len(d) != 1 || d[0].Delay != f.cfg.Memory.MatchDelay {
			t.Fatalf("expected one match step, got %+v", d)
		}
		if n == len(pairs) {
			f.clock.Advance(total)
		}
		fireAll(f.ctrl, d)
	}
}

func TestMemoryTiming(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    core.Outcome
		detail  string
	}{
		{"45 seconds wins", 45 * time.Second, core.OutcomeWin, config.Default().Messages.MemoryWin},
		{"120 seconds loses", 120 * time.Second, core.OutcomeLose, config.Default().Messages.MemoryLose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ctrl.Open()
			if err := f.ctrl.Select(core.GameMemory); err != nil {
				t.Fatal(err)
			}
			solveMemory(t, f, tt.elapsed)

			if f.ctrl.Result() != tt.want {
				t.Errorf("result = %q, expected %q", f.ctrl.Result(), tt.want)
			}
			g := f.ctrl.Game().(*memory.Game)
			if g.Progress().MatchedPairs != 8 {
				t.Errorf("matched pairs = %d, expected 8", g.Progress().MatchedPairs)
			}
			if v := f.ctrl.View(); v.ResultDetail != tt.detail {
				t.Errorf("result detail = %q, expected %q", v.ResultDetail, tt.detail)
			}
		})
	}
}

func TestCloseDiscardsPendingSteps(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.Select(core.GameTicTacToe)

	d := f.ctrl.Input(0)
	if len(d) != 1 {
		t.Fatalf("expected a bot step, got %v", d)
	}
	f.ctrl.Close()

	if f.ctrl.IsOpen() || f.ctrl.Game() != nil || f.ctrl.Screen() != ScreenSelection {
		t.Errorf("Close left state behind: open=%v screen=%q", f.ctrl.IsOpen(), f.ctrl.Screen())
	}
	if got := f.ctrl.Fire(d[0].Token); got != nil {
		t.Errorf("stale token fired: %v", got)
	}
	if f.ctrl.Pending() != 0 {
		t.Errorf("Pending() = %d after Close", f.ctrl.Pending())
	}
}

func TestBackAndResetCancelSteps(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.Select(core.GameTicTacToe)

	d := f.ctrl.Input(0)
	f.ctrl.ResetGame()
	f.ctrl.Fire(d[0].Token)
	g := f.ctrl.Game().(*tictactoe.Game)
	if g.Board() != (tictactoe.Board{}) {
		t.Errorf("board after reset = %v, expected empty", g.Board())
	}

	d = f.ctrl.Input(0)
	f.ctrl.Back()
	if f.ctrl.Fire(d[0].Token) != nil || f.ctrl.Game() != nil {
		t.Error("Back should discard the round and its pending steps")
	}
	if !f.ctrl.IsOpen() {
		t.Error("Back should keep the modal open")
	}
}

func TestPreferredAfterThreeRounds(t *testing.T) {
	f := newFixture(t, WithFactory(scriptedFactory))
	f.ctrl.Open()
	for round := 0; round < 3; round++ {
		if err := f.ctrl.Select(core.GameTicTacToe); err != nil {
			t.Fatal(err)
		}
		for _, cell := range []int{0, 1, 2} {
			fireAll(f.ctrl, f.ctrl.Input(cell))
		}
	}

	p := f.profiles.Load()
	if p.PreferredGameType != core.GameTicTacToe {
		t.Errorf("preferred = %q, expected tic-tac-toe", p.PreferredGameType)
	}
	if p.TotalScore != 60 || len(p.GamesPlayed) != 1 {
		t.Errorf("profile = %+v", p)
	}
	if v := f.ctrl.View(); v.ResultMessage != f.cfg.Messages.StreakWin {
		t.Errorf("third win message = %q, expected streak", v.ResultMessage)
	}
}

func TestResultLogFailureIsBestEffort(t *testing.T) {
	f := newFixture(t, WithFactory(scriptedFactory))
	f.results.err = errors.New("db locked")
	f.ctrl.Open()
	f.ctrl.Select(core.GameTicTacToe)
	for _, cell := range []int{0, 1, 2} {
		fireAll(f.ctrl, f.ctrl.Input(cell))
	}
	if f.ctrl.Result() != core.OutcomeWin {
		t.Errorf("result = %q, expected win despite log failure", f.ctrl.Result())
	}
	if f.profiles.Load().TotalScore != 20 {
		t.Error("profile should still be updated")
	}
}

func TestSelectionView(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()

	v := f.ctrl.View()
	if v.Header != SelectionHeader {
		t.Errorf("header = %q", v.Header)
	}
	if v.Greeting != "Good morning! ☀️" {
		t.Errorf("greeting = %q", v.Greeting)
	}
	if v.RecommendedGame != core.GameTicTacToe {
		t.Errorf("recommended = %q", v.RecommendedGame)
	}
	if len(v.Games) != 3 || v.Games[0].ID != core.GameTicTacToe || v.Games[2].Icon != "🧩" {
		t.Errorf("games = %+v", v.Games)
	}
	if v.State != nil || v.Game != nil {
		t.Error("selection view should not carry game state")
	}
}

func TestCallToAction(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.Select(core.GameTrivia)

	if got := f.ctrl.CallToAction(); got != "contact" {
		t.Errorf("CallToAction() = %q, expected contact", got)
	}
	if f.ctrl.IsOpen() {
		t.Error("CallToAction should close the modal")
	}
}

func TestPointsFor(t *testing.T) {
	points := config.Default().Points
	tests := []struct {
		outcome core.Outcome
		want    int
	}{
		{core.OutcomeWin, 20},
		{core.OutcomeDraw, 10},
		{core.OutcomeLose, 5},
		{core.OutcomeNone, 0},
	}
	for _, tt := range tests {
		if got := PointsFor(tt.outcome, points); got != tt.want {
			t.Errorf("PointsFor(%q) = %d, expected %d", tt.outcome, got, tt.want)
		}
	}
}
