package memory

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func symbols() []string {
	return config.Default().Memory.Symbols
}

func newTestGame(seed int64, clk *fakeClock) *Game {
	g := New(config.Default().Memory)
	g.Reset(core.RuntimeConfig{Seed: seed, Now: clk.Now})
	return g
}

// pairIndex maps each symbol to its two card indices.
func pairIndex(cards []Card) map[string][]int {
	idx := map[string][]int{}
	for i, c := range cards {
		idx[c.Symbol] = append(idx[c.Symbol], i)
	}
	return idx
}

func TestNewDeckPairs(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		cards := NewDeck(symbols(), rand.New(rand.NewSource(seed)))
		if len(cards) != 16 {
			t.Fatalf("deck has %d cards, expected 16", len(cards))
		}
		for sym, ids := range pairIndex(cards) {
			if len(ids) != 2 {
				t.Errorf("seed %d: symbol %s appears %d times", seed, sym, len(ids))
			}
		}
	}
}

func TestNewDeckDeterministic(t *testing.T) {
	a := NewDeck(symbols(), rand.New(rand.NewSource(5)))
	b := NewDeck(symbols(), rand.New(rand.NewSource(5)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different decks at %d", i)
		}
	}
}

func TestFlipCardErrors(t *testing.T) {
	now := time.Now()
	s := NewState(symbols(), rand.New(rand.NewSource(3)))
	idx := pairIndex(s.Cards)

	if _, err := FlipCard(s, 16, now); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("flip out of range = %v, expected ErrInvalidCard", err)
	}

	s, err := FlipCard(s, 0, now)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FlipCard(s, 0, now); !errors.Is(err, ErrAlreadyFlipped) {
		t.Errorf("flip same card = %v, expected ErrAlreadyFlipped", err)
	}

	// Flip the partner of card 0 and resolve into a match.
	ids := idx[s.Cards[0].Symbol]
	partner := ids[0]
	if partner == 0 {
		partner = ids[1]
	}
	s, _ = FlipCard(s, partner, now)

	other := 0
	for other == 0 || other == partner {
		other++
	}
	if _, err := FlipCard(s, other, now); !errors.Is(err, ErrBoardBusy) {
		t.Errorf("third flip = %v, expected ErrBoardBusy", err)
	}

	s = Resolve(s, now)
	if _, err := FlipCard(s, 0, now); !errors.Is(err, ErrAlreadyMatched) {
		t.Errorf("flip matched card = %v, expected ErrAlreadyMatched", err)
	}
}

func TestFlipDoesNotMutateInput(t *testing.T) {
	s := NewState(symbols(), rand.New(rand.NewSource(3)))
	if _, err := FlipCard(s, 4, time.Now()); err != nil {
		t.Fatal(err)
	}
	if s.Cards[4].Flipped || len(s.Flipped) != 0 {
		t.Error("FlipCard must not modify the caller's state")
	}
}

func TestMismatchFlipsBack(t *testing.T) {
	clk := newClock()
	g := newTestGame(11, clk)
	idx := pairIndex(g.state.Cards)

	first := g.state.Cards[0].Symbol
	var mismatch int
	for sym, ids := range idx {
		if sym != first {
			mismatch = ids[0]
			break
		}
	}

	g.Select(0)
	res, err := g.Select(mismatch)
	if err != nil {
		t.Fatal(err)
	}
	if res.Followup == nil || res.Followup.Delay != time.Second {
		t.Fatalf("mismatch followup = %+v, expected 1s resolve", res.Followup)
	}
	if !res.State.Busy {
		t.Error("two face-up cards should make the game busy")
	}

	g.Continue(core.FollowupMemoryResolve)
	if g.state.Cards[0].Flipped || g.state.Cards[mismatch].Flipped {
		t.Error("mismatched cards should flip back")
	}
	if g.state.MatchedPairs != 0 {
		t.Errorf("MatchedPairs = %d, expected 0", g.state.MatchedPairs)
	}
}

// solve matches every pair. Each pair resolves step after it was flipped,
// so the final pair resolves 8*step after the first flip.
func solve(t *testing.T, g *Game, clk *fakeClock, step time.Duration) core.StepResult {
	t.Helper()
	var res core.StepResult
	for _, ids := range pairIndex(g.state.Cards) {
		if _, err := g.Select(ids[0]); err != nil {
			t.Fatal(err)
		}
		r, err := g.Select(ids[1])
		if err != nil {
			t.Fatal(err)
		}
		if r.Followup == nil || r.Followup.Delay != 500*time.Millisecond {
			t.Fatalf("match followup = %+v, expected 500ms resolve", r.Followup)
		}
		clk.Advance(step)
		res = g.Continue(r.Followup.Kind)
		matched := 0
		for _, c := range g.state.Cards {
			if c.Matched {
				matched++
			}
		}
		if g.state.MatchedPairs != matched/2 || g.state.MatchedPairs > 8 {
			t.Fatalf("MatchedPairs = %d with %d matched cards", g.state.MatchedPairs, matched)
		}
	}
	return res
}

func TestEveryShuffleIsSolvable(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		clk := newClock()
		g := newTestGame(seed, clk)
		res := solve(t, g, clk, time.Second)
		if g.state.MatchedPairs != 8 {
			t.Errorf("seed %d: MatchedPairs = %d, expected 8", seed, g.state.MatchedPairs)
		}
		if !res.State.Finished {
			t.Errorf("seed %d: game should be finished", seed)
		}
	}
}

func TestCompletedIn45SecondsWins(t *testing.T) {
	clk := newClock()
	g := newTestGame(7, clk)
	res := solve(t, g, clk, 45*time.Second/8)

	if elapsed := g.Elapsed(); elapsed != 45*time.Second {
		t.Fatalf("elapsed = %v, expected 45s", elapsed)
	}
	if res.State.Outcome != core.OutcomeWin {
		t.Errorf("outcome = %q, expected win", res.State.Outcome)
	}
}

func TestCompletedIn120SecondsLoses(t *testing.T) {
	clk := newClock()
	g := newTestGame(7, clk)
	res := solve(t, g, clk, 15*time.Second)

	if elapsed := g.Elapsed(); elapsed != 120*time.Second {
		t.Fatalf("elapsed = %v, expected 120s", elapsed)
	}
	clk.Advance(time.Hour)
	if g.Elapsed() != 120*time.Second {
		t.Error("timer should stop when the final pair matches")
	}
	if res.State.Outcome != core.OutcomeLose {
		t.Errorf("outcome = %q, expected lose", res.State.Outcome)
	}
}

func TestExactThresholdWins(t *testing.T) {
	clk := newClock()
	g := newTestGame(9, clk)
	pairs := pairIndex(g.state.Cards)

	var last []int
	first := true
	for _, ids := range pairs {
		if first {
			first = false
			g.Select(ids[0])
			g.Select(ids[1])
			g.Continue(core.FollowupMemoryResolve)
			continue
		}
		if last == nil {
			last = ids
			continue
		}
		g.Select(ids[0])
		g.Select(ids[1])
		g.Continue(core.FollowupMemoryResolve)
	}

	clk.Advance(90 * time.Second)
	g.Select(last[0])
	g.Select(last[1])
	res := g.Continue(core.FollowupMemoryResolve)
	if res.State.Outcome != core.OutcomeWin {
		t.Errorf("completing at exactly 90s = %q, expected win", res.State.Outcome)
	}
}

func TestTimerStartsOnFirstFlip(t *testing.T) {
	clk := newClock()
	g := newTestGame(2, clk)

	clk.Advance(time.Minute)
	if g.Elapsed() != 0 {
		t.Error("timer should not run before the first flip")
	}
	g.Select(0)
	clk.Advance(3 * time.Second)
	if g.Elapsed() != 3*time.Second {
		t.Errorf("Elapsed() = %v, expected 3s", g.Elapsed())
	}
}

func TestSnapshotHidesFaceDownCards(t *testing.T) {
	g := newTestGame(4, newClock())
	g.Select(3)
	s := g.Snapshot()
	for i, c := range s.Cards {
		if i == 3 && c.Symbol == "" {
			t.Error("flipped card should show its symbol")
		}
		if i != 3 && c.Symbol != "" {
			t.Errorf("face-down card %d leaks its symbol", i)
		}
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(4, newClock())
	screen := core.NewScreen(52, 14)
	g.Render(screen, 0)

	out := screen.String()
	if !strings.Contains(out, "0/8") {
		t.Errorf("HUD missing:\n%s", out)
	}
	if !strings.Contains(out, "Match all pairs in under 90 seconds to win!") {
		t.Errorf("intro missing:\n%s", out)
	}
	if strings.Count(out, "░░") != 16 {
		t.Errorf("expected 16 face-down cards:\n%s", out)
	}
}

func TestRenderWrapsIntroOnNarrowScreen(t *testing.T) {
	g := newTestGame(4, newClock())
	screen := core.NewScreen(24, 14)
	g.Render(screen, 0)

	var rows []string
	for y := 0; y < screen.Height(); y++ {
		rows = append(rows, strings.TrimSpace(screen.Row(y)))
	}
	out := strings.Join(rows, " ")
	if !strings.Contains(out, "Match all pairs in under 90 seconds to win!") {
		t.Errorf("wrapped intro missing:\n%s", screen.String())
	}
}
