package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
)

var testPoints = config.PointsConfig{Win: 20, Draw: 10, Lose: 5}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func newTestStore() (*Store, *MemoryKV) {
	kv := NewMemoryKV()
	return NewStore(kv, "", testPoints, WithClock(fixedClock)), kv
}

func TestLoadMissingReturnsDefault(t *testing.T) {
	s, _ := newTestStore()
	p := s.Load()
	if p.VisitCount != 0 || p.TotalScore != 0 || len(p.GamesPlayed) != 0 {
		t.Errorf("Load() = %+v, want default profile", p)
	}
	if p.GamesPlayed == nil {
		t.Error("GamesPlayed should be an empty set, not nil")
	}
	if s.Key() != DefaultKey {
		t.Errorf("Key() = %q, want %q", s.Key(), DefaultKey)
	}
}

func TestLoadCorruptReturnsDefault(t *testing.T) {
	s, kv := newTestStore()
	if err := kv.Set(DefaultKey, "{not json"); err != nil {
		t.Fatal(err)
	}
	p := s.Load()
	if p.VisitCount != 0 || len(p.GamesPlayed) != 0 {
		t.Errorf("Load() on corrupt data = %+v, want default", p)
	}
}

type failingKV struct{}

func (failingKV) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingKV) Set(string, string) error         { return errors.New("disk gone") }

func TestStoreErrors(t *testing.T) {
	s := NewStore(failingKV{}, "k", testPoints)
	if p := s.Load(); p.VisitCount != 0 {
		t.Errorf("Load() = %+v, want default on read error", p)
	}
	if _, err := s.RecordVisit(); err == nil {
		t.Error("RecordVisit() should surface the write error")
	}
}

func TestRecordVisit(t *testing.T) {
	s, _ := newTestStore()

	p, err := s.RecordVisit()
	if err != nil {
		t.Fatal(err)
	}
	if p.VisitCount != 1 {
		t.Errorf("first visit count = %d, want 1", p.VisitCount)
	}
	if !p.LastVisit.Equal(fixedClock()) {
		t.Errorf("LastVisit = %v, want %v", p.LastVisit, fixedClock())
	}
	if got := PersonalizedMessage(p); got != "Welcome! Let's see what you're made of! 🚀" {
		t.Errorf("first visit message = %q", got)
	}

	p, _ = s.RecordVisit()
	if p.VisitCount != 2 {
		t.Errorf("second visit count = %d, want 2", p.VisitCount)
	}
	if got := PersonalizedMessage(p); got != "Ready for your first challenge? 🎯" {
		t.Errorf("second visit message = %q", got)
	}
}

func TestRecordResult(t *testing.T) {
	s, _ := newTestStore()

	tests := []struct {
		id        core.GameID
		outcome   core.Outcome
		wantScore int
		wantPref  core.GameID
		wantGames int
	}{
		{core.GameTicTacToe, core.OutcomeWin, 20, "", 1},
		{core.GameTrivia, core.OutcomeLose, 25, "", 2},
		{core.GameTicTacToe, core.OutcomeDraw, 35, core.GameTicTacToe, 2},
		{core.GameMemory, core.OutcomeWin, 55, core.GameTicTacToe, 3},
		{core.GameMemory, core.OutcomeLose, 60, core.GameMemory, 3},
	}

	for i, tt := range tests {
		p, err := s.RecordResult(tt.id, tt.outcome)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if p.TotalScore != tt.wantScore {
			t.Errorf("step %d: TotalScore = %d, want %d", i, p.TotalScore, tt.wantScore)
		}
		if p.PreferredGameType != tt.wantPref {
			t.Errorf("step %d: PreferredGameType = %q, want %q", i, p.PreferredGameType, tt.wantPref)
		}
		if len(p.GamesPlayed) != tt.wantGames {
			t.Errorf("step %d: GamesPlayed = %v, want %d entries", i, p.GamesPlayed, tt.wantGames)
		}
	}

	// Persisted across loads.
	if p := s.Load(); p.TotalScore != 60 || !p.HasPlayed(core.GameMemory) {
		t.Errorf("reloaded profile = %+v", p)
	}
}

func TestApplyResultIgnoresNonTerminal(t *testing.T) {
	p := New()
	got := ApplyResult(p, core.GameTrivia, core.OutcomeNone, testPoints)
	if got.TotalScore != 0 || len(got.GamesPlayed) != 0 {
		t.Errorf("ApplyResult(None) = %+v, want unchanged", got)
	}
}

func TestApplyResultDoesNotAlias(t *testing.T) {
	p := New()
	p = ApplyResult(p, core.GameTrivia, core.OutcomeWin, testPoints)
	before := p
	_ = ApplyResult(before, core.GameMemory, core.OutcomeWin, testPoints)
	if len(before.GamesPlayed) != 1 || before.PlayCounts[core.GameMemory] != 0 {
		t.Errorf("input profile mutated: %+v", before)
	}
}

func TestReset(t *testing.T) {
	s, _ := newTestStore()
	s.RecordVisit()
	s.RecordResult(core.GameTrivia, core.OutcomeWin)
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if p := s.Load(); p.VisitCount != 0 || p.TotalScore != 0 || len(p.GamesPlayed) != 0 {
		t.Errorf("after Reset = %+v", p)
	}
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Good morning! ☀️"},
		{11, "Good morning! ☀️"},
		{12, "Good afternoon! 🌤️"},
		{16, "Good afternoon! 🌤️"},
		{17, "Good evening! 🌙"},
		{23, "Good evening! 🌙"},
	}
	for _, tt := range tests {
		now := time.Date(2026, 1, 1, tt.hour, 0, 0, 0, time.UTC)
		if got := Greeting(now); got != tt.want {
			t.Errorf("Greeting(%02d:00) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestPersonalizedMessage(t *testing.T) {
	games := []core.GameID{core.GameTicTacToe, core.GameTrivia}
	tests := []struct {
		name string
		p    Profile
		want string
	}{
		{"first visit", Profile{VisitCount: 1, GamesPlayed: games}, "Welcome! Let's see what you're made of! 🚀"},
		{"no games", Profile{VisitCount: 3}, "Ready for your first challenge? 🎯"},
		{"prefers tictactoe", Profile{VisitCount: 3, GamesPlayed: games, PreferredGameType: core.GameTicTacToe}, "Back for more strategic battles? 🧠"},
		{"prefers trivia", Profile{VisitCount: 3, GamesPlayed: games, PreferredGameType: core.GameTrivia}, "Ready to test your knowledge again? 📚"},
		{"prefers memory", Profile{VisitCount: 3, GamesPlayed: games, PreferredGameType: core.GameMemory}, "Time to challenge that memory of yours! 🧩"},
		{"no preference", Profile{VisitCount: 3, GamesPlayed: games}, "Welcome back! You've played 2 games so far! 🎮"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PersonalizedMessage(tt.p); got != tt.want {
				t.Errorf("PersonalizedMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecommendation(t *testing.T) {
	ttt := []core.GameID{core.GameTicTacToe}
	tests := []struct {
		name     string
		p        Profile
		want     string
		wantGame core.GameID
	}{
		{"no games", Profile{}, "🤖 AI Suggests: Start with Tic Tac Toe - it's quick and fun!", core.GameTicTacToe},
		{"sharp, no memory", Profile{GamesPlayed: ttt, TotalScore: 60}, "🤖 AI Suggests: Try Memory Game - you seem sharp enough!", core.GameMemory},
		{"tictactoe only", Profile{GamesPlayed: ttt, TotalScore: 40}, "🤖 AI Suggests: Test your knowledge with our Trivia Quiz!", core.GameTrivia},
		{"low score", Profile{GamesPlayed: []core.GameID{core.GameMemory}, TotalScore: 5}, "🤖 AI Suggests: Practice makes perfect - try again!", ""},
		{"everything else", Profile{GamesPlayed: []core.GameID{core.GameMemory, core.GameTrivia}, TotalScore: 40}, "🤖 AI Suggests: Challenge yourself with a different game!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recommendation(tt.p); got != tt.want {
				t.Errorf("Recommendation() = %q, want %q", got, tt.want)
			}
			if got := RecommendedGame(tt.p); got != tt.wantGame {
				t.Errorf("RecommendedGame() = %q, want %q", got, tt.wantGame)
			}
		})
	}
}

func TestResultMessage(t *testing.T) {
	msgs := config.Default().Messages
	one := []core.GameID{core.GameTicTacToe}
	two := []core.GameID{core.GameTicTacToe, core.GameTrivia}
	tests := []struct {
		name    string
		p       Profile
		outcome core.Outcome
		want    string
	}{
		{"first win", Profile{GamesPlayed: one, TotalScore: 20}, core.OutcomeWin, msgs.FirstWin},
		{"plain win", Profile{GamesPlayed: two, TotalScore: 45}, core.OutcomeWin, msgs.Win},
		{"streak", Profile{GamesPlayed: two, TotalScore: 60}, core.OutcomeWin, msgs.StreakWin},
		{"expert", Profile{GamesPlayed: two, TotalScore: 100}, core.OutcomeWin, msgs.ExpertWin},
		{"lose", Profile{GamesPlayed: one, TotalScore: 5}, core.OutcomeLose, msgs.Lose},
		{"draw", Profile{GamesPlayed: one, TotalScore: 10}, core.OutcomeDraw, msgs.Draw},
		{"none", Profile{}, core.OutcomeNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultMessage(tt.p, tt.outcome, msgs, testPoints); got != tt.want {
				t.Errorf("ResultMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutcomeDetail(t *testing.T) {
	msgs := config.Default().Messages
	if got := OutcomeDetail(core.GameMemory, core.OutcomeWin, msgs); got != msgs.MemoryWin {
		t.Errorf("memory win detail = %q", got)
	}
	if got := OutcomeDetail(core.GameMemory, core.OutcomeLose, msgs); got != msgs.MemoryLose {
		t.Errorf("memory lose detail = %q", got)
	}
	if got := OutcomeDetail(core.GameTrivia, core.OutcomeWin, msgs); got != "" {
		t.Errorf("trivia detail = %q, want empty", got)
	}
}
