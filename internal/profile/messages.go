package profile

import (
	"fmt"
	"time"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
)

// Greeting returns a time-of-day greeting for now's local hour.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning! ☀️"
	case h < 17:
		return "Good afternoon! 🌤️"
	default:
		return "Good evening! 🌙"
	}
}

// PersonalizedMessage returns the selection-screen welcome line.
func PersonalizedMessage(p Profile) string {
	if p.VisitCount == 1 {
		return "Welcome! Let's see what you're made of! 🚀"
	}
	if len(p.GamesPlayed) == 0 {
		return "Ready for your first challenge? 🎯"
	}
	switch p.PreferredGameType {
	case core.GameTicTacToe:
		return "Back for more strategic battles? 🧠"
	case core.GameTrivia:
		return "Ready to test your knowledge again? 📚"
	case core.GameMemory:
		return "Time to challenge that memory of yours! 🧩"
	}
	return fmt.Sprintf("Welcome back! You've played %d games so far! 🎮", len(p.GamesPlayed))
}

// Recommendation suggests the next game. Rules are checked in order and the
// first match wins.
func Recommendation(p Profile) string {
	switch {
	case len(p.GamesPlayed) == 0:
		return "🤖 AI Suggests: Start with Tic Tac Toe - it's quick and fun!"
	case !p.HasPlayed(core.GameMemory) && p.TotalScore > 50:
		return "🤖 AI Suggests: Try Memory Game - you seem sharp enough!"
	case !p.HasPlayed(core.GameTrivia) && p.HasPlayed(core.GameTicTacToe):
		return "🤖 AI Suggests: Test your knowledge with our Trivia Quiz!"
	case p.TotalScore < 30:
		return "🤖 AI Suggests: Practice makes perfect - try again!"
	default:
		return "🤖 AI Suggests: Challenge yourself with a different game!"
	}
}

// RecommendedGame returns the game Recommendation points at, or "" when the
// advice is not about a specific game.
func RecommendedGame(p Profile) core.GameID {
	switch {
	case len(p.GamesPlayed) == 0:
		return core.GameTicTacToe
	case !p.HasPlayed(core.GameMemory) && p.TotalScore > 50:
		return core.GameMemory
	case !p.HasPlayed(core.GameTrivia) && p.HasPlayed(core.GameTicTacToe):
		return core.GameTrivia
	default:
		return ""
	}
}

// ResultMessage returns the call-to-action line for an outcome, given the
// profile after the result was recorded.
func ResultMessage(p Profile, outcome core.Outcome, msgs config.MessagesConfig, points config.PointsConfig) string {
	switch outcome {
	case core.OutcomeWin:
		switch {
		case len(p.GamesPlayed) == 1 && p.TotalScore == points.Win:
			return msgs.FirstWin
		case p.TotalScore >= msgs.ExpertScore:
			return msgs.ExpertWin
		case p.TotalScore >= msgs.StreakScore:
			return msgs.StreakWin
		default:
			return msgs.Win
		}
	case core.OutcomeLose:
		return msgs.Lose
	case core.OutcomeDraw:
		return msgs.Draw
	}
	return ""
}

// OutcomeDetail returns the game-specific line shown with a result, if any.
func OutcomeDetail(id core.GameID, outcome core.Outcome, msgs config.MessagesConfig) string {
	if id != core.GameMemory {
		return ""
	}
	switch outcome {
	case core.OutcomeWin:
		return msgs.MemoryWin
	case core.OutcomeLose:
		return msgs.MemoryLose
	}
	return ""
}
