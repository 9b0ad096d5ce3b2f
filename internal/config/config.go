// Package config provides YAML-based configuration loading for the game
// modal and its collaborators. One immutable ModalConfig enumerates every
// recognized option; anything missing from a file keeps its default.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ModalConfig contains all configuration for the modal, its games and the
// chatbot and booking relays.
type ModalConfig struct {
	Modal     ModalSection    `yaml:"modal"`
	Points    PointsConfig    `yaml:"points"`
	Messages  MessagesConfig  `yaml:"messages"`
	TicTacToe TicTacToeConfig `yaml:"tic_tac_toe"`
	Trivia    TriviaConfig    `yaml:"trivia"`
	Memory    MemoryConfig    `yaml:"memory"`
	Chatbot   ChatbotConfig   `yaml:"chatbot"`
	Booking   BookingConfig   `yaml:"booking"`
	Server    ServerConfig    `yaml:"server"`
}

// ModalSection defines shell timers and the call to action.
type ModalSection struct {
	AutoOpenDelay    time.Duration `yaml:"auto_open_delay"`
	TriggerShowAfter time.Duration `yaml:"trigger_show_after"`
	TriggerHideAfter time.Duration `yaml:"trigger_hide_after"`
	CTAText          string        `yaml:"cta_text"`
	ContactSection   string        `yaml:"contact_section"`
	ProfileKey       string        `yaml:"profile_key"`
	SessionFlagKey   string        `yaml:"session_flag_key"`
}

// PointsConfig defines the score awarded per terminal outcome.
type PointsConfig struct {
	Win  int `yaml:"win"`
	Draw int `yaml:"draw"`
	Lose int `yaml:"lose"`
}

// MessagesConfig defines result lines shown after a round.
type MessagesConfig struct {
	Win        string `yaml:"win"`
	Lose       string `yaml:"lose"`
	Draw       string `yaml:"draw"`
	MemoryWin  string `yaml:"memory_win"`
	MemoryLose string `yaml:"memory_lose"`
	FirstWin   string `yaml:"first_win"`
	StreakWin  string `yaml:"streak_win"`
	ExpertWin  string `yaml:"expert_win"`

	StreakScore int `yaml:"streak_score"` // total score at which a win counts as a streak
	ExpertScore int `yaml:"expert_score"` // total score at which a win counts as expert
}

// GameInfo is the selection-screen card for one game.
type GameInfo struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description"`
}

// TicTacToeConfig defines the tic-tac-toe card and bot pacing.
type TicTacToeConfig struct {
	Info     GameInfo      `yaml:"info"`
	BotDelay time.Duration `yaml:"bot_delay"`
}

// Question is one trivia question. Answer indexes Options.
type Question struct {
	Text    string   `yaml:"q"`
	Options []string `yaml:"options"`
	Answer  int      `yaml:"answer"`
}

// TriviaConfig defines the question list and pass threshold.
type TriviaConfig struct {
	Info         GameInfo      `yaml:"info"`
	PassingScore int           `yaml:"passing_score"` // percentage
	RevealDelay  time.Duration `yaml:"reveal_delay"`
	Questions    []Question    `yaml:"questions"`
}

// MemoryConfig defines the card symbols, timing and win threshold.
type MemoryConfig struct {
	Info          GameInfo      `yaml:"info"`
	GoodScoreTime time.Duration `yaml:"good_score_time"`
	MatchDelay    time.Duration `yaml:"match_delay"`
	MismatchDelay time.Duration `yaml:"mismatch_delay"`
	Symbols       []string      `yaml:"symbols"` // distinct symbols, each becomes a pair
}

// ChatbotConfig defines the generative-language client and canned replies.
type ChatbotConfig struct {
	Endpoint          string        `yaml:"endpoint"`
	Model             string        `yaml:"model"`
	Timeout           time.Duration `yaml:"timeout"`
	SystemPrompt      string        `yaml:"system_prompt"`
	FallbackResponses []string      `yaml:"fallback_responses"`
	APIKey            string        `yaml:"-"` // GEMINI_API_KEY
}

// BookingConfig defines the appointment and contact relays.
type BookingConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	ContactEndpoint string        `yaml:"contact_endpoint"`
	Timeout         time.Duration `yaml:"timeout"`
	Timezone        string        `yaml:"timezone"`   // IANA name slots are offered in
	StartHour       int           `yaml:"start_hour"` // first bookable hour
	EndHour         int           `yaml:"end_hour"`   // appointments end by this hour
}

// ServerConfig defines listen addresses and the database location.
type ServerConfig struct {
	SSHAddr     string `yaml:"ssh_addr"`
	HTTPAddr    string `yaml:"http_addr"`
	HostKeyPath string `yaml:"host_key_path"`
	DBPath      string `yaml:"db_path"`
}

// Validation errors.
var (
	ErrNoQuestions   = errors.New("config: trivia needs at least one question")
	ErrBadAnswer     = errors.New("config: trivia answer index out of range")
	ErrNoSymbols     = errors.New("config: memory needs at least one symbol")
	ErrDupSymbol     = errors.New("config: memory symbols must be distinct")
	ErrPassingScore  = errors.New("config: trivia passing_score must be within 0..100")
	ErrNegativeDelay = errors.New("config: delays must not be negative")
	ErrNegativePoint = errors.New("config: points must not be negative")
	ErrBookingHours  = errors.New("config: booking hours must satisfy 0 <= start_hour < end_hour <= 24")
)

// Validate rejects configurations the games cannot run with.
func (c ModalConfig) Validate() error {
	if len(c.Trivia.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range c.Trivia.Questions {
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return fmt.Errorf("%w: question %d", ErrBadAnswer, i+1)
		}
	}
	if c.Trivia.PassingScore < 0 || c.Trivia.PassingScore > 100 {
		return ErrPassingScore
	}

	if len(c.Memory.Symbols) == 0 {
		return ErrNoSymbols
	}
	seen := make(map[string]bool, len(c.Memory.Symbols))
	for _, s := range c.Memory.Symbols {
		if seen[s] {
			return fmt.Errorf("%w: %q", ErrDupSymbol, s)
		}
		seen[s] = true
	}

	for _, d := range []time.Duration{
		c.Modal.AutoOpenDelay, c.Modal.TriggerShowAfter, c.Modal.TriggerHideAfter,
		c.TicTacToe.BotDelay, c.Trivia.RevealDelay,
		c.Memory.MatchDelay, c.Memory.MismatchDelay, c.Memory.GoodScoreTime,
	} {
		if d < 0 {
			return ErrNegativeDelay
		}
	}

	if c.Points.Win < 0 || c.Points.Draw < 0 || c.Points.Lose < 0 {
		return ErrNegativePoint
	}
	if c.Booking.StartHour < 0 || c.Booking.StartHour >= c.Booking.EndHour || c.Booking.EndHour > 24 {
		return ErrBookingHours
	}
	return nil
}
