package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use it for deterministic shuffles and bot choices and for timing.
type RuntimeConfig struct {
	Seed int64            // RNG seed for deterministic gameplay (0 means time-based)
	Now  func() time.Time // Clock used by timed games; nil means time.Now
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Seed: 0, // 0 means use current time in platform layer
		Now:  time.Now,
	}
}

// Clock returns the configured clock, falling back to time.Now.
func (c RuntimeConfig) Clock() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

// GameState represents the current state of a round.
// Returned by Game.State() to communicate status to the session controller.
type GameState struct {
	Score    int     `json:"score"`             // Game-specific progress: correct answers, matched pairs, plies
	Outcome  Outcome `json:"outcome,omitempty"` // Terminal outcome, OutcomeNone while playing
	Finished bool    `json:"finished"`          // Whether the round has ended
	Busy     bool    `json:"busy"`              // Input is locked until a pending followup runs
}

// FollowupKind names a cosmetic delayed step a game asks the driver for.
type FollowupKind string

const (
	FollowupBotMove       FollowupKind = "bot-move"
	FollowupTriviaAdvance FollowupKind = "trivia-advance"
	FollowupMemoryResolve FollowupKind = "memory-resolve"
)

// Followup is a request to call Game.Continue(Kind) after Delay.
type Followup struct {
	Kind  FollowupKind
	Delay time.Duration
}

// StepResult is returned by Game.Select and Game.Continue.
// Contains the updated game state and an optional delayed followup.
type StepResult struct {
	State    GameState
	Followup *Followup
}
