package trivia

import (
	"errors"

	"github.com/vovakirdan/folio-arcade/internal/config"
)

var (
	ErrLocked        = errors.New("trivia: question already answered")
	ErrInvalidChoice = errors.New("trivia: no such option")
	ErrFinished      = errors.New("trivia: quiz is over")
)

// State is the progress through a fixed question list.
// Current only increases, reaching len(questions) when the quiz is over.
type State struct {
	Current  int  // index of the active question
	Correct  int  // correct answers so far, at most Current+1
	Answered bool // the active question is locked
	Selected int  // chosen option for the active question, -1 if none
	Finished bool
}

// NewState returns the state at question 0.
func NewState() State {
	return State{Selected: -1}
}

// SubmitAnswer locks the active question with choice and reports whether it
// was correct. The state is returned unchanged with an error when the quiz
// is over, the question is already locked or choice is not an option.
func SubmitAnswer(qs []config.Question, s State, choice int) (State, bool, error) {
	if s.Finished || s.Current >= len(qs) {
		return s, false, ErrFinished
	}
	if s.Answered {
		return s, false, ErrLocked
	}
	q := qs[s.Current]
	if choice < 0 || choice >= len(q.Options) {
		return s, false, ErrInvalidChoice
	}

	s.Answered = true
	s.Selected = choice
	correct := choice == q.Answer
	if correct {
		s.Correct++
	}
	return s, correct, nil
}

// Advance moves past a locked question. After the last question the quiz
// is finished. Unlocked or finished states are returned unchanged.
func Advance(qs []config.Question, s State) State {
	if !s.Answered || s.Finished {
		return s
	}
	s.Current++
	s.Answered = false
	s.Selected = -1
	if s.Current >= len(qs) {
		s.Current = len(qs)
		s.Finished = true
	}
	return s
}

// Percent returns the score as a whole percentage, rounded half up.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (correct*200 + total) / (2 * total)
}

// Passed reports whether correct out of total meets the passing percentage.
// The comparison is exact, so 7 of 10 passes a 70% threshold.
func Passed(correct, total, passing int) bool {
	if total <= 0 {
		return false
	}
	return correct*100 >= passing*total
}
