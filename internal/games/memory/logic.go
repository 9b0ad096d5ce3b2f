package memory

import (
	"errors"
	"math/rand"
	"slices"
	"time"
)

var (
	ErrInvalidCard    = errors.New("memory: no such card")
	ErrAlreadyMatched = errors.New("memory: card already matched")
	ErrAlreadyFlipped = errors.New("memory: card already face up")
	ErrBoardBusy      = errors.New("memory: two cards already face up")
)

// Card is one face of the deck.
type Card struct {
	Symbol  string
	Flipped bool
	Matched bool
}

// State is a memory round. Flipped holds at most two face-up unmatched
// card indices, and MatchedPairs always equals the matched card count / 2.
type State struct {
	Cards        []Card
	Flipped      []int
	MatchedPairs int
	StartedAt    time.Time // zero until the first accepted flip
	FinishedAt   time.Time // zero until the final pair matches
}

// NewDeck duplicates every symbol into a pair and shuffles the result with a
// Fisher-Yates shuffle driven by rng.
func NewDeck(symbols []string, rng *rand.Rand) []Card {
	cards := make([]Card, 0, 2*len(symbols))
	for _, s := range symbols {
		cards = append(cards, Card{Symbol: s}, Card{Symbol: s})
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards
}

// NewState deals a fresh shuffled deck.
func NewState(symbols []string, rng *rand.Rand) State {
	return State{Cards: NewDeck(symbols, rng)}
}

// Pairs returns the number of pairs in the deck.
func (s State) Pairs() int {
	return len(s.Cards) / 2
}

// Complete reports whether every pair has been matched.
func (s State) Complete() bool {
	return len(s.Cards) > 0 && s.MatchedPairs == s.Pairs()
}

// Pending reports whether two cards wait for Resolve.
func (s State) Pending() bool {
	return len(s.Flipped) == 2
}

// PendingMatch reports whether the two face-up cards share a symbol.
func (s State) PendingMatch() bool {
	return s.Pending() && s.Cards[s.Flipped[0]].Symbol == s.Cards[s.Flipped[1]].Symbol
}

// Elapsed returns the time since the first flip, frozen once complete.
func (s State) Elapsed(now time.Time) time.Duration {
	switch {
	case s.StartedAt.IsZero():
		return 0
	case !s.FinishedAt.IsZero():
		return s.FinishedAt.Sub(s.StartedAt)
	default:
		return now.Sub(s.StartedAt)
	}
}

// FlipCard turns card id face up. The first accepted flip starts the timer.
func FlipCard(s State, id int, now time.Time) (State, error) {
	if id < 0 || id >= len(s.Cards) {
		return s, ErrInvalidCard
	}
	if s.Cards[id].Matched {
		return s, ErrAlreadyMatched
	}
	if slices.Contains(s.Flipped, id) {
		return s, ErrAlreadyFlipped
	}
	if s.Pending() {
		return s, ErrBoardBusy
	}

	s.Cards = slices.Clone(s.Cards)
	s.Cards[id].Flipped = true
	s.Flipped = append(slices.Clone(s.Flipped), id)
	if s.StartedAt.IsZero() {
		s.StartedAt = now
	}
	return s, nil
}

// Resolve settles two face-up cards: equal symbols become matched, others
// flip back. Matching the final pair stops the timer at now.
func Resolve(s State, now time.Time) State {
	if !s.Pending() {
		return s
	}
	a, b := s.Flipped[0], s.Flipped[1]
	s.Cards = slices.Clone(s.Cards)

	if s.Cards[a].Symbol == s.Cards[b].Symbol {
		s.Cards[a].Matched = true
		s.Cards[b].Matched = true
		s.MatchedPairs++
		if s.Complete() {
			s.FinishedAt = now
		}
	} else {
		s.Cards[a].Flipped = false
		s.Cards[b].Flipped = false
	}
	s.Flipped = nil
	return s
}
