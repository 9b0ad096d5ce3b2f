// Package profile keeps the visitor's play history in a durable key-value
// record and derives the personalized selection-screen text from it.
package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
)

// DefaultKey is the record key used when none is configured.
const DefaultKey = "gameModalProfile"

// Profile is the persisted play history of one visitor.
type Profile struct {
	GamesPlayed       []core.GameID       `json:"gamesPlayed"` // set, kept sorted
	TotalScore        int                 `json:"totalScore"`
	PreferredGameType core.GameID         `json:"preferredGameType,omitempty"`
	VisitCount        int                 `json:"visitCount"`
	LastVisit         time.Time           `json:"lastVisit"`
	PlayCounts        map[core.GameID]int `json:"playCounts,omitempty"`
}

// New returns the default profile of a visitor never seen before.
func New() Profile {
	return Profile{GamesPlayed: []core.GameID{}}
}

// HasPlayed reports whether id is in the play history.
func (p Profile) HasPlayed(id core.GameID) bool {
	return slices.Contains(p.GamesPlayed, id)
}

// Store reads and writes one visitor's profile through a KV.
// Each call is a synchronous read-modify-write; concurrent writers to the
// same key are last-writer-wins.
type Store struct {
	kv     KV
	key    string
	points config.PointsConfig
	now    func() time.Time
	log    *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for LastVisit.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for storage problems.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates a profile store for key. An empty key uses DefaultKey.
func NewStore(kv KV, key string, points config.PointsConfig, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		kv:     kv,
		key:    key,
		points: points,
		now:    time.Now,
		log:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the record key.
func (s *Store) Key() string { return s.key }

// Load returns the stored profile. A missing, unreadable or corrupt record
// yields a fresh default profile.
func (s *Store) Load() Profile {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.log.Warn("profile read failed, using default", "key", s.key, "err", err)
		return New()
	}
	if !ok {
		return New()
	}

	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Warn("profile corrupt, using default", "key", s.key, "err", err)
		return New()
	}
	if p.GamesPlayed == nil {
		p.GamesPlayed = []core.GameID{}
	}
	if p.TotalScore < 0 {
		p.TotalScore = 0
	}
	return p
}

// Save writes the profile.
func (s *Store) Save(p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("profile: cannot encode: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("profile: cannot save: %w", err)
	}
	return nil
}

// RecordVisit counts a page visit. The first visit yields VisitCount 1.
func (s *Store) RecordVisit() (Profile, error) {
	p := s.Load()
	p.VisitCount++
	p.LastVisit = s.now()
	return p, s.Save(p)
}

// RecordResult applies a terminal outcome of game id: the game joins the
// play history, the outcome's points are added, and once the game has been
// completed at least twice it becomes the preferred game.
func (s *Store) RecordResult(id core.GameID, outcome core.Outcome) (Profile, error) {
	p := s.Load()
	p = ApplyResult(p, id, outcome, s.points)
	return p, s.Save(p)
}

// ApplyResult is the pure form of RecordResult.
func ApplyResult(p Profile, id core.GameID, outcome core.Outcome, points config.PointsConfig) Profile {
	if !outcome.Terminal() {
		return p
	}
	if !p.HasPlayed(id) {
		p.GamesPlayed = append(slices.Clone(p.GamesPlayed), id)
		slices.Sort(p.GamesPlayed)
	}

	switch outcome {
	case core.OutcomeWin:
		p.TotalScore += points.Win
	case core.OutcomeDraw:
		p.TotalScore += points.Draw
	case core.OutcomeLose:
		p.TotalScore += points.Lose
	}

	counts := make(map[core.GameID]int, len(p.PlayCounts)+1)
	for k, v := range p.PlayCounts {
		counts[k] = v
	}
	counts[id]++
	p.PlayCounts = counts
	if counts[id] >= 2 {
		p.PreferredGameType = id
	}
	return p
}

// Reset replaces the stored profile with a fresh default.
func (s *Store) Reset() error {
	return s.Save(New())
}
