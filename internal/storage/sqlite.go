// Package storage provides SQLite-based persistence for visitor profiles and
// the game results log.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/folio-arcade/internal/config"
	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/profile"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ResultRecord is one terminal outcome in the results log.
type ResultRecord struct {
	ID        string       `json:"id"`
	GameID    core.GameID  `json:"gameId"`
	Outcome   core.Outcome `json:"outcome"`
	Points    int          `json:"points"`
	Visitor   string       `json:"-"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			visitor TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_game_id ON results(game_id);
		CREATE INDEX IF NOT EXISTS idx_results_visitor ON results(visitor);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get implements profile.KV.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements profile.KV.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete key %q: %w", key, err)
	}
	return nil
}

var _ profile.KV = (*Store)(nil)

// SaveResult appends a result to the log. A missing ID is generated and a
// zero CreatedAt becomes the current time. Returns the stored record.
func (s *Store) SaveResult(r ResultRecord) (ResultRecord, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()

	_, err := s.db.Exec(
		`INSERT INTO results (id, game_id, outcome, points, visitor, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.GameID), string(r.Outcome), r.Points, r.Visitor, r.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return ResultRecord{}, fmt.Errorf("storage: cannot save result: %w", err)
	}
	return r, nil
}

// RecentResults returns the newest results, optionally limited to one game.
// An empty gameID means all games.
func (s *Store) RecentResults(gameID core.GameID, limit int) ([]ResultRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, outcome, points, visitor, created_at
		 FROM results
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		string(gameID), string(gameID), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// VisitorResults returns the newest results of one visitor.
func (s *Store) VisitorResults(visitor string, limit int) ([]ResultRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, outcome, points, visitor, created_at
		 FROM results
		 WHERE visitor = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		visitor, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query visitor results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]ResultRecord, error) {
	var results []ResultRecord
	for rows.Next() {
		var r ResultRecord
		var gameID, outcome string
		var createdAt any
		if err := rows.Scan(&r.ID, &gameID, &outcome, &r.Points, &r.Visitor, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.GameID = core.GameID(gameID)
		r.Outcome = core.Outcome(outcome)
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// ClearResults deletes the results of one game, or all results when gameID
// is empty.
func (s *Store) ClearResults(gameID core.GameID) error {
	_, err := s.db.Exec("DELETE FROM results WHERE ? = '' OR game_id = ?", string(gameID), string(gameID))
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID      core.GameID `json:"gameId"`
	Rounds      int         `json:"rounds"`
	Wins        int         `json:"wins"`
	Losses      int         `json:"losses"`
	Draws       int         `json:"draws"`
	TotalPoints int64       `json:"totalPoints"`
	LastPlayed  time.Time   `json:"lastPlayed"`
}

// WinRate returns the share of rounds won, 0 when nothing was played.
func (g GameStats) WinRate() float64 {
	if g.Rounds == 0 {
		return 0
	}
	return float64(g.Wins) / float64(g.Rounds)
}

const statsColumns = `COUNT(*),
	COALESCE(SUM(CASE WHEN outcome = 'win' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN outcome = 'lose' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN outcome = 'draw' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(points), 0),
	MAX(created_at)`

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID core.GameID) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		"SELECT "+statsColumns+" FROM results WHERE game_id = ?",
		string(gameID),
	).Scan(&stats.Rounds, &stats.Wins, &stats.Losses, &stats.Draws, &stats.TotalPoints, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllGamesStats retrieves statistics for all games that have been played.
func (s *Store) GetAllGamesStats() (map[core.GameID]*GameStats, error) {
	rows, err := s.db.Query(
		"SELECT game_id, " + statsColumns + " FROM results GROUP BY game_id",
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[core.GameID]*GameStats)
	for rows.Next() {
		var g GameStats
		var gameID string
		var lastPlayed any
		if err := rows.Scan(&gameID, &g.Rounds, &g.Wins, &g.Losses, &g.Draws, &g.TotalPoints, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		g.GameID = core.GameID(gameID)
		g.LastPlayed = parseTime(lastPlayed)
		stats[g.GameID] = &g
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

const timeLayout = "2006-01-02 15:04:05.000"

// parseTime handles the driver returning either time.Time or text.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
