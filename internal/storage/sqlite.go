// Package storage provides SQLite-based persistence for finished sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/arcadeworks/serpent/internal/session"
)

// Store manages the SQLite database connection for the session archive.
type Store struct {
	db *sql.DB
}

// SessionRow is one archived session as read back from the database.
type SessionRow struct {
	ID            int64
	SessionID     int64
	FinalScore    int
	GameTimeMS    int64
	SnakeLength   int
	TotalInputs   int
	AvgReactionMS float64
	ErrorCount    int
	FoodCollected int
	PeakStress    float64
	FinalSkill    float64
	StartedAt     time.Time
	EndedAt       time.Time
	CreatedAt     time.Time
}

// ArchiveStats are aggregates over the whole archive.
type ArchiveStats struct {
	Sessions      int
	HighScore     int
	AvgScore      float64
	TotalPlayMS   int64
	AvgReactionMS float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
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
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL,
			final_score INTEGER NOT NULL,
			game_time_ms INTEGER NOT NULL DEFAULT 0,
			snake_length INTEGER NOT NULL DEFAULT 0,
			total_inputs INTEGER NOT NULL DEFAULT 0,
			avg_reaction_ms REAL NOT NULL DEFAULT 0,
			error_count INTEGER NOT NULL DEFAULT 0,
			food_collected INTEGER NOT NULL DEFAULT 0,
			peak_stress REAL NOT NULL DEFAULT 0,
			final_skill REAL NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_score ON sessions(final_score DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
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

// ArchiveSession implements session.Archiver: it persists one finished
// session record.
func (s *Store) ArchiveSession(r session.Record) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions
		 (session_id, final_score, game_time_ms, snake_length, total_inputs,
		  avg_reaction_ms, error_count, food_collected, peak_stress, final_skill,
		  started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.FinalScore,
		r.GameTimeMS,
		r.SnakeLength,
		r.TotalInputs,
		r.AvgReactionMS,
		r.ErrorCount,
		r.FoodCollected,
		r.PeakStress,
		r.FinalSkill,
		r.StartTime.UTC().Format("2006-01-02 15:04:05"),
		r.EndTime.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot archive session: %w", err)
	}
	return nil
}

// Ensure Store implements session.Archiver
var _ session.Archiver = (*Store)(nil)

// RecentSessions retrieves the most recent archived sessions.
func (s *Store) RecentSessions(limit int) ([]SessionRow, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, final_score, game_time_ms, snake_length,
		        total_inputs, avg_reaction_ms, error_count, food_collected,
		        peak_stress, final_skill, started_at, ended_at, created_at
		 FROM sessions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var results []SessionRow
	for rows.Next() {
		var r SessionRow
		var startedAt, endedAt, createdAt any
		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.FinalScore, &r.GameTimeMS, &r.SnakeLength,
			&r.TotalInputs, &r.AvgReactionMS, &r.ErrorCount, &r.FoodCollected,
			&r.PeakStress, &r.FinalSkill, &startedAt, &endedAt, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.StartedAt = parseDBTime(startedAt)
		r.EndedAt = parseDBTime(endedAt)
		r.CreatedAt = parseDBTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// TopSessions retrieves the highest-scoring archived sessions.
func (s *Store) TopSessions(limit int) ([]SessionRow, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, final_score, game_time_ms, snake_length,
		        total_inputs, avg_reaction_ms, error_count, food_collected,
		        peak_stress, final_skill, started_at, ended_at, created_at
		 FROM sessions
		 ORDER BY final_score DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var results []SessionRow
	for rows.Next() {
		var r SessionRow
		var startedAt, endedAt, createdAt any
		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.FinalScore, &r.GameTimeMS, &r.SnakeLength,
			&r.TotalInputs, &r.AvgReactionMS, &r.ErrorCount, &r.FoodCollected,
			&r.PeakStress, &r.FinalSkill, &startedAt, &endedAt, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.StartedAt = parseDBTime(startedAt)
		r.EndedAt = parseDBTime(endedAt)
		r.CreatedAt = parseDBTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Stats retrieves aggregate statistics over the whole archive.
func (s *Store) Stats() (*ArchiveStats, error) {
	stats := &ArchiveStats{}
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(MAX(final_score), 0),
		        COALESCE(AVG(final_score), 0),
		        COALESCE(SUM(game_time_ms), 0),
		        COALESCE(AVG(avg_reaction_ms), 0)
		 FROM sessions`,
	).Scan(&stats.Sessions, &stats.HighScore, &stats.AvgScore, &stats.TotalPlayMS, &stats.AvgReactionMS)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get archive stats: %w", err)
	}
	return stats, nil
}

// ClearSessions deletes the whole archive.
func (s *Store) ClearSessions() error {
	if _, err := s.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// parseDBTime handles both time.Time and string datetime representations
// returned by the driver.
func parseDBTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
