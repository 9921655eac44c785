// Package storage provides SQLite-based persistence for saved games and
// completion records. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
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
)

// DefaultScope is the key-value scope used by local play.
const DefaultScope = "local"

// Store manages the SQLite database connection.
// It is safe for concurrent use by multiple sessions.
type Store struct {
	db *sql.DB
}

// Completion is a solved game record.
type Completion struct {
	ID        int64
	RunID     string
	Scope     string
	Layout    string
	Moves     int
	CreatedAt time.Time
}

// Stats contains aggregated completion statistics for a scope.
type Stats struct {
	Scope      string
	Solved     int
	BestMoves  int
	AvgMoves   float64
	TotalMoves int64
	LastPlayed time.Time
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite has a single writer; one connection keeps SSH sessions from
	// tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
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
			scope TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (scope, key)
		);

		CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			scope TEXT NOT NULL,
			layout TEXT NOT NULL DEFAULT '',
			moves INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_completions_scope ON completions(scope);
		CREATE INDEX IF NOT EXISTS idx_completions_best ON completions(scope, moves ASC);
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

// Bucket is a key-value view of the store restricted to one scope.
type Bucket struct {
	store *Store
	scope string
}

// Bucket returns the key-value view for scope. Empty means DefaultScope.
func (s *Store) Bucket(scope string) *Bucket {
	if scope == "" {
		scope = DefaultScope
	}
	return &Bucket{store: s, scope: scope}
}

// Scope returns the bucket's scope.
func (b *Bucket) Scope() string {
	return b.scope
}

// Get returns the value stored under key.
func (b *Bucket) Get(key string) (string, bool, error) {
	var value string
	err := b.store.db.QueryRow(
		"SELECT value FROM kv WHERE scope = ? AND key = ?",
		b.scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s/%s: %w", b.scope, key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (b *Bucket) Set(key, value string) error {
	_, err := b.store.db.Exec(
		`INSERT INTO kv (scope, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		b.scope, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s/%s: %w", b.scope, key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Bucket) Delete(key string) error {
	_, err := b.store.db.Exec("DELETE FROM kv WHERE scope = ? AND key = ?", b.scope, key)
	if err != nil {
		return fmt.Errorf("storage: cannot delete %s/%s: %w", b.scope, key, err)
	}
	return nil
}

// RecordCompletion stores a solved game and returns its run ID.
func (s *Store) RecordCompletion(scope, layout string, moves int) (string, error) {
	if scope == "" {
		scope = DefaultScope
	}
	runID := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO completions (run_id, scope, layout, moves) VALUES (?, ?, ?, ?)",
		runID, scope, layout, moves,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save completion: %w", err)
	}
	return runID, nil
}

// TopCompletions retrieves the N fewest-move completions for a scope.
// An empty scope lists every scope.
func (s *Store) TopCompletions(scope string, limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, run_id, scope, layout, moves, created_at
		 FROM completions
		 WHERE (? = '' OR scope = ?)
		 ORDER BY moves ASC, id ASC
		 LIMIT ?`
	rows, err := s.db.Query(query, scope, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	defer rows.Close()

	var entries []Completion
	for rows.Next() {
		var e Completion
		var createdAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.Scope, &e.Layout, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Scopes lists every scope with at least one completion, sorted by name.
func (s *Store) Scopes() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT scope FROM completions ORDER BY scope")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scopes: %w", err)
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var scope string
		if err := rows.Scan(&scope); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		scopes = append(scopes, scope)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return scopes, nil
}

// ClearCompletions deletes all completion records for a scope.
func (s *Store) ClearCompletions(scope string) error {
	_, err := s.db.Exec("DELETE FROM completions WHERE scope = ?", scope)
	if err != nil {
		return fmt.Errorf("storage: cannot clear completions: %w", err)
	}
	return nil
}

// GetStats retrieves aggregated completion statistics for a scope.
func (s *Store) GetStats(scope string) (*Stats, error) {
	stats := &Stats{Scope: scope}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(moves), 0), COALESCE(AVG(moves), 0), COALESCE(SUM(moves), 0), MAX(created_at)
		 FROM completions WHERE scope = ?`,
		scope,
	).Scan(&stats.Solved, &stats.BestMoves, &stats.AvgMoves, &stats.TotalMoves, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// parseTime handles SQLite datetimes returned as either time.Time or string.
func parseTime(v any) time.Time {
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
