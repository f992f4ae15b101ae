package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Open connects to the SQLite database at path, creating its directory, and
// applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS topic_tags (
			topic_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY (topic_id, position),
			FOREIGN KEY (topic_id) REFERENCES topics(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			topic_id TEXT NOT NULL,
			reviewed_at INTEGER NOT NULL,
			confidence TEXT NOT NULL,
			previous_interval INTEGER NOT NULL,
			next_review_at INTEGER NOT NULL,
			ease_factor REAL NOT NULL CHECK (ease_factor >= 1.3),
			review_count INTEGER NOT NULL CHECK (review_count >= 1),
			FOREIGN KEY (topic_id) REFERENCES topics(id)
		);`,
		`CREATE TABLE IF NOT EXISTS study_sessions (
			id TEXT PRIMARY KEY,
			start_at INTEGER NOT NULL,
			end_at INTEGER,
			topics_reviewed TEXT NOT NULL DEFAULT '[]',
			total_correct INTEGER NOT NULL DEFAULT 0,
			total_reviewed INTEGER NOT NULL DEFAULT 0,
			average_confidence REAL NOT NULL DEFAULT 0,
			goal TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL DEFAULT '',
			active_marker INTEGER UNIQUE,
			CHECK (total_correct <= total_reviewed)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_topics_category ON topics(category, is_active);`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_topic ON reviews(topic_id, reviewed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_next ON reviews(next_review_at);`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_time ON reviews(reviewed_at, id);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_start ON study_sessions(start_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	if idx := strings.Index(stmt, "\n"); idx >= 0 {
		return stmt[:idx]
	}
	return stmt
}

// Millis encodes t as unix milliseconds, the storage format for every timestamp.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis decodes a stored timestamp as UTC.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
