package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"spacedrep/internal/modules/session/domain"
	sessionout "spacedrep/internal/modules/session/port/out"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/sqlitedb"
	"spacedrep/internal/platform/tx"
	"spacedrep/internal/platform/watch"
)

const sessionColumns = `id, start_at, end_at, topics_reviewed, total_correct, total_reviewed, average_confidence, goal, outcome`

// SQLiteSessionStore marks the open session with active_marker = 1. The column
// is UNIQUE, so a second concurrent start fails inside the database.
type SQLiteSessionStore struct {
	db  *sql.DB
	hub *watch.Hub
}

func NewSQLiteSessionStore(db *sql.DB, hub *watch.Hub) sessionout.SessionStore {
	return &SQLiteSessionStore{db: db, hub: hub}
}

func (s *SQLiteSessionStore) SubscribeAll(ctx context.Context) (<-chan []domain.StudySession, error) {
	return watch.Subscribe(ctx, s.hub, []string{watch.Sessions}, s.List)
}

func (s *SQLiteSessionStore) Get(ctx context.Context, id string) (domain.StudySession, error) {
	sessions, err := s.query(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = ?`, id)
	if err != nil {
		return domain.StudySession{}, err
	}
	if len(sessions) == 0 {
		return domain.StudySession{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	return sessions[0], nil
}

func (s *SQLiteSessionStore) Active(ctx context.Context) (domain.StudySession, error) {
	sessions, err := s.query(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE active_marker = 1`)
	if err != nil {
		return domain.StudySession{}, err
	}
	if len(sessions) == 0 {
		return domain.StudySession{}, apperrors.ErrNoActiveSession
	}
	return sessions[0], nil
}

// List returns every session, newest first.
func (s *SQLiteSessionStore) List(ctx context.Context) ([]domain.StudySession, error) {
	return s.query(ctx, `SELECT `+sessionColumns+` FROM study_sessions ORDER BY start_at DESC, id DESC`)
}

// ListInRange returns sessions with start <= start_at < end, oldest first.
func (s *SQLiteSessionStore) ListInRange(ctx context.Context, start, end time.Time) ([]domain.StudySession, error) {
	return s.query(ctx, `SELECT `+sessionColumns+` FROM study_sessions
WHERE start_at >= ? AND start_at < ? ORDER BY start_at, id`, sqlitedb.Millis(start), sqlitedb.Millis(end))
}

func (s *SQLiteSessionStore) Start(ctx context.Context, session domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if session.IsCompleted() {
		return fmt.Errorf("%w: session %s", apperrors.ErrSessionFinalized, session.ID)
	}
	topics, err := encodeTopics(session.TopicsReviewed)
	if err != nil {
		return err
	}
	_, err = tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO study_sessions (id, start_at, end_at, topics_reviewed, total_correct, total_reviewed, average_confidence, goal, outcome, active_marker)
VALUES (?, ?, NULL, ?, ?, ?, ?, ?, '', 1)`,
		session.ID, sqlitedb.Millis(session.StartTime), topics, session.TotalCorrect, session.TotalReviewed, session.AverageConfidence, session.Goal)
	if err != nil {
		if sqlitedb.IsUniqueViolation(err) {
			return apperrors.ErrActiveSessionExists
		}
		return fmt.Errorf("insert session: %w", err)
	}
	s.hub.Notify(watch.Sessions)
	return nil
}

// UpdateProgress writes new totals for a session that is still active.
func (s *SQLiteSessionStore) UpdateProgress(ctx context.Context, session domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if session.IsCompleted() {
		return fmt.Errorf("%w: session %s", apperrors.ErrSessionFinalized, session.ID)
	}
	topics, err := encodeTopics(session.TopicsReviewed)
	if err != nil {
		return err
	}
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `
UPDATE study_sessions SET topics_reviewed = ?, total_correct = ?, total_reviewed = ?, average_confidence = ?
WHERE id = ? AND active_marker = 1`,
		topics, session.TotalCorrect, session.TotalReviewed, session.AverageConfidence, session.ID)
	if err != nil {
		return fmt.Errorf("update session progress: %w", err)
	}
	if err := s.requireActive(ctx, res, session.ID); err != nil {
		return err
	}
	s.hub.Notify(watch.Sessions)
	return nil
}

func (s *SQLiteSessionStore) End(ctx context.Context, session domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if !session.IsCompleted() {
		return fmt.Errorf("%w: session %s has no end time", apperrors.ErrInvalidInput, session.ID)
	}
	topics, err := encodeTopics(session.TopicsReviewed)
	if err != nil {
		return err
	}
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `
UPDATE study_sessions SET end_at = ?, topics_reviewed = ?, total_correct = ?, total_reviewed = ?,
  average_confidence = ?, outcome = ?, active_marker = NULL
WHERE id = ? AND active_marker = 1`,
		sqlitedb.Millis(*session.EndTime), topics, session.TotalCorrect, session.TotalReviewed, session.AverageConfidence, session.Outcome, session.ID)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if err := s.requireActive(ctx, res, session.ID); err != nil {
		return err
	}
	s.hub.Notify(watch.Sessions)
	return nil
}

// requireActive explains a write that matched no active row.
func (s *SQLiteSessionStore) requireActive(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: session %s", apperrors.ErrSessionFinalized, id)
}

func (s *SQLiteSessionStore) query(ctx context.Context, query string, args ...any) ([]domain.StudySession, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	sessions := []domain.StudySession{}
	for rows.Next() {
		var (
			session domain.StudySession
			startAt int64
			endAt   sql.NullInt64
			topics  string
		)
		if err := rows.Scan(&session.ID, &startAt, &endAt, &topics, &session.TotalCorrect, &session.TotalReviewed, &session.AverageConfidence, &session.Goal, &session.Outcome); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.StartTime = sqlitedb.FromMillis(startAt)
		if endAt.Valid {
			end := sqlitedb.FromMillis(endAt.Int64)
			session.EndTime = &end
		}
		if err := json.Unmarshal([]byte(topics), &session.TopicsReviewed); err != nil {
			return nil, fmt.Errorf("decode session %s topics: %w", session.ID, err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func encodeTopics(topics []string) (string, error) {
	if topics == nil {
		topics = []string{}
	}
	raw, err := json.Marshal(topics)
	if err != nil {
		return "", fmt.Errorf("encode session topics: %w", err)
	}
	return string(raw), nil
}
