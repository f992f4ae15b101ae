package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	analyticsout "spacedrep/internal/modules/analytics/port/out"
	reviewdomain "spacedrep/internal/modules/review/domain"
	sessiondomain "spacedrep/internal/modules/session/domain"
	topicdomain "spacedrep/internal/modules/topic/domain"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/sqlitedb"
	"spacedrep/internal/platform/tx"
)

const (
	reviewColumns  = `id, topic_id, reviewed_at, confidence, previous_interval, next_review_at, ease_factor, review_count`
	sessionColumns = `id, start_at, end_at, topics_reviewed, total_correct, total_reviewed, average_confidence, goal, outcome`
	maxPageSize    = 1000
)

type SQLiteHistoryReader struct {
	db *sql.DB
}

func NewSQLiteHistoryReader(db *sql.DB) analyticsout.HistoryReader {
	return &SQLiteHistoryReader{db: db}
}

// ReviewPage uses keyset paging on (reviewed_at, id), so pages stay stable while
// new reviews are appended.
func (r *SQLiteHistoryReader) ReviewPage(ctx context.Context, filter analyticsout.ReviewFilter, after *analyticsout.ReviewCursor, limit int) (analyticsout.ReviewPage, error) {
	if limit < 1 || limit > maxPageSize {
		return analyticsout.ReviewPage{}, fmt.Errorf("%w: page size must be between 1 and %d", apperrors.ErrInvalidInput, maxPageSize)
	}
	var (
		where []string
		args  []any
	)
	if id := strings.TrimSpace(filter.TopicID); id != "" {
		where = append(where, "topic_id = ?")
		args = append(args, id)
	}
	if !filter.Since.IsZero() {
		where = append(where, "reviewed_at >= ?")
		args = append(args, sqlitedb.Millis(filter.Since))
	}
	if !filter.Until.IsZero() {
		where = append(where, "reviewed_at < ?")
		args = append(args, sqlitedb.Millis(filter.Until))
	}
	if after != nil {
		at := sqlitedb.Millis(after.ReviewedAt)
		where = append(where, "(reviewed_at > ? OR (reviewed_at = ? AND id > ?))")
		args = append(args, at, at, after.ID)
	}
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY reviewed_at, id LIMIT ?`
	// One extra row tells whether another page follows.
	args = append(args, limit+1)

	reviews, err := r.reviews(ctx, query, args...)
	if err != nil {
		return analyticsout.ReviewPage{}, err
	}
	page := analyticsout.ReviewPage{Reviews: reviews}
	if len(reviews) > limit {
		page.Reviews = reviews[:limit]
		last := page.Reviews[limit-1]
		page.Next = &analyticsout.ReviewCursor{ReviewedAt: last.ReviewedAt, ID: last.ID}
	}
	return page, nil
}

func (r *SQLiteHistoryReader) LatestReviews(ctx context.Context) (map[string]reviewdomain.Review, error) {
	reviews, err := r.reviews(ctx, `SELECT `+reviewColumns+` FROM reviews r
WHERE r.id = (SELECT r2.id FROM reviews r2 WHERE r2.topic_id = r.topic_id ORDER BY r2.reviewed_at DESC, r2.id DESC LIMIT 1)`)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]reviewdomain.Review, len(reviews))
	for _, review := range reviews {
		latest[review.TopicID] = review
	}
	return latest, nil
}

func (r *SQLiteHistoryReader) Topics(ctx context.Context) ([]topicdomain.Topic, error) {
	exec := tx.From(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `SELECT id, name, category, difficulty, notes, created_at, is_active
FROM topics ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	topics := []topicdomain.Topic{}
	index := map[string]int{}
	for rows.Next() {
		var (
			topic      topicdomain.Topic
			difficulty string
			createdAt  int64
			active     int
		)
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.Category, &difficulty, &topic.Notes, &createdAt, &active); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		level, err := topicdomain.ParseDifficultyLevel(difficulty)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("decode topic %s: %w", topic.ID, err)
		}
		topic.DifficultyLevel = level
		topic.CreatedAt = sqlitedb.FromMillis(createdAt)
		topic.IsActive = active == 1
		index[topic.ID] = len(topics)
		topics = append(topics, topic)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}

	tagRows, err := exec.QueryContext(ctx, `SELECT topic_id, tag FROM topic_tags ORDER BY topic_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query topic tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var topicID, tag string
		if err := tagRows.Scan(&topicID, &tag); err != nil {
			return nil, fmt.Errorf("scan topic tag: %w", err)
		}
		if i, ok := index[topicID]; ok {
			topics[i].Tags = append(topics[i].Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic tags: %w", err)
	}
	return topics, nil
}

func (r *SQLiteHistoryReader) SessionsSince(ctx context.Context, since time.Time) ([]sessiondomain.StudySession, error) {
	if since.IsZero() {
		return r.sessions(ctx, `SELECT `+sessionColumns+` FROM study_sessions ORDER BY start_at, id`)
	}
	return r.sessions(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE start_at >= ? ORDER BY start_at, id`, sqlitedb.Millis(since))
}

func (r *SQLiteHistoryReader) Session(ctx context.Context, id string) (sessiondomain.StudySession, error) {
	sessions, err := r.sessions(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = ?`, id)
	if err != nil {
		return sessiondomain.StudySession{}, err
	}
	if len(sessions) == 0 {
		return sessiondomain.StudySession{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	return sessions[0], nil
}

func (r *SQLiteHistoryReader) reviews(ctx context.Context, query string, args ...any) ([]reviewdomain.Review, error) {
	rows, err := tx.From(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()
	reviews := []reviewdomain.Review{}
	for rows.Next() {
		var (
			review     reviewdomain.Review
			confidence string
			reviewedAt int64
			nextAt     int64
		)
		if err := rows.Scan(&review.ID, &review.TopicID, &reviewedAt, &confidence, &review.PreviousInterval,
			&nextAt, &review.EaseFactor, &review.ReviewCount); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		level, err := reviewdomain.ParseConfidenceLevel(confidence)
		if err != nil {
			return nil, fmt.Errorf("decode review %s: %w", review.ID, err)
		}
		review.Confidence = level
		review.ReviewedAt = sqlitedb.FromMillis(reviewedAt)
		review.NextReviewDate = sqlitedb.FromMillis(nextAt)
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

func (r *SQLiteHistoryReader) sessions(ctx context.Context, query string, args ...any) ([]sessiondomain.StudySession, error) {
	rows, err := tx.From(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	sessions := []sessiondomain.StudySession{}
	for rows.Next() {
		var (
			session sessiondomain.StudySession
			startAt int64
			endAt   sql.NullInt64
			topics  string
		)
		if err := rows.Scan(&session.ID, &startAt, &endAt, &topics, &session.TotalCorrect, &session.TotalReviewed,
			&session.AverageConfidence, &session.Goal, &session.Outcome); err != nil {
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
