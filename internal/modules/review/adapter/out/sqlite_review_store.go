package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"spacedrep/internal/modules/review/domain"
	reviewout "spacedrep/internal/modules/review/port/out"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/sqlitedb"
	"spacedrep/internal/platform/tx"
	"spacedrep/internal/platform/watch"
)

const reviewColumns = `r.id, r.topic_id, r.reviewed_at, r.confidence, r.previous_interval, r.next_review_at, r.ease_factor, r.review_count`

// latestOfActiveTopic restricts r to the newest review of each active topic.
const latestOfActiveTopic = `FROM reviews r JOIN topics t ON t.id = r.topic_id
WHERE t.is_active = 1 AND r.id = (
  SELECT r2.id FROM reviews r2 WHERE r2.topic_id = r.topic_id ORDER BY r2.reviewed_at DESC, r2.id DESC LIMIT 1
)`

type SQLiteReviewStore struct {
	db  *sql.DB
	txm *tx.SQLManager
	hub *watch.Hub
}

func NewSQLiteReviewStore(db *sql.DB, hub *watch.Hub) reviewout.ReviewStore {
	return &SQLiteReviewStore{db: db, txm: tx.NewSQLManager(db), hub: hub}
}

func (s *SQLiteReviewStore) SubscribeForTopic(ctx context.Context, topicID string) (<-chan []domain.Review, error) {
	return watch.Subscribe(ctx, s.hub, []string{watch.Reviews}, func(ctx context.Context) ([]domain.Review, error) {
		return s.ListForTopic(ctx, topicID)
	})
}

func (s *SQLiteReviewStore) SubscribeOverdue(ctx context.Context, now time.Time) (<-chan []domain.Review, error) {
	return watch.Subscribe(ctx, s.hub, []string{watch.Reviews, watch.Topics}, func(ctx context.Context) ([]domain.Review, error) {
		return s.ListOverdue(ctx, now)
	})
}

func (s *SQLiteReviewStore) SubscribeDueWithin(ctx context.Context, hours int, now time.Time) (<-chan []domain.Review, error) {
	return watch.Subscribe(ctx, s.hub, []string{watch.Reviews, watch.Topics}, func(ctx context.Context) ([]domain.Review, error) {
		return s.ListDueWithin(ctx, hours, now)
	})
}

func (s *SQLiteReviewStore) SubscribeInRange(ctx context.Context, start, end time.Time) (<-chan []domain.Review, error) {
	return watch.Subscribe(ctx, s.hub, []string{watch.Reviews}, func(ctx context.Context) ([]domain.Review, error) {
		return s.ListInRange(ctx, start, end)
	})
}

func (s *SQLiteReviewStore) Get(ctx context.Context, id string) (domain.Review, error) {
	reviews, err := s.query(ctx, `SELECT `+reviewColumns+` FROM reviews r WHERE r.id = ?`, id)
	if err != nil {
		return domain.Review{}, err
	}
	if len(reviews) == 0 {
		return domain.Review{}, fmt.Errorf("%w: review %s", apperrors.ErrNotFound, id)
	}
	return reviews[0], nil
}

func (s *SQLiteReviewStore) Latest(ctx context.Context, topicID string) (domain.Review, bool, error) {
	return s.first(ctx, `SELECT `+reviewColumns+` FROM reviews r WHERE r.topic_id = ?
ORDER BY r.reviewed_at DESC, r.id DESC LIMIT 1`, topicID)
}

func (s *SQLiteReviewStore) Before(ctx context.Context, review domain.Review) (domain.Review, bool, error) {
	at := sqlitedb.Millis(review.ReviewedAt)
	return s.first(ctx, `SELECT `+reviewColumns+` FROM reviews r
WHERE r.topic_id = ? AND (r.reviewed_at < ? OR (r.reviewed_at = ? AND r.id < ?))
ORDER BY r.reviewed_at DESC, r.id DESC LIMIT 1`, review.TopicID, at, at, review.ID)
}

// ListForTopic returns a topic's reviews oldest first.
func (s *SQLiteReviewStore) ListForTopic(ctx context.Context, topicID string) ([]domain.Review, error) {
	return s.query(ctx, `SELECT `+reviewColumns+` FROM reviews r WHERE r.topic_id = ? ORDER BY r.reviewed_at, r.id`, topicID)
}

// ListOverdue returns the newest review of each active topic when its due date
// has passed.
func (s *SQLiteReviewStore) ListOverdue(ctx context.Context, now time.Time) ([]domain.Review, error) {
	return s.query(ctx, `SELECT `+reviewColumns+` `+latestOfActiveTopic+`
AND r.next_review_at < ? ORDER BY r.next_review_at, r.id`, sqlitedb.Millis(now))
}

// ListDueWithin returns the newest review of each active topic that falls due in
// the next hours.
func (s *SQLiteReviewStore) ListDueWithin(ctx context.Context, hours int, now time.Time) ([]domain.Review, error) {
	end := now.Add(time.Duration(hours) * time.Hour)
	return s.query(ctx, `SELECT `+reviewColumns+` `+latestOfActiveTopic+`
AND r.next_review_at >= ? AND r.next_review_at <= ? ORDER BY r.next_review_at, r.id`,
		sqlitedb.Millis(now), sqlitedb.Millis(end))
}

// ListInRange returns reviews with start <= reviewed_at < end, oldest first.
func (s *SQLiteReviewStore) ListInRange(ctx context.Context, start, end time.Time) ([]domain.Review, error) {
	return s.query(ctx, `SELECT `+reviewColumns+` FROM reviews r
WHERE r.reviewed_at >= ? AND r.reviewed_at < ? ORDER BY r.reviewed_at, r.id`,
		sqlitedb.Millis(start), sqlitedb.Millis(end))
}

func (s *SQLiteReviewStore) Add(ctx context.Context, review domain.Review) error {
	if err := s.insert(ctx, review); err != nil {
		return err
	}
	s.hub.Notify(watch.Reviews)
	return nil
}

// AddBatch stores every review or none.
func (s *SQLiteReviewStore) AddBatch(ctx context.Context, reviews []domain.Review) error {
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		for _, review := range reviews {
			if err := s.insert(ctx, review); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(reviews) > 0 {
		s.hub.Notify(watch.Reviews)
	}
	return nil
}

func (s *SQLiteReviewStore) Update(ctx context.Context, review domain.Review) error {
	if err := review.Validate(); err != nil {
		return err
	}
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `
UPDATE reviews SET topic_id = ?, reviewed_at = ?, confidence = ?, previous_interval = ?,
  next_review_at = ?, ease_factor = ?, review_count = ?
WHERE id = ?`,
		review.TopicID, sqlitedb.Millis(review.ReviewedAt), review.Confidence.String(), review.PreviousInterval,
		sqlitedb.Millis(review.NextReviewDate), review.EaseFactor, review.ReviewCount, review.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if err := requireAffected(res, review.ID); err != nil {
		return err
	}
	s.hub.Notify(watch.Reviews)
	return nil
}

func (s *SQLiteReviewStore) Delete(ctx context.Context, id string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if err := requireAffected(res, id); err != nil {
		return err
	}
	s.hub.Notify(watch.Reviews)
	return nil
}

func (s *SQLiteReviewStore) insert(ctx context.Context, review domain.Review) error {
	if err := review.Validate(); err != nil {
		return err
	}
	_, err := tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO reviews (id, topic_id, reviewed_at, confidence, previous_interval, next_review_at, ease_factor, review_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID, review.TopicID, sqlitedb.Millis(review.ReviewedAt), review.Confidence.String(), review.PreviousInterval,
		sqlitedb.Millis(review.NextReviewDate), review.EaseFactor, review.ReviewCount)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *SQLiteReviewStore) first(ctx context.Context, query string, args ...any) (domain.Review, bool, error) {
	reviews, err := s.query(ctx, query, args...)
	if err != nil {
		return domain.Review{}, false, err
	}
	if len(reviews) == 0 {
		return domain.Review{}, false, nil
	}
	return reviews[0], true, nil
}

func (s *SQLiteReviewStore) query(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()
	reviews := []domain.Review{}
	for rows.Next() {
		review, err := ScanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// ScanReview decodes one row selected with the review column list.
func ScanReview(row scanner) (domain.Review, error) {
	var (
		review     domain.Review
		confidence string
		reviewedAt int64
		nextAt     int64
	)
	if err := row.Scan(&review.ID, &review.TopicID, &reviewedAt, &confidence, &review.PreviousInterval,
		&nextAt, &review.EaseFactor, &review.ReviewCount); err != nil {
		return domain.Review{}, fmt.Errorf("scan review: %w", err)
	}
	level, err := domain.ParseConfidenceLevel(confidence)
	if err != nil {
		return domain.Review{}, fmt.Errorf("decode review %s: %w", review.ID, err)
	}
	review.Confidence = level
	review.ReviewedAt = sqlitedb.FromMillis(reviewedAt)
	review.NextReviewDate = sqlitedb.FromMillis(nextAt)
	return review, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: review %s", apperrors.ErrNotFound, id)
	}
	return nil
}
