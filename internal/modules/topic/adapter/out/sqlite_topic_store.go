package out

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"spacedrep/internal/modules/topic/domain"
	topicout "spacedrep/internal/modules/topic/port/out"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/sqlitedb"
	"spacedrep/internal/platform/tx"
	"spacedrep/internal/platform/watch"
)

const topicColumns = `t.id, t.name, t.category, t.difficulty, t.notes, t.created_at, t.is_active`

// latestNextReview selects the next_review_at of the newest review of topic t.
const latestNextReview = `(SELECT r.next_review_at FROM reviews r WHERE r.topic_id = t.id ORDER BY r.reviewed_at DESC, r.id DESC LIMIT 1)`

type SQLiteTopicStore struct {
	db  *sql.DB
	txm *tx.SQLManager
	hub *watch.Hub
}

func NewSQLiteTopicStore(db *sql.DB, hub *watch.Hub) topicout.TopicStore {
	return &SQLiteTopicStore{db: db, txm: tx.NewSQLManager(db), hub: hub}
}

func (s *SQLiteTopicStore) SubscribeActive(ctx context.Context) (<-chan []domain.Topic, error) {
	return watch.Subscribe(ctx, s.hub, []string{watch.Topics}, s.ListActive)
}

func (s *SQLiteTopicStore) SubscribeByCategory(ctx context.Context, category string) (<-chan []domain.Topic, error) {
	return watch.Subscribe(ctx, s.hub, []string{watch.Topics}, func(ctx context.Context) ([]domain.Topic, error) {
		return s.ListByCategory(ctx, category)
	})
}

// SubscribeDueForReview also listens on review writes since rating a topic moves
// its due date.
func (s *SQLiteTopicStore) SubscribeDueForReview(ctx context.Context, now time.Time) (<-chan []domain.Topic, error) {
	return watch.Subscribe(ctx, s.hub, []string{watch.Topics, watch.Reviews}, func(ctx context.Context) ([]domain.Topic, error) {
		return s.ListDueForReview(ctx, now)
	})
}

func (s *SQLiteTopicStore) Get(ctx context.Context, id string) (domain.Topic, error) {
	topics, err := s.query(ctx, `SELECT `+topicColumns+` FROM topics t WHERE t.id = ?`, id)
	if err != nil {
		return domain.Topic{}, err
	}
	if len(topics) == 0 {
		return domain.Topic{}, fmt.Errorf("%w: topic %s", apperrors.ErrNotFound, id)
	}
	return topics[0], nil
}

func (s *SQLiteTopicStore) ListActive(ctx context.Context) ([]domain.Topic, error) {
	return s.query(ctx, `SELECT `+topicColumns+` FROM topics t WHERE t.is_active = 1 ORDER BY t.name, t.id`)
}

func (s *SQLiteTopicStore) ListByCategory(ctx context.Context, category string) ([]domain.Topic, error) {
	return s.query(ctx, `SELECT `+topicColumns+` FROM topics t WHERE t.is_active = 1 AND t.category = ? ORDER BY t.name, t.id`, category)
}

// ListDueForReview returns active topics that were never reviewed or whose latest
// review is due at or before now. Never-reviewed topics come first.
func (s *SQLiteTopicStore) ListDueForReview(ctx context.Context, now time.Time) ([]domain.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics t
WHERE t.is_active = 1 AND (` + latestNextReview + ` IS NULL OR ` + latestNextReview + ` <= ?)
ORDER BY COALESCE(` + latestNextReview + `, 0), t.name, t.id`
	return s.query(ctx, query, sqlitedb.Millis(now))
}

func (s *SQLiteTopicStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `SELECT DISTINCT category FROM topics WHERE is_active = 1 ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// Search matches query against name, notes and tags, case-insensitively.
func (s *SQLiteTopicStore) Search(ctx context.Context, query string) ([]domain.Topic, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	stmt := `SELECT ` + topicColumns + ` FROM topics t
WHERE t.is_active = 1 AND (
  LOWER(t.name) LIKE ? ESCAPE '\' OR
  LOWER(t.notes) LIKE ? ESCAPE '\' OR
  EXISTS (SELECT 1 FROM topic_tags g WHERE g.topic_id = t.id AND LOWER(g.tag) LIKE ? ESCAPE '\')
)
ORDER BY t.name, t.id`
	return s.query(ctx, stmt, pattern, pattern, pattern)
}

func (s *SQLiteTopicStore) Add(ctx context.Context, topic domain.Topic) (domain.Topic, error) {
	if err := topic.Validate(); err != nil {
		return domain.Topic{}, err
	}
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		return s.insert(ctx, topic)
	})
	if err != nil {
		return domain.Topic{}, err
	}
	s.hub.Notify(watch.Topics)
	return topic, nil
}

// AddBatch inserts all topics or none.
func (s *SQLiteTopicStore) AddBatch(ctx context.Context, topics []domain.Topic) ([]domain.Topic, error) {
	for _, topic := range topics {
		if err := topic.Validate(); err != nil {
			return nil, err
		}
	}
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		for _, topic := range topics {
			if err := s.insert(ctx, topic); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(topics) > 0 {
		s.hub.Notify(watch.Topics)
	}
	return topics, nil
}

func (s *SQLiteTopicStore) Update(ctx context.Context, topic domain.Topic) (domain.Topic, error) {
	if err := topic.Validate(); err != nil {
		return domain.Topic{}, err
	}
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		return s.update(ctx, topic)
	})
	if err != nil {
		return domain.Topic{}, err
	}
	s.hub.Notify(watch.Topics)
	return topic, nil
}

// UpdateBatch rewrites all topics or none. An unknown id fails the batch.
func (s *SQLiteTopicStore) UpdateBatch(ctx context.Context, topics []domain.Topic) ([]domain.Topic, error) {
	for _, topic := range topics {
		if err := topic.Validate(); err != nil {
			return nil, err
		}
	}
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		for _, topic := range topics {
			if err := s.update(ctx, topic); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(topics) > 0 {
		s.hub.Notify(watch.Topics)
	}
	return topics, nil
}

func (s *SQLiteTopicStore) update(ctx context.Context, topic domain.Topic) error {
	exec := tx.From(ctx, s.db)
	res, err := exec.ExecContext(ctx, `
UPDATE topics SET name = ?, category = ?, difficulty = ?, notes = ?, is_active = ?
WHERE id = ?`,
		topic.Name, topic.Category, topic.DifficultyLevel.String(), topic.Notes, boolInt(topic.IsActive), topic.ID)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	if err := requireAffected(res, topic.ID); err != nil {
		return err
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM topic_tags WHERE topic_id = ?`, topic.ID); err != nil {
		return fmt.Errorf("clear topic tags: %w", err)
	}
	return s.insertTags(ctx, topic)
}

// SoftDelete clears the active flag; reviews keep referencing the row.
func (s *SQLiteTopicStore) SoftDelete(ctx context.Context, id string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `UPDATE topics SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("soft delete topic: %w", err)
	}
	if err := requireAffected(res, id); err != nil {
		return err
	}
	s.hub.Notify(watch.Topics)
	return nil
}

func (s *SQLiteTopicStore) insert(ctx context.Context, topic domain.Topic) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO topics (id, name, category, difficulty, notes, created_at, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		topic.ID, topic.Name, topic.Category, topic.DifficultyLevel.String(), topic.Notes,
		sqlitedb.Millis(topic.CreatedAt), boolInt(topic.IsActive))
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return s.insertTags(ctx, topic)
}

func (s *SQLiteTopicStore) insertTags(ctx context.Context, topic domain.Topic) error {
	exec := tx.From(ctx, s.db)
	for i, tag := range topic.Tags {
		if _, err := exec.ExecContext(ctx, `INSERT INTO topic_tags (topic_id, position, tag) VALUES (?, ?, ?)`, topic.ID, i, tag); err != nil {
			return fmt.Errorf("insert topic tag: %w", err)
		}
	}
	return nil
}

func (s *SQLiteTopicStore) query(ctx context.Context, query string, args ...any) ([]domain.Topic, error) {
	exec := tx.From(ctx, s.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	topics := []domain.Topic{}
	for rows.Next() {
		var (
			topic      domain.Topic
			difficulty string
			createdAt  int64
			active     int
		)
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.Category, &difficulty, &topic.Notes, &createdAt, &active); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		level, err := domain.ParseDifficultyLevel(difficulty)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("decode topic %s: %w", topic.ID, err)
		}
		topic.DifficultyLevel = level
		topic.CreatedAt = sqlitedb.FromMillis(createdAt)
		topic.IsActive = active == 1
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	// Tags are loaded after the cursor closes; the pool holds a single connection.
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close topic rows: %w", err)
	}
	for i := range topics {
		tags, err := s.tags(ctx, exec, topics[i].ID)
		if err != nil {
			return nil, err
		}
		topics[i].Tags = tags
	}
	return topics, nil
}

func (s *SQLiteTopicStore) tags(ctx context.Context, exec tx.Executor, topicID string) ([]string, error) {
	rows, err := exec.QueryContext(ctx, `SELECT tag FROM topic_tags WHERE topic_id = ? ORDER BY position`, topicID)
	if err != nil {
		return nil, fmt.Errorf("query topic tags: %w", err)
	}
	defer rows.Close()
	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan topic tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic tags: %w", err)
	}
	return tags, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: topic %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
