package out_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	analyticsadapter "spacedrep/internal/modules/analytics/adapter/out"
	analyticsout "spacedrep/internal/modules/analytics/port/out"
	reviewdomain "spacedrep/internal/modules/review/domain"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/sqlitedb"
)

var base = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

func seed(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "spacedrep.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("seed %q: %v", query, err)
		}
	}
	exec(`INSERT INTO topics (id, name, category, difficulty, created_at, is_active) VALUES
		('a', 'Goroutines', 'Go', 'Beginner', ?, 1),
		('b', 'B-trees', 'Databases', 'Advanced', ?, 1),
		('c', 'COBOL', 'Legacy', 'Intermediate', ?, 0)`,
		sqlitedb.Millis(base), sqlitedb.Millis(base.Add(time.Hour)), sqlitedb.Millis(base.Add(2*time.Hour)))
	exec(`INSERT INTO topic_tags (topic_id, position, tag) VALUES ('a', 0, 'concurrency'), ('a', 1, 'runtime'), ('b', 0, 'storage')`)

	insertReview := func(id, topicID string, at time.Time, confidence string, count int) {
		exec(`INSERT INTO reviews (id, topic_id, reviewed_at, confidence, previous_interval, next_review_at, ease_factor, review_count)
			VALUES (?, ?, ?, ?, 1, ?, 2.5, ?)`, id, topicID, sqlitedb.Millis(at), confidence, sqlitedb.Millis(at.Add(24*time.Hour)), count)
	}
	insertReview("r-1", "a", base, "Good", 1)
	insertReview("r-2", "b", base, "Forgot", 1)
	insertReview("r-3", "a", base.Add(24*time.Hour), "Easy", 2)
	insertReview("r-4", "b", base.Add(48*time.Hour), "Hard", 2)
	insertReview("r-5", "c", base.Add(72*time.Hour), "Good", 1)

	exec(`INSERT INTO study_sessions (id, start_at, end_at, topics_reviewed, total_correct, total_reviewed, average_confidence, goal, outcome, active_marker)
		VALUES ('s-1', ?, ?, '["a","b"]', 1, 2, 0.5, 'warm up', 'fine', NULL),
		       ('s-2', ?, NULL, '[]', 0, 0, 0, '', '', 1)`,
		sqlitedb.Millis(base), sqlitedb.Millis(base.Add(30*time.Minute)), sqlitedb.Millis(base.Add(72*time.Hour)))
	return db
}

func ids(reviews []reviewdomain.Review) []string {
	out := []string{}
	for _, r := range reviews {
		out = append(out, r.ID)
	}
	return out
}

func TestHistoryReaderPagesInTimeOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reader := analyticsadapter.NewSQLiteHistoryReader(seed(t))

	var (
		cursor *analyticsout.ReviewCursor
		seen   []string
		pages  int
	)
	for {
		page, err := reader.ReviewPage(ctx, analyticsout.ReviewFilter{}, cursor, 2)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		pages++
		seen = append(seen, ids(page.Reviews)...)
		if page.Next == nil {
			break
		}
		cursor = page.Next
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
	// r-1 and r-2 share a timestamp and are ordered by id.
	if !reflect.DeepEqual(seen, []string{"r-1", "r-2", "r-3", "r-4", "r-5"}) {
		t.Fatalf("unexpected order: %v", seen)
	}
}

func TestHistoryReaderFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reader := analyticsadapter.NewSQLiteHistoryReader(seed(t))

	page, err := reader.ReviewPage(ctx, analyticsout.ReviewFilter{TopicID: "b"}, nil, 10)
	if err != nil {
		t.Fatalf("topic filter: %v", err)
	}
	if !reflect.DeepEqual(ids(page.Reviews), []string{"r-2", "r-4"}) || page.Next != nil {
		t.Fatalf("unexpected topic page: %v", ids(page.Reviews))
	}
	if page.Reviews[0].Confidence != reviewdomain.Forgot || !page.Reviews[0].ReviewedAt.Equal(base) {
		t.Fatalf("review must decode: %+v", page.Reviews[0])
	}

	page, err = reader.ReviewPage(ctx, analyticsout.ReviewFilter{Since: base.Add(24 * time.Hour), Until: base.Add(72 * time.Hour)}, nil, 10)
	if err != nil {
		t.Fatalf("range filter: %v", err)
	}
	if !reflect.DeepEqual(ids(page.Reviews), []string{"r-3", "r-4"}) {
		t.Fatalf("until must be exclusive: %v", ids(page.Reviews))
	}

	if _, err := reader.ReviewPage(ctx, analyticsout.ReviewFilter{}, nil, 0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid page size, got %v", err)
	}
}

func TestHistoryReaderTopicsAndLatest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reader := analyticsadapter.NewSQLiteHistoryReader(seed(t))

	topics, err := reader.Topics(ctx)
	if err != nil {
		t.Fatalf("topics: %v", err)
	}
	if len(topics) != 3 || topics[2].ID != "c" || topics[2].IsActive {
		t.Fatalf("inactive topics must be included: %+v", topics)
	}
	if !reflect.DeepEqual(topics[0].Tags, []string{"concurrency", "runtime"}) || topics[1].Tags[0] != "storage" || topics[2].Tags != nil {
		t.Fatalf("unexpected tags: %v %v %v", topics[0].Tags, topics[1].Tags, topics[2].Tags)
	}
	if err := topics[1].Validate(); err != nil {
		t.Fatalf("topic must decode to a valid value: %v", err)
	}

	latest, err := reader.LatestReviews(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 3 || latest["a"].ID != "r-3" || latest["b"].ID != "r-4" || latest["c"].ID != "r-5" {
		t.Fatalf("unexpected latest reviews: %+v", latest)
	}
}

func TestHistoryReaderSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reader := analyticsadapter.NewSQLiteHistoryReader(seed(t))

	all, err := reader.SessionsSince(ctx, time.Time{})
	if err != nil {
		t.Fatalf("all sessions: %v", err)
	}
	if len(all) != 2 || all[0].ID != "s-1" {
		t.Fatalf("expected both sessions oldest first: %+v", all)
	}
	if all[0].EndTime == nil || all[0].DurationMinutes() != 30 || !reflect.DeepEqual(all[0].TopicsReviewed, []string{"a", "b"}) {
		t.Fatalf("unexpected finished session: %+v", all[0])
	}
	if all[1].EndTime != nil || all[1].Goal != "" {
		t.Fatalf("unexpected active session: %+v", all[1])
	}

	recent, err := reader.SessionsSince(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("recent sessions: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "s-2" {
		t.Fatalf("unexpected recent sessions: %+v", recent)
	}

	session, err := reader.Session(ctx, "s-1")
	if err != nil || session.Goal != "warm up" || session.Outcome != "fine" {
		t.Fatalf("unexpected session: %+v err=%v", session, err)
	}
	if _, err := reader.Session(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
