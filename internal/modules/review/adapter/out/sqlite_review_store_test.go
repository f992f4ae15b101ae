package out_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	reviewout "spacedrep/internal/modules/review/adapter/out"
	"spacedrep/internal/modules/review/domain"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/sqlitedb"
	"spacedrep/internal/platform/tx"
	"spacedrep/internal/platform/watch"
)

var base = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

func openDB(t *testing.T, topics ...string) *sql.DB {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "spacedrep.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	for _, id := range topics {
		if _, err := db.Exec(`INSERT INTO topics (id, name, category, difficulty, created_at) VALUES (?, ?, 'Go', 'Beginner', ?)`,
			id, "Topic "+id, sqlitedb.Millis(base)); err != nil {
			t.Fatalf("insert topic: %v", err)
		}
	}
	return db
}

func review(id, topicID string, at time.Time, intervalDays int, count int) domain.Review {
	return domain.Review{
		ID:               id,
		TopicID:          topicID,
		ReviewedAt:       at,
		Confidence:       domain.Good,
		PreviousInterval: intervalDays,
		NextReviewDate:   at.Add(time.Duration(intervalDays) * 24 * time.Hour),
		EaseFactor:       2.5,
		ReviewCount:      count,
	}
}

func TestSQLiteReviewStoreLatestBeforeAndHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := reviewout.NewSQLiteReviewStore(openDB(t, "a"), watch.NewHub(nil))

	if _, found, err := store.Latest(ctx, "a"); err != nil || found {
		t.Fatalf("expected no latest review, found=%v err=%v", found, err)
	}
	reviews := []domain.Review{
		review("r-1", "a", base, 1, 1),
		review("r-2", "a", base.Add(24*time.Hour), 3, 2),
		review("r-3", "a", base.Add(4*24*time.Hour), 8, 3),
	}
	if err := store.AddBatch(ctx, reviews); err != nil {
		t.Fatalf("add batch: %v", err)
	}
	latest, found, err := store.Latest(ctx, "a")
	if err != nil || !found || latest.ID != "r-3" {
		t.Fatalf("unexpected latest: %+v found=%v err=%v", latest, found, err)
	}
	if !latest.ReviewedAt.Equal(reviews[2].ReviewedAt) || latest.Confidence != domain.Good {
		t.Fatalf("review must round trip: %+v", latest)
	}
	before, found, err := store.Before(ctx, latest)
	if err != nil || !found || before.ID != "r-2" {
		t.Fatalf("unexpected prior review: %+v found=%v err=%v", before, found, err)
	}
	history, err := store.ListForTopic(ctx, "a")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 || history[0].ID != "r-1" {
		t.Fatalf("history must be oldest first: %+v", history)
	}
	inRange, err := store.ListInRange(ctx, base.Add(time.Hour), base.Add(4*24*time.Hour))
	if err != nil {
		t.Fatalf("in range: %v", err)
	}
	if len(inRange) != 1 || inRange[0].ID != "r-2" {
		t.Fatalf("range end is exclusive: %+v", inRange)
	}
}

func TestSQLiteReviewStoreOverdueUsesLatestOfActiveTopics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t, "a", "b", "gone")
	store := reviewout.NewSQLiteReviewStore(db, watch.NewHub(nil))
	now := base.Add(10 * 24 * time.Hour)

	if err := store.AddBatch(ctx, []domain.Review{
		review("a-1", "a", base, 1, 1),
		review("a-2", "a", base.Add(2*24*time.Hour), 30, 2),
		review("b-1", "b", base, 2, 1),
		review("gone-1", "gone", base, 1, 1),
	}); err != nil {
		t.Fatalf("add batch: %v", err)
	}
	if _, err := db.Exec(`UPDATE topics SET is_active = 0 WHERE id = 'gone'`); err != nil {
		t.Fatalf("deactivate topic: %v", err)
	}

	overdue, err := store.ListOverdue(ctx, now)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != "b-1" {
		t.Fatalf("only b is overdue: %+v", overdue)
	}
	upcoming, err := store.ListDueWithin(ctx, 24*30, now)
	if err != nil {
		t.Fatalf("due within: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != "a-2" {
		t.Fatalf("a is due within 30 days: %+v", upcoming)
	}
}

func TestSQLiteReviewStoreRejectsInvalidAndMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := reviewout.NewSQLiteReviewStore(openDB(t, "a"), watch.NewHub(nil))

	bad := review("r-1", "a", base, 1, 1)
	bad.EaseFactor = 1.0
	if err := store.Add(ctx, bad); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if err := store.Add(ctx, review("r-2", "missing", base, 1, 1)); err == nil {
		t.Fatalf("review of an unknown topic must fail")
	}
	if err := store.Update(ctx, review("nope", "a", base, 1, 1)); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := store.Delete(ctx, "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
	if _, err := store.Get(ctx, "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on get, got %v", err)
	}
}

func TestSQLiteReviewStoreJoinsTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t, "a")
	store := reviewout.NewSQLiteReviewStore(db, watch.NewHub(nil))
	txm := tx.NewSQLManager(db)

	rollback := errors.New("rollback")
	err := txm.Within(ctx, func(ctx context.Context) error {
		if err := store.Add(ctx, review("r-1", "a", base, 1, 1)); err != nil {
			return err
		}
		if _, found, err := store.Latest(ctx, "a"); err != nil || !found {
			t.Fatalf("write must be visible inside the transaction: found=%v err=%v", found, err)
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("expected rollback error, got %v", err)
	}
	if _, found, err := store.Latest(ctx, "a"); err != nil || found {
		t.Fatalf("rolled back review must be gone: found=%v err=%v", found, err)
	}
}

func TestSQLiteReviewStoreSubscriptionFollowsWrites(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := reviewout.NewSQLiteReviewStore(openDB(t, "a"), watch.NewHub(nil))

	stream, err := store.SubscribeForTopic(ctx, "a")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if first := <-stream; len(first) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", first)
	}
	if err := store.Add(ctx, review("r-1", "a", base, 1, 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	select {
	case next := <-stream:
		if len(next) != 1 {
			t.Fatalf("unexpected snapshot: %+v", next)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscription did not refresh")
	}
}
