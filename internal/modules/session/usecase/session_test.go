package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sessionout "spacedrep/internal/modules/session/adapter/out"
	sessiondto "spacedrep/internal/modules/session/dto"
	sessionin "spacedrep/internal/modules/session/port/in"
	sessionport "spacedrep/internal/modules/session/port/out"
	"spacedrep/internal/modules/session/service"
	"spacedrep/internal/modules/session/usecase"
	apperrors "spacedrep/internal/platform/errors"
	"spacedrep/internal/platform/sqlitedb"
	"spacedrep/internal/platform/watch"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type seqID struct {
	ids []string
	idx int
}

func (s *seqID) New() string {
	v := s.ids[s.idx%len(s.ids)]
	s.idx++
	return v
}

func openDB(t *testing.T, vault string) *sql.DB {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(vault, ".spacedrep", "spacedrep.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUsecase(t *testing.T, vault string, clk *fakeClock, ids *seqID, journal bool) sessionin.Usecase {
	t.Helper()
	store := sessionout.NewSQLiteSessionStore(openDB(t, vault), watch.NewHub(nil))
	var j sessionport.SessionJournal
	if journal {
		j = sessionout.NewVaultSessionJournal(vault)
	}
	return usecase.NewInteractor(service.NewSessionService(clk, ids, store, j, nil))
}

func TestSessionLifecycleWithProgressAndJournal(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 25, 10, 45, 0, 0, time.UTC),
	}}
	uc := newUsecase(t, vault, clk, &seqID{ids: []string{"sess-1"}}, true)
	ctx := context.Background()

	start, err := uc.Start(ctx, sessiondto.StartInput{Goal: "Graph algorithms"})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if start.ID != "sess-1" || !start.Active || start.DurationMinutes != 0 {
		t.Fatalf("unexpected started session: %+v", start)
	}

	ratings := []struct {
		topic      string
		correct    bool
		confidence float64
	}{
		{"topic-a", true, 2.5},
		{"topic-b", false, 0},
		{"topic-a", true, 1.0},
	}
	for _, r := range ratings {
		if _, err := uc.RecordProgress(ctx, sessiondto.ProgressInput{TopicID: r.topic, Correct: r.correct, Confidence: r.confidence}); err != nil {
			t.Fatalf("record progress: %v", err)
		}
	}

	active, err := uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active session: %v", err)
	}
	if active.TotalReviewed != 3 || active.TotalCorrect != 2 {
		t.Fatalf("unexpected totals: %+v", active)
	}
	if len(active.TopicsReviewed) != 2 || active.TopicsReviewed[0] != "topic-a" || active.TopicsReviewed[1] != "topic-b" {
		t.Fatalf("topics must be listed once in review order: %v", active.TopicsReviewed)
	}
	if diff := active.AverageConfidence - 3.5/3; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("unexpected average confidence %.4f", active.AverageConfidence)
	}

	end, err := uc.End(ctx, sessiondto.EndInput{Outcome: "Finished Dijkstra"})
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if end.Session.DurationMinutes != 45 || end.Session.Active {
		t.Fatalf("unexpected ended session: %+v", end.Session)
	}
	if end.Session.Quality != "Average" {
		t.Fatalf("2/3 correct is Average, got %s", end.Session.Quality)
	}

	if _, err := uc.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session after end, got %v", err)
	}
	b, err := os.ReadFile(end.Path)
	if err != nil {
		t.Fatalf("read session note: %v", err)
	}
	note := string(b)
	for _, want := range []string{"id: sess-1", "duration_minutes: 45", "total_reviewed: 3", "quality: Average", "Finished Dijkstra"} {
		if !strings.Contains(note, want) {
			t.Fatalf("session note missing %q: %s", want, note)
		}
	}

	stored, err := uc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if stored.EndTime == nil || stored.Goal != "Graph algorithms" || stored.Outcome != "Finished Dijkstra" {
		t.Fatalf("ended session must be persisted: %+v", stored)
	}
}

func TestStartFailsWhileAnotherSessionIsActive(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}}
	uc := newUsecase(t, vault, clk, &seqID{ids: []string{"sess-1", "sess-2"}}, false)
	ctx := context.Background()

	if _, err := uc.Start(ctx, sessiondto.StartInput{}); err != nil {
		t.Fatalf("first start should succeed: %v", err)
	}
	if _, err := uc.Start(ctx, sessiondto.StartInput{}); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected active session exists error, got %v", err)
	}
	active, err := uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.ID != "sess-1" {
		t.Fatalf("the first session must stay active, got %s", active.ID)
	}
}

func TestEndFailsWithoutActiveOrWithMismatchedID(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 25, 10, 5, 0, 0, time.UTC),
	}}
	uc := newUsecase(t, vault, clk, &seqID{ids: []string{"sess-1"}}, false)
	ctx := context.Background()

	if _, err := uc.End(ctx, sessiondto.EndInput{Outcome: "x"}); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session error, got %v", err)
	}
	if _, err := uc.RecordProgress(ctx, sessiondto.ProgressInput{TopicID: "t", Correct: true, Confidence: 1}); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session on progress, got %v", err)
	}
	if _, err := uc.Start(ctx, sessiondto.StartInput{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.End(ctx, sessiondto.EndInput{SessionID: "other"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("mismatched session id should fail, got %v", err)
	}
	end, err := uc.End(ctx, sessiondto.EndInput{SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if end.Path != "" {
		t.Fatalf("no journal configured, expected empty path, got %s", end.Path)
	}
}
