package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sessiondto "spacedrep/internal/modules/session/dto"
	apperrors "spacedrep/internal/platform/errors"
)

func TestRecordProgressRejectsOutOfRangeConfidence(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}}
	uc := newUsecase(t, t.TempDir(), clk, &seqID{ids: []string{"sess-1"}}, false)
	ctx := context.Background()
	if _, err := uc.Start(ctx, sessiondto.StartInput{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, confidence := range []float64{-0.1, 4.1} {
		if _, err := uc.RecordProgress(ctx, sessiondto.ProgressInput{TopicID: "t", Confidence: confidence}); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("confidence %.1f: expected invalid input, got %v", confidence, err)
		}
	}
	if _, err := uc.RecordProgress(ctx, sessiondto.ProgressInput{TopicID: " ", Confidence: 1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank topic: expected invalid input, got %v", err)
	}
}

func TestListFiltersByWindowAndAllowsRestart(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
		time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 25, 9, 20, 0, 0, time.UTC),
		time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC),
	}}
	uc := newUsecase(t, t.TempDir(), clk, &seqID{ids: []string{"old", "new"}}, false)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := uc.Start(ctx, sessiondto.StartInput{}); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		if _, err := uc.End(ctx, sessiondto.EndInput{}); err != nil {
			t.Fatalf("end %d: %v", i, err)
		}
	}

	all, err := uc.List(ctx, sessiondto.ListInput{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].ID != "new" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	recent, err := uc.List(ctx, sessiondto.ListInput{Days: 7})
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "new" {
		t.Fatalf("expected only the recent session, got %+v", recent)
	}
	if _, err := uc.List(ctx, sessiondto.ListInput{Days: -1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("negative window must fail, got %v", err)
	}
}
