package domain_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"spacedrep/internal/modules/session/domain"
	apperrors "spacedrep/internal/platform/errors"
)

var start = time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)

func TestQualityThresholds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		correct, reviewed int
		want              domain.SessionQuality
	}{
		{9, 10, domain.QualityExcellent},
		{10, 10, domain.QualityExcellent},
		{3, 4, domain.QualityGood},
		{1, 2, domain.QualityAverage},
		{4, 10, domain.QualityNeedsImprovement},
		{0, 0, domain.QualityNeedsImprovement},
	}
	for _, tc := range cases {
		s := domain.StudySession{ID: "s", StartTime: start, TotalCorrect: tc.correct, TotalReviewed: tc.reviewed}
		if got := s.Quality(); got != tc.want {
			t.Fatalf("%d/%d: expected %s, got %s", tc.correct, tc.reviewed, tc.want, got)
		}
	}
	nine := domain.StudySession{ID: "s", StartTime: start, TotalCorrect: 9, TotalReviewed: 10}
	if nine.SuccessRate() != 0.9 {
		t.Fatalf("expected 0.9 success rate, got %.3f", nine.SuccessRate())
	}
}

func TestValidateRejectsBrokenInvariants(t *testing.T) {
	t.Parallel()
	before := start.Add(-time.Minute)
	cases := []domain.StudySession{
		{ID: "", StartTime: start},
		{ID: "s"},
		{ID: "s", StartTime: start, TotalCorrect: 2, TotalReviewed: 1},
		{ID: "s", StartTime: start, TotalReviewed: -1},
		{ID: "s", StartTime: start, AverageConfidence: 4.5},
		{ID: "s", StartTime: start, AverageConfidence: math.Inf(1)},
		{ID: "s", StartTime: start, AverageConfidence: math.NaN()},
		{ID: "s", StartTime: start, EndTime: &before},
	}
	for i, s := range cases {
		if err := s.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestFinalizeIsTerminal(t *testing.T) {
	t.Parallel()
	s, err := domain.NewStudySession("s-1", start, " revise ")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s.Goal != "revise" || s.IsCompleted() || s.DurationMinutes() != 0 {
		t.Fatalf("unexpected new session: %+v", s)
	}
	s, err = s.WithProgress("topic-1", true, 2.5)
	if err != nil {
		t.Fatalf("with progress: %v", err)
	}
	ended, err := s.Finalize(start.Add(90*time.Minute), "done")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if ended.DurationMinutes() != 90 || !ended.IsCompleted() {
		t.Fatalf("unexpected ended session: %+v", ended)
	}
	if s.IsCompleted() {
		t.Fatalf("finalize must not mutate the receiver")
	}
	if _, err := ended.WithProgress("topic-2", true, 1); !errors.Is(err, apperrors.ErrSessionFinalized) {
		t.Fatalf("expected finalized error on progress, got %v", err)
	}
	if _, err := ended.Finalize(start.Add(2*time.Hour), ""); !errors.Is(err, apperrors.ErrSessionFinalized) {
		t.Fatalf("expected finalized error on second finalize, got %v", err)
	}
	if _, err := s.Finalize(start.Add(-time.Hour), ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("end before start must fail, got %v", err)
	}
}

func TestWithProgressDoesNotShareTopicSlice(t *testing.T) {
	t.Parallel()
	s := domain.StudySession{ID: "s", StartTime: start, TopicsReviewed: make([]string, 0, 4)}
	a, err := s.WithProgress("a", true, 1)
	if err != nil {
		t.Fatalf("progress a: %v", err)
	}
	b, err := s.WithProgress("b", false, 0)
	if err != nil {
		t.Fatalf("progress b: %v", err)
	}
	if a.TopicsReviewed[0] != "a" || b.TopicsReviewed[0] != "b" {
		t.Fatalf("progress values must be independent: %v %v", a.TopicsReviewed, b.TopicsReviewed)
	}
}
