package out_test

import (
	"errors"
	"testing"
	"time"

	reviewout "spacedrep/internal/modules/review/adapter/out"
	"spacedrep/internal/modules/review/domain"
	apperrors "spacedrep/internal/platform/errors"
)

func TestFSRSForecastMovesForwardWithSuccessfulRecall(t *testing.T) {
	t.Parallel()
	forecaster := reviewout.NewFSRSForecaster()
	history := []domain.Review{review("r-1", "a", base, 1, 1)}
	history[0].Confidence = domain.Good
	first, err := forecaster.Forecast(history, base)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if !first.After(base) {
		t.Fatalf("forecast must be after the review, got %s", first)
	}

	second := review("r-2", "a", first, 3, 2)
	second.Confidence = domain.Easy
	later, err := forecaster.Forecast(append(history, second), first)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if !later.After(first) {
		t.Fatalf("easy recall must push the due date out: %s vs %s", later, first)
	}
}

func TestFSRSForecastRejectsEmptyHistory(t *testing.T) {
	t.Parallel()
	if _, err := reviewout.NewFSRSForecaster().Forecast(nil, time.Now()); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
