package out

import (
	"fmt"
	"time"

	"github.com/open-spaced-repetition/go-fsrs"

	"spacedrep/internal/modules/review/domain"
	reviewout "spacedrep/internal/modules/review/port/out"
	apperrors "spacedrep/internal/platform/errors"
)

// FSRSForecaster replays a topic's ratings through the FSRS model to get a
// second opinion on when it falls due.
type FSRSForecaster struct {
	params fsrs.Parameters
}

func NewFSRSForecaster() reviewout.Forecaster {
	return &FSRSForecaster{params: fsrs.DefaultParam()}
}

var fsrsRatings = map[domain.ConfidenceLevel]fsrs.Rating{
	domain.Forgot: fsrs.Again,
	domain.Hard:   fsrs.Hard,
	domain.Good:   fsrs.Good,
	domain.Easy:   fsrs.Easy,
}

// Forecast expects history oldest first.
func (f *FSRSForecaster) Forecast(history []domain.Review, _ time.Time) (time.Time, error) {
	if len(history) == 0 {
		return time.Time{}, fmt.Errorf("%w: forecast needs at least one review", apperrors.ErrInvalidInput)
	}
	card := fsrs.Card{Due: history[0].ReviewedAt, State: fsrs.New}
	for _, review := range history {
		rating, ok := fsrsRatings[review.Confidence]
		if !ok {
			return time.Time{}, fmt.Errorf("%w: review %s has invalid confidence", apperrors.ErrInvalidInput, review.ID)
		}
		info, ok := f.params.Repeat(card, review.ReviewedAt)[rating]
		if !ok {
			return time.Time{}, fmt.Errorf("rating %d not supported", rating)
		}
		card = info.Card
	}
	return card.Due, nil
}
