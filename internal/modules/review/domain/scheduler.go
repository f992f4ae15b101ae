package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "spacedrep/internal/platform/errors"
)

const (
	forgotEasePenalty = 0.2
	maxIntervalDays   = 36500
)

// Schedule computes the next review of a topic from its latest review (nil for a
// first review) and the new rating. It never reads the clock.
func Schedule(prior *Review, confidence ConfidenceLevel, now time.Time) (SpacedRepetitionResult, error) {
	if !confidence.IsValid() {
		return SpacedRepetitionResult{}, fmt.Errorf("%w: confidence level must be one of Forgot, Hard, Good, Easy", apperrors.ErrInvalidInput)
	}
	if prior == nil {
		return result(1, InitialEaseFactor, 1, confidence, now), nil
	}
	if err := prior.Validate(); err != nil {
		return SpacedRepetitionResult{}, fmt.Errorf("prior review: %w", err)
	}

	count := prior.ReviewCount + 1
	if confidence == Forgot {
		ease := math.Max(MinEaseFactor, prior.EaseFactor-forgotEasePenalty)
		return result(1, ease, count, confidence, now), nil
	}

	ease := NextEaseFactor(prior.EaseFactor, confidence)
	interval := int(math.Round(float64(prior.PreviousInterval) * ease * confidence.Multiplier()))
	if interval < 1 {
		interval = 1
	}
	if (confidence == Hard || confidence == Good) && interval < prior.PreviousInterval {
		interval = prior.PreviousInterval
	}
	if interval > maxIntervalDays {
		interval = maxIntervalDays
	}
	return result(interval, ease, count, confidence, now), nil
}

// NextEaseFactor applies the SM-2 ease adjustment for a successful rating.
func NextEaseFactor(ease float64, confidence ConfidenceLevel) float64 {
	q := 1 - confidence.Multiplier()
	return math.Max(MinEaseFactor, ease+(0.1-q*(0.08+q*0.02)))
}

func result(interval int, ease float64, count int, confidence ConfidenceLevel, now time.Time) SpacedRepetitionResult {
	return SpacedRepetitionResult{
		NextReviewDate: now.Add(time.Duration(interval) * day),
		IntervalDays:   interval,
		EaseFactor:     ease,
		Confidence:     confidence,
		ReviewCount:    count,
		WasCorrect:     confidence.WasCorrect(),
	}
}
