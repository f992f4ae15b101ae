package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "spacedrep/internal/platform/errors"
)

const (
	masteryReviewCount  = 4
	masteryIntervalDays = 30
	attentionHardCount  = 3
)

// SpacedRepetitionResult is the outcome of one scheduling step. It is never
// stored directly; ToReview turns it into the persisted record.
type SpacedRepetitionResult struct {
	NextReviewDate time.Time
	IntervalDays   int
	EaseFactor     float64
	Confidence     ConfidenceLevel
	ReviewCount    int
	WasCorrect     bool
}

func (r SpacedRepetitionResult) IndicatesMastery() bool {
	return r.ReviewCount >= masteryReviewCount &&
		r.IntervalDays >= masteryIntervalDays &&
		(r.Confidence == Good || r.Confidence == Easy)
}

func (r SpacedRepetitionResult) NeedsMoreAttention() bool {
	return r.Confidence == Forgot || (r.ReviewCount >= attentionHardCount && r.Confidence == Hard)
}

func (r SpacedRepetitionResult) ToReview(id, topicID string, reviewedAt time.Time) (Review, error) {
	if strings.TrimSpace(topicID) == "" {
		return Review{}, fmt.Errorf("%w: topic id is required", apperrors.ErrInvalidInput)
	}
	review := Review{
		ID:               id,
		TopicID:          topicID,
		ReviewedAt:       reviewedAt,
		Confidence:       r.Confidence,
		PreviousInterval: r.IntervalDays,
		NextReviewDate:   r.NextReviewDate,
		EaseFactor:       r.EaseFactor,
		ReviewCount:      r.ReviewCount,
	}
	if err := review.Validate(); err != nil {
		return Review{}, err
	}
	return review, nil
}

// ResultOfReview recovers the scheduling outcome a stored review recorded.
func ResultOfReview(r Review) SpacedRepetitionResult {
	return SpacedRepetitionResult{
		NextReviewDate: r.NextReviewDate,
		IntervalDays:   r.PreviousInterval,
		EaseFactor:     r.EaseFactor,
		Confidence:     r.Confidence,
		ReviewCount:    r.ReviewCount,
		WasCorrect:     r.Confidence.WasCorrect(),
	}
}
