package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "spacedrep/internal/platform/errors"
)

const (
	MinEaseFactor     = 1.3
	InitialEaseFactor = 2.5
	day               = 24 * time.Hour
)

// Review is one graded recall of a topic. PreviousInterval holds the interval in
// days this review scheduled; the next review grows from it.
type Review struct {
	ID               string
	TopicID          string
	ReviewedAt       time.Time
	Confidence       ConfidenceLevel
	PreviousInterval int
	NextReviewDate   time.Time
	EaseFactor       float64
	ReviewCount      int
}

func (r Review) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: review id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(r.TopicID) == "" {
		return fmt.Errorf("%w: review topic id is required", apperrors.ErrInvalidInput)
	}
	if r.ReviewedAt.IsZero() {
		return fmt.Errorf("%w: review %s has no timestamp", apperrors.ErrInvalidInput, r.ID)
	}
	if !r.Confidence.IsValid() {
		return fmt.Errorf("%w: review %s has invalid confidence", apperrors.ErrInvalidInput, r.ID)
	}
	if math.IsNaN(r.EaseFactor) || math.IsInf(r.EaseFactor, 0) {
		return fmt.Errorf("%w: review %s ease factor is not finite", apperrors.ErrInvalidInput, r.ID)
	}
	if r.EaseFactor < MinEaseFactor {
		return fmt.Errorf("%w: review %s ease factor %.2f below %.1f", apperrors.ErrInvalidInput, r.ID, r.EaseFactor, MinEaseFactor)
	}
	if r.ReviewCount < 1 {
		return fmt.Errorf("%w: review %s count must be at least 1", apperrors.ErrInvalidInput, r.ID)
	}
	if r.PreviousInterval < 1 || r.PreviousInterval > maxIntervalDays {
		return fmt.Errorf("%w: review %s interval must be between 1 and %d days", apperrors.ErrInvalidInput, r.ID, maxIntervalDays)
	}
	return nil
}

func IsOverdue(r Review, now time.Time) bool {
	return now.After(r.NextReviewDate)
}

// DaysOverdue counts whole days past the due date, 0 when not overdue.
func DaysOverdue(r Review, now time.Time) int {
	if !IsOverdue(r, now) {
		return 0
	}
	return int(now.Sub(r.NextReviewDate) / day)
}

func Urgency(r Review, now time.Time) UrgencyLevel {
	return UrgencyForDaysOverdue(DaysOverdue(r, now))
}
