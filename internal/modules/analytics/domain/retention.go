package domain

import (
	"time"

	reviewdomain "spacedrep/internal/modules/review/domain"
)

// RetentionDataPoint aggregates one calendar day. A day without reviews reports
// zeros; check ReviewCount before reading RetentionRate.
type RetentionDataPoint struct {
	Date              time.Time
	RetentionRate     float64
	ReviewCount       int
	AverageConfidence float64
}

type dayTally struct {
	reviews       int
	correct       int
	confidenceSum float64
}

// RetentionHistory folds reviews into per-day retention over the trailing days
// ending on now's calendar day. Reviews outside the window are validated and
// otherwise ignored.
type RetentionHistory struct {
	days  []time.Time
	index map[string]int
	tally []dayTally
	loc   *time.Location
}

func NewRetentionHistory(days int, now time.Time) *RetentionHistory {
	starts := window(days, now)
	h := &RetentionHistory{
		days:  starts,
		index: make(map[string]int, len(starts)),
		tally: make([]dayTally, len(starts)),
		loc:   now.Location(),
	}
	for i, start := range starts {
		h.index[dayKey(start, h.loc)] = i
	}
	return h
}

func (h *RetentionHistory) Add(reviews ...reviewdomain.Review) error {
	for _, review := range reviews {
		if err := review.Validate(); err != nil {
			return err
		}
		i, ok := h.index[dayKey(review.ReviewedAt, h.loc)]
		if !ok {
			continue
		}
		h.tally[i].reviews++
		if review.Confidence.WasCorrect() {
			h.tally[i].correct++
		}
		h.tally[i].confidenceSum += review.Confidence.Multiplier()
	}
	return nil
}

// Points returns one point per day, oldest first.
func (h *RetentionHistory) Points() []RetentionDataPoint {
	points := make([]RetentionDataPoint, len(h.days))
	for i, start := range h.days {
		t := h.tally[i]
		points[i] = RetentionDataPoint{Date: start, ReviewCount: t.reviews}
		if t.reviews > 0 {
			points[i].RetentionRate = float64(t.correct) / float64(t.reviews)
			points[i].AverageConfidence = t.confidenceSum / float64(t.reviews)
		}
	}
	return points
}

func ComputeRetentionRateHistory(reviews []reviewdomain.Review, days int, now time.Time) ([]RetentionDataPoint, error) {
	history := NewRetentionHistory(days, now)
	if err := history.Add(reviews...); err != nil {
		return nil, err
	}
	return history.Points(), nil
}
