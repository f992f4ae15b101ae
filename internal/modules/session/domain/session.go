package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "spacedrep/internal/platform/errors"
)

const SchemaVersion = 1

const maxAverageConfidence = 4.0

// SessionQuality buckets a session by its success rate.
type SessionQuality int

const (
	QualityNeedsImprovement SessionQuality = iota
	QualityAverage
	QualityGood
	QualityExcellent
)

var qualityTable = [...]struct {
	name    string
	minRate float64
}{
	QualityNeedsImprovement: {name: "NeedsImprovement", minRate: 0},
	QualityAverage:          {name: "Average", minRate: 0.5},
	QualityGood:             {name: "Good", minRate: 0.75},
	QualityExcellent:        {name: "Excellent", minRate: 0.9},
}

func (q SessionQuality) String() string {
	if q < QualityNeedsImprovement || q > QualityExcellent {
		return fmt.Sprintf("SessionQuality(%d)", int(q))
	}
	return qualityTable[q].name
}

func QualityForSuccessRate(rate float64) SessionQuality {
	for q := QualityExcellent; q > QualityNeedsImprovement; q-- {
		if rate >= qualityTable[q].minRate {
			return q
		}
	}
	return QualityNeedsImprovement
}

// StudySession groups the reviews done in one sitting. EndTime is nil while the
// session is active; once set the session never changes again.
type StudySession struct {
	ID                string
	StartTime         time.Time
	EndTime           *time.Time
	TopicsReviewed    []string
	TotalCorrect      int
	TotalReviewed     int
	AverageConfidence float64
	Goal              string
	Outcome           string
}

func NewStudySession(id string, start time.Time, goal string) (StudySession, error) {
	session := StudySession{
		ID:        strings.TrimSpace(id),
		StartTime: start,
		Goal:      strings.TrimSpace(goal),
	}
	if err := session.Validate(); err != nil {
		return StudySession{}, err
	}
	return session, nil
}

func (s StudySession) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if s.StartTime.IsZero() {
		return fmt.Errorf("%w: session %s has no start time", apperrors.ErrInvalidInput, s.ID)
	}
	if s.TotalReviewed < 0 || s.TotalCorrect < 0 {
		return fmt.Errorf("%w: session %s totals must be non-negative", apperrors.ErrInvalidInput, s.ID)
	}
	if s.TotalCorrect > s.TotalReviewed {
		return fmt.Errorf("%w: session %s has more correct than reviewed", apperrors.ErrInvalidInput, s.ID)
	}
	if math.IsNaN(s.AverageConfidence) || math.IsInf(s.AverageConfidence, 0) || s.AverageConfidence < 0 || s.AverageConfidence > maxAverageConfidence {
		return fmt.Errorf("%w: session %s average confidence %.2f outside [0, 4]", apperrors.ErrInvalidInput, s.ID, s.AverageConfidence)
	}
	if s.EndTime != nil && s.EndTime.Before(s.StartTime) {
		return fmt.Errorf("%w: session %s ends before it starts", apperrors.ErrInvalidInput, s.ID)
	}
	return nil
}

func (s StudySession) IsCompleted() bool {
	return s.EndTime != nil
}

func (s StudySession) SuccessRate() float64 {
	if s.TotalReviewed == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalReviewed)
}

func (s StudySession) Quality() SessionQuality {
	return QualityForSuccessRate(s.SuccessRate())
}

// DurationMinutes is 0 while the session is active.
func (s StudySession) DurationMinutes() int {
	if s.EndTime == nil {
		return 0
	}
	return int(s.EndTime.Sub(s.StartTime).Minutes())
}

// WithProgress returns the session with one more rating counted. A topic is
// listed once, at its first review.
func (s StudySession) WithProgress(topicID string, correct bool, confidence float64) (StudySession, error) {
	if s.IsCompleted() {
		return StudySession{}, fmt.Errorf("%w: session %s", apperrors.ErrSessionFinalized, s.ID)
	}
	topicID = strings.TrimSpace(topicID)
	if topicID == "" {
		return StudySession{}, fmt.Errorf("%w: topic id is required", apperrors.ErrInvalidInput)
	}
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) || confidence < 0 || confidence > maxAverageConfidence {
		return StudySession{}, fmt.Errorf("%w: confidence %.2f outside [0, 4]", apperrors.ErrInvalidInput, confidence)
	}
	next := s
	next.TopicsReviewed = append([]string(nil), s.TopicsReviewed...)
	if !contains(next.TopicsReviewed, topicID) {
		next.TopicsReviewed = append(next.TopicsReviewed, topicID)
	}
	next.AverageConfidence = (s.AverageConfidence*float64(s.TotalReviewed) + confidence) / float64(s.TotalReviewed+1)
	next.TotalReviewed++
	if correct {
		next.TotalCorrect++
	}
	if err := next.Validate(); err != nil {
		return StudySession{}, err
	}
	return next, nil
}

// Finalize ends the session at end.
func (s StudySession) Finalize(end time.Time, outcome string) (StudySession, error) {
	if s.IsCompleted() {
		return StudySession{}, fmt.Errorf("%w: session %s", apperrors.ErrSessionFinalized, s.ID)
	}
	next := s
	next.TopicsReviewed = append([]string(nil), s.TopicsReviewed...)
	next.EndTime = &end
	next.Outcome = strings.TrimSpace(outcome)
	if err := next.Validate(); err != nil {
		return StudySession{}, err
	}
	return next, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
