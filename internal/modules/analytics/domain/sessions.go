package domain

import (
	"fmt"
	"slices"
	"sort"
	"time"

	reviewdomain "spacedrep/internal/modules/review/domain"
	sessiondomain "spacedrep/internal/modules/session/domain"
)

type StudySessionStats struct {
	SessionID              string
	DurationMinutes        int
	TopicsReviewed         int
	SuccessRate            float64
	AverageConfidence      float64
	Quality                sessiondomain.SessionQuality
	CategoriesStudied      []string
	DifficultyDistribution map[string]int
	ConfidenceBreakdown    map[string]int
}

// ComputeStudySessionStats summarises one session. reviews are the reviews made
// during it; the difficulty and category breakdowns need a catalog.
func ComputeStudySessionStats(session sessiondomain.StudySession, reviews []reviewdomain.Review, catalog TopicCatalog) (StudySessionStats, error) {
	if err := session.Validate(); err != nil {
		return StudySessionStats{}, err
	}
	stats := StudySessionStats{
		SessionID:              session.ID,
		DurationMinutes:        session.DurationMinutes(),
		TopicsReviewed:         len(session.TopicsReviewed),
		SuccessRate:            session.SuccessRate(),
		AverageConfidence:      session.AverageConfidence,
		Quality:                session.Quality(),
		CategoriesStudied:      []string{},
		DifficultyDistribution: map[string]int{},
		ConfidenceBreakdown:    map[string]int{},
	}
	for _, review := range reviews {
		if err := review.Validate(); err != nil {
			return StudySessionStats{}, err
		}
		stats.ConfidenceBreakdown[review.Confidence.String()]++
	}
	if catalog == nil {
		return stats, nil
	}
	categories := map[string]bool{}
	for _, topicID := range session.TopicsReviewed {
		topic, err := catalog.lookup(topicID)
		if err != nil {
			return StudySessionStats{}, fmt.Errorf("session %s: %w", session.ID, err)
		}
		stats.DifficultyDistribution[topic.DifficultyLevel.String()]++
		if !categories[topic.Category] {
			categories[topic.Category] = true
			stats.CategoriesStudied = append(stats.CategoriesStudied, topic.Category)
		}
	}
	sort.Strings(stats.CategoriesStudied)
	return stats, nil
}

// AverageSessionMinutes is the mean duration of completed sessions. A non-empty
// topicID keeps only sessions that reviewed that topic.
func AverageSessionMinutes(sessions []sessiondomain.StudySession, topicID string) (float64, error) {
	var total, n int
	for _, session := range sessions {
		if err := session.Validate(); err != nil {
			return 0, err
		}
		if !session.IsCompleted() {
			continue
		}
		if topicID != "" && !slices.Contains(session.TopicsReviewed, topicID) {
			continue
		}
		total += session.DurationMinutes()
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return float64(total) / float64(n), nil
}

type ProductivityDataPoint struct {
	Date               time.Time
	SessionCount       int
	TotalMinutes       int
	AverageSuccessRate float64
}

type SessionAnalytics struct {
	TotalSessions           int
	AverageSessionDuration  float64
	TotalStudyTime          int
	AverageTopicsPerSession float64
	AverageSuccessRate      float64
	StudyStreak             int
	PreferredStudyTimes     []int
	ProductivityTrends      []ProductivityDataPoint
}

type productivityTally struct {
	sessions   int
	minutes    int
	successSum float64
}

// ComputeSessionAnalytics aggregates sessions started within the trailing days
// ending on now's calendar day. The study streak looks at every session given.
func ComputeSessionAnalytics(sessions []sessiondomain.StudySession, days int, now time.Time) (SessionAnalytics, error) {
	loc := now.Location()
	starts := window(days, now)
	index := make(map[string]int, len(starts))
	for i, start := range starts {
		index[dayKey(start, loc)] = i
	}
	tallies := make([]productivityTally, len(starts))

	var (
		out        SessionAnalytics
		topics     int
		successSum float64
		hours      [24]int
		active     = map[string]bool{}
	)
	for _, session := range sessions {
		if err := session.Validate(); err != nil {
			return SessionAnalytics{}, err
		}
		key := dayKey(session.StartTime, loc)
		active[key] = true
		i, ok := index[key]
		if !ok || session.StartTime.After(now) {
			continue
		}
		minutes := session.DurationMinutes()
		out.TotalSessions++
		out.TotalStudyTime += minutes
		topics += len(session.TopicsReviewed)
		successSum += session.SuccessRate()
		hours[session.StartTime.In(loc).Hour()]++

		tallies[i].sessions++
		tallies[i].minutes += minutes
		tallies[i].successSum += session.SuccessRate()
	}

	out.StudyStreak = streak(active, now)
	out.PreferredStudyTimes = modeHours(hours)
	if out.PreferredStudyTimes == nil {
		out.PreferredStudyTimes = []int{}
	}
	out.ProductivityTrends = make([]ProductivityDataPoint, len(starts))
	for i, start := range starts {
		point := ProductivityDataPoint{Date: start, SessionCount: tallies[i].sessions, TotalMinutes: tallies[i].minutes}
		if tallies[i].sessions > 0 {
			point.AverageSuccessRate = tallies[i].successSum / float64(tallies[i].sessions)
		}
		out.ProductivityTrends[i] = point
	}
	if out.TotalSessions > 0 {
		n := float64(out.TotalSessions)
		out.AverageSessionDuration = float64(out.TotalStudyTime) / n
		out.AverageTopicsPerSession = float64(topics) / n
		out.AverageSuccessRate = successSum / n
	}
	return out, nil
}
