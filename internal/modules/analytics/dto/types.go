package dto

import "time"

type ReviewStatsInput struct {
	// TopicID restricts the stats to one topic when set.
	TopicID string
}

type DaysInput struct {
	// Days is the trailing window in calendar days; 0 uses the configured default.
	Days int
}

type CategoryRetentionOutput struct {
	Category      string
	RetentionRate float64
	ReviewCount   int
}

type ReviewStatsOutput struct {
	TotalReviews           int
	AverageConfidence      float64
	RetentionRate          float64
	StreakDays             int
	ReviewsThisWeek        int
	ReviewsThisMonth       int
	StrongestCategories    []CategoryRetentionOutput
	WeakestCategories      []CategoryRetentionOutput
	BestStudyHour          int
	AverageSessionDuration float64
}

type RetentionPointOutput struct {
	Date              time.Time
	RetentionRate     float64
	ReviewCount       int
	AverageConfidence float64
}

type SessionStatsOutput struct {
	SessionID              string
	DurationMinutes        int
	TopicsReviewed         int
	SuccessRate            float64
	AverageConfidence      float64
	Quality                string
	CategoriesStudied      []string
	DifficultyDistribution map[string]int
	ConfidenceBreakdown    map[string]int
}

type ProductivityPointOutput struct {
	Date               time.Time
	SessionCount       int
	TotalMinutes       int
	AverageSuccessRate float64
}

type SessionAnalyticsOutput struct {
	TotalSessions           int
	AverageSessionDuration  float64
	TotalStudyTime          int
	AverageTopicsPerSession float64
	AverageSuccessRate      float64
	StudyStreak             int
	PreferredStudyTimes     []int
	ProductivityTrends      []ProductivityPointOutput
}

type TopicSummary struct {
	ID        string
	Name      string
	Category  string
	CreatedAt time.Time
}

type TopicStatsOutput struct {
	TotalTopics              int
	InactiveTopics           int
	TopicsByCategory         map[string]int
	TopicsByDifficulty       map[string]int
	AverageTopicsPerCategory float64
	MostActiveCategory       string
	NewestTopic              *TopicSummary
	OldestTopic              *TopicSummary
}

type TopicProgressItem struct {
	Topic        TopicSummary
	Stage        string
	ReviewCount  int
	IntervalDays int
}

type TopicProgressOutput struct {
	Topics []TopicProgressItem
	Stages map[string]int
}

type DashboardOutput struct {
	GeneratedAt time.Time
	Reviews     ReviewStatsOutput
	Topics      TopicStatsOutput
	Sessions    SessionAnalyticsOutput
}
