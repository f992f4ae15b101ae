package usecase

import (
	"context"

	"spacedrep/internal/modules/analytics/domain"
	analyticsdto "spacedrep/internal/modules/analytics/dto"
	analyticsin "spacedrep/internal/modules/analytics/port/in"
	"spacedrep/internal/modules/analytics/service"
	topicdomain "spacedrep/internal/modules/topic/domain"
)

type Interactor struct {
	svc *service.AnalyticsService
}

func NewInteractor(svc *service.AnalyticsService) analyticsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ReviewStats(ctx context.Context, input analyticsdto.ReviewStatsInput) (analyticsdto.ReviewStatsOutput, error) {
	stats, err := i.svc.ReviewStats(ctx, input.TopicID)
	if err != nil {
		return analyticsdto.ReviewStatsOutput{}, err
	}
	return toReviewStats(stats), nil
}

func (i *Interactor) RetentionHistory(ctx context.Context, input analyticsdto.DaysInput) ([]analyticsdto.RetentionPointOutput, error) {
	points, err := i.svc.RetentionHistory(ctx, input.Days)
	if err != nil {
		return nil, err
	}
	out := make([]analyticsdto.RetentionPointOutput, 0, len(points))
	for _, p := range points {
		out = append(out, analyticsdto.RetentionPointOutput{
			Date:              p.Date,
			RetentionRate:     p.RetentionRate,
			ReviewCount:       p.ReviewCount,
			AverageConfidence: p.AverageConfidence,
		})
	}
	return out, nil
}

func (i *Interactor) SessionStats(ctx context.Context, sessionID string) (analyticsdto.SessionStatsOutput, error) {
	stats, err := i.svc.SessionStats(ctx, sessionID)
	if err != nil {
		return analyticsdto.SessionStatsOutput{}, err
	}
	return analyticsdto.SessionStatsOutput{
		SessionID:              stats.SessionID,
		DurationMinutes:        stats.DurationMinutes,
		TopicsReviewed:         stats.TopicsReviewed,
		SuccessRate:            stats.SuccessRate,
		AverageConfidence:      stats.AverageConfidence,
		Quality:                stats.Quality.String(),
		CategoriesStudied:      stats.CategoriesStudied,
		DifficultyDistribution: stats.DifficultyDistribution,
		ConfidenceBreakdown:    stats.ConfidenceBreakdown,
	}, nil
}

func (i *Interactor) SessionAnalytics(ctx context.Context, input analyticsdto.DaysInput) (analyticsdto.SessionAnalyticsOutput, error) {
	analytics, err := i.svc.SessionAnalytics(ctx, input.Days)
	if err != nil {
		return analyticsdto.SessionAnalyticsOutput{}, err
	}
	return toSessionAnalytics(analytics), nil
}

func (i *Interactor) TopicStats(ctx context.Context) (analyticsdto.TopicStatsOutput, error) {
	stats, err := i.svc.TopicStats(ctx)
	if err != nil {
		return analyticsdto.TopicStatsOutput{}, err
	}
	return toTopicStats(stats), nil
}

func (i *Interactor) TopicProgress(ctx context.Context) (analyticsdto.TopicProgressOutput, error) {
	progress, err := i.svc.TopicProgress(ctx)
	if err != nil {
		return analyticsdto.TopicProgressOutput{}, err
	}
	out := analyticsdto.TopicProgressOutput{
		Topics: make([]analyticsdto.TopicProgressItem, 0, len(progress)),
		Stages: domain.StageCounts(progress),
	}
	for _, p := range progress {
		out.Topics = append(out.Topics, analyticsdto.TopicProgressItem{
			Topic:        toSummary(p.Topic),
			Stage:        p.Stage.String(),
			ReviewCount:  p.ReviewCount,
			IntervalDays: p.Interval,
		})
	}
	return out, nil
}

func (i *Interactor) Dashboard(ctx context.Context) (analyticsdto.DashboardOutput, error) {
	board, err := i.svc.Dashboard(ctx)
	if err != nil {
		return analyticsdto.DashboardOutput{}, err
	}
	return analyticsdto.DashboardOutput{
		GeneratedAt: board.GeneratedAt,
		Reviews:     toReviewStats(board.Reviews),
		Topics:      toTopicStats(board.Topics),
		Sessions:    toSessionAnalytics(board.Sessions),
	}, nil
}

func toReviewStats(stats domain.ReviewStats) analyticsdto.ReviewStatsOutput {
	return analyticsdto.ReviewStatsOutput{
		TotalReviews:           stats.TotalReviews,
		AverageConfidence:      stats.AverageConfidence,
		RetentionRate:          stats.RetentionRate,
		StreakDays:             stats.StreakDays,
		ReviewsThisWeek:        stats.ReviewsThisWeek,
		ReviewsThisMonth:       stats.ReviewsThisMonth,
		StrongestCategories:    toCategories(stats.StrongestCategories),
		WeakestCategories:      toCategories(stats.WeakestCategories),
		BestStudyHour:          stats.BestStudyHour,
		AverageSessionDuration: stats.AverageSessionDuration,
	}
}

func toCategories(values []domain.CategoryRetention) []analyticsdto.CategoryRetentionOutput {
	out := make([]analyticsdto.CategoryRetentionOutput, 0, len(values))
	for _, v := range values {
		out = append(out, analyticsdto.CategoryRetentionOutput{Category: v.Category, RetentionRate: v.RetentionRate, ReviewCount: v.ReviewCount})
	}
	return out
}

func toSessionAnalytics(a domain.SessionAnalytics) analyticsdto.SessionAnalyticsOutput {
	out := analyticsdto.SessionAnalyticsOutput{
		TotalSessions:           a.TotalSessions,
		AverageSessionDuration:  a.AverageSessionDuration,
		TotalStudyTime:          a.TotalStudyTime,
		AverageTopicsPerSession: a.AverageTopicsPerSession,
		AverageSuccessRate:      a.AverageSuccessRate,
		StudyStreak:             a.StudyStreak,
		PreferredStudyTimes:     a.PreferredStudyTimes,
		ProductivityTrends:      make([]analyticsdto.ProductivityPointOutput, 0, len(a.ProductivityTrends)),
	}
	for _, p := range a.ProductivityTrends {
		out.ProductivityTrends = append(out.ProductivityTrends, analyticsdto.ProductivityPointOutput{
			Date:               p.Date,
			SessionCount:       p.SessionCount,
			TotalMinutes:       p.TotalMinutes,
			AverageSuccessRate: p.AverageSuccessRate,
		})
	}
	return out
}

func toTopicStats(stats domain.TopicStats) analyticsdto.TopicStatsOutput {
	out := analyticsdto.TopicStatsOutput{
		TotalTopics:              stats.TotalTopics,
		InactiveTopics:           stats.InactiveTopics,
		TopicsByCategory:         stats.TopicsByCategory,
		TopicsByDifficulty:       stats.TopicsByDifficulty,
		AverageTopicsPerCategory: stats.AverageTopicsPerCategory,
		MostActiveCategory:       stats.MostActiveCategory,
	}
	if stats.NewestTopic != nil {
		newest := toSummary(*stats.NewestTopic)
		out.NewestTopic = &newest
	}
	if stats.OldestTopic != nil {
		oldest := toSummary(*stats.OldestTopic)
		out.OldestTopic = &oldest
	}
	return out
}

func toSummary(topic topicdomain.Topic) analyticsdto.TopicSummary {
	return analyticsdto.TopicSummary{ID: topic.ID, Name: topic.Name, Category: topic.Category, CreatedAt: topic.CreatedAt}
}
