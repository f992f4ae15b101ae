package in

import (
	"context"

	analyticsdto "spacedrep/internal/modules/analytics/dto"
)

type Usecase interface {
	ReviewStats(ctx context.Context, input analyticsdto.ReviewStatsInput) (analyticsdto.ReviewStatsOutput, error)
	RetentionHistory(ctx context.Context, input analyticsdto.DaysInput) ([]analyticsdto.RetentionPointOutput, error)
	SessionStats(ctx context.Context, sessionID string) (analyticsdto.SessionStatsOutput, error)
	SessionAnalytics(ctx context.Context, input analyticsdto.DaysInput) (analyticsdto.SessionAnalyticsOutput, error)
	TopicStats(ctx context.Context) (analyticsdto.TopicStatsOutput, error)
	TopicProgress(ctx context.Context) (analyticsdto.TopicProgressOutput, error)
	Dashboard(ctx context.Context) (analyticsdto.DashboardOutput, error)
}
