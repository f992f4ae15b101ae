package in

import (
	"context"

	analyticsdto "spacedrep/internal/modules/analytics/dto"
	analyticsin "spacedrep/internal/modules/analytics/port/in"
)

type CLIHandler struct {
	usecase analyticsin.Usecase
}

func NewCLIHandler(usecase analyticsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Reviews(ctx context.Context, topicID string) (analyticsdto.ReviewStatsOutput, error) {
	return h.usecase.ReviewStats(ctx, analyticsdto.ReviewStatsInput{TopicID: topicID})
}

func (h CLIHandler) Retention(ctx context.Context, days int) ([]analyticsdto.RetentionPointOutput, error) {
	return h.usecase.RetentionHistory(ctx, analyticsdto.DaysInput{Days: days})
}

func (h CLIHandler) Session(ctx context.Context, sessionID string) (analyticsdto.SessionStatsOutput, error) {
	return h.usecase.SessionStats(ctx, sessionID)
}

func (h CLIHandler) Sessions(ctx context.Context, days int) (analyticsdto.SessionAnalyticsOutput, error) {
	return h.usecase.SessionAnalytics(ctx, analyticsdto.DaysInput{Days: days})
}

func (h CLIHandler) Topics(ctx context.Context) (analyticsdto.TopicStatsOutput, error) {
	return h.usecase.TopicStats(ctx)
}

func (h CLIHandler) Progress(ctx context.Context) (analyticsdto.TopicProgressOutput, error) {
	return h.usecase.TopicProgress(ctx)
}

func (h CLIHandler) Dashboard(ctx context.Context) (analyticsdto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx)
}
