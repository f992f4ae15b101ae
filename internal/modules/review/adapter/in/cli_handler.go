package in

import (
	"context"

	"spacedrep/internal/modules/review/dto"
	reviewin "spacedrep/internal/modules/review/port/in"
)

type CLIHandler struct {
	usecase reviewin.Usecase
}

func NewCLIHandler(usecase reviewin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Rate(ctx context.Context, topicID, confidence string) (dto.RateOutput, error) {
	return h.usecase.Rate(ctx, dto.RateInput{TopicID: topicID, Confidence: confidence})
}

func (h CLIHandler) History(ctx context.Context, topicID string) ([]dto.ReviewOutput, error) {
	return h.usecase.History(ctx, topicID)
}

func (h CLIHandler) Overdue(ctx context.Context) ([]dto.OverdueOutput, error) {
	return h.usecase.Overdue(ctx)
}

func (h CLIHandler) WatchOverdue(ctx context.Context) (<-chan []dto.OverdueOutput, error) {
	return h.usecase.WatchOverdue(ctx)
}

func (h CLIHandler) Upcoming(ctx context.Context, hours int) ([]dto.ReviewOutput, error) {
	return h.usecase.DueWithin(ctx, hours)
}

func (h CLIHandler) Correct(ctx context.Context, reviewID, confidence string) (dto.ReviewOutput, error) {
	return h.usecase.Correct(ctx, dto.CorrectInput{ReviewID: reviewID, Confidence: confidence})
}

func (h CLIHandler) Delete(ctx context.Context, reviewID string) error {
	return h.usecase.Delete(ctx, reviewID)
}

func (h CLIHandler) Schedule(ctx context.Context, topicID string) (dto.ScheduleOutput, error) {
	return h.usecase.Schedule(ctx, topicID)
}
