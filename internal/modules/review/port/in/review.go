package in

import (
	"context"

	"spacedrep/internal/modules/review/dto"
)

type Usecase interface {
	Rate(ctx context.Context, input dto.RateInput) (dto.RateOutput, error)
	History(ctx context.Context, topicID string) ([]dto.ReviewOutput, error)
	Latest(ctx context.Context, topicID string) (dto.ReviewOutput, bool, error)
	Overdue(ctx context.Context) ([]dto.OverdueOutput, error)
	DueWithin(ctx context.Context, hours int) ([]dto.ReviewOutput, error)
	Correct(ctx context.Context, input dto.CorrectInput) (dto.ReviewOutput, error)
	Delete(ctx context.Context, reviewID string) error
	Schedule(ctx context.Context, topicID string) (dto.ScheduleOutput, error)
	WatchOverdue(ctx context.Context) (<-chan []dto.OverdueOutput, error)
}
