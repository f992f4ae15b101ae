package in

import (
	"context"

	"spacedrep/internal/modules/topic/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddTopicInput) (dto.TopicOutput, error)
	Import(ctx context.Context, inputs []dto.AddTopicInput) ([]dto.TopicOutput, error)
	Edit(ctx context.Context, input dto.EditTopicInput) (dto.TopicOutput, error)
	EditBatch(ctx context.Context, inputs []dto.EditTopicInput) ([]dto.TopicOutput, error)
	RenameCategory(ctx context.Context, input dto.RenameCategoryInput) ([]dto.TopicOutput, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.TopicOutput, error)
	List(ctx context.Context, input dto.ListTopicsInput) ([]dto.TopicOutput, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, query string) ([]dto.TopicOutput, error)
	UrgentForInterview(ctx context.Context, daysUntilInterview int) ([]dto.TopicOutput, error)
	Due(ctx context.Context) ([]dto.TopicOutput, error)
	Watch(ctx context.Context, input dto.WatchTopicsInput) (<-chan []dto.TopicOutput, error)
}
