package in

import (
	"context"

	"spacedrep/internal/modules/topic/dto"
	topicin "spacedrep/internal/modules/topic/port/in"
)

type CLIHandler struct {
	usecase topicin.Usecase
}

func NewCLIHandler(usecase topicin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, name, category, difficulty, notes string, tags []string) (dto.TopicOutput, error) {
	return h.usecase.Add(ctx, dto.AddTopicInput{Name: name, Category: category, Difficulty: difficulty, Notes: notes, Tags: tags})
}

func (h CLIHandler) Edit(ctx context.Context, input dto.EditTopicInput) (dto.TopicOutput, error) {
	return h.usecase.Edit(ctx, input)
}

func (h CLIHandler) RenameCategory(ctx context.Context, from, to string) ([]dto.TopicOutput, error) {
	return h.usecase.RenameCategory(ctx, dto.RenameCategoryInput{From: from, To: to})
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.TopicOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) List(ctx context.Context, category string) ([]dto.TopicOutput, error) {
	return h.usecase.List(ctx, dto.ListTopicsInput{Category: category})
}

func (h CLIHandler) Categories(ctx context.Context) ([]string, error) {
	return h.usecase.Categories(ctx)
}

func (h CLIHandler) Search(ctx context.Context, query string) ([]dto.TopicOutput, error) {
	return h.usecase.Search(ctx, query)
}

func (h CLIHandler) UrgentForInterview(ctx context.Context, days int) ([]dto.TopicOutput, error) {
	return h.usecase.UrgentForInterview(ctx, days)
}

func (h CLIHandler) Due(ctx context.Context) ([]dto.TopicOutput, error) {
	return h.usecase.Due(ctx)
}

func (h CLIHandler) Watch(ctx context.Context, category string, dueOnly bool) (<-chan []dto.TopicOutput, error) {
	return h.usecase.Watch(ctx, dto.WatchTopicsInput{Category: category, DueOnly: dueOnly})
}
