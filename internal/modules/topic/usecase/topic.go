package usecase

import (
	"context"

	"spacedrep/internal/modules/topic/domain"
	"spacedrep/internal/modules/topic/dto"
	topicin "spacedrep/internal/modules/topic/port/in"
	"spacedrep/internal/modules/topic/service"
)

type Interactor struct {
	svc *service.TopicService
}

func NewInteractor(svc *service.TopicService) topicin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddTopicInput) (dto.TopicOutput, error) {
	topic, err := i.svc.Add(ctx, toDraft(input))
	if err != nil {
		return dto.TopicOutput{}, err
	}
	return toOutput(topic), nil
}

func (i *Interactor) Import(ctx context.Context, inputs []dto.AddTopicInput) ([]dto.TopicOutput, error) {
	drafts := make([]service.TopicDraft, 0, len(inputs))
	for _, input := range inputs {
		drafts = append(drafts, toDraft(input))
	}
	topics, err := i.svc.AddBatch(ctx, drafts)
	if err != nil {
		return nil, err
	}
	return toOutputs(topics), nil
}

func (i *Interactor) Edit(ctx context.Context, input dto.EditTopicInput) (dto.TopicOutput, error) {
	topic, err := i.svc.Edit(ctx, input.ID, toPatch(input))
	if err != nil {
		return dto.TopicOutput{}, err
	}
	return toOutput(topic), nil
}

func (i *Interactor) EditBatch(ctx context.Context, inputs []dto.EditTopicInput) ([]dto.TopicOutput, error) {
	edits := make([]service.TopicEdit, 0, len(inputs))
	for _, input := range inputs {
		edits = append(edits, service.TopicEdit{ID: input.ID, Patch: toPatch(input)})
	}
	topics, err := i.svc.EditBatch(ctx, edits)
	if err != nil {
		return nil, err
	}
	return toOutputs(topics), nil
}

func (i *Interactor) RenameCategory(ctx context.Context, input dto.RenameCategoryInput) ([]dto.TopicOutput, error) {
	topics, err := i.svc.RenameCategory(ctx, input.From, input.To)
	if err != nil {
		return nil, err
	}
	return toOutputs(topics), nil
}

func toPatch(input dto.EditTopicInput) service.TopicPatch {
	return service.TopicPatch{
		Name:       input.Name,
		Category:   input.Category,
		Difficulty: input.Difficulty,
		Notes:      input.Notes,
		Tags:       input.Tags,
	}
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.TopicOutput, error) {
	topic, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.TopicOutput{}, err
	}
	return toOutput(topic), nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListTopicsInput) ([]dto.TopicOutput, error) {
	topics, err := i.svc.List(ctx, input.Category)
	if err != nil {
		return nil, err
	}
	return toOutputs(topics), nil
}

func (i *Interactor) Categories(ctx context.Context) ([]string, error) {
	return i.svc.Categories(ctx)
}

func (i *Interactor) Search(ctx context.Context, query string) ([]dto.TopicOutput, error) {
	topics, err := i.svc.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return toOutputs(topics), nil
}

func (i *Interactor) UrgentForInterview(ctx context.Context, daysUntilInterview int) ([]dto.TopicOutput, error) {
	topics, err := i.svc.UrgentForInterview(ctx, daysUntilInterview)
	if err != nil {
		return nil, err
	}
	return toOutputs(topics), nil
}

func (i *Interactor) Due(ctx context.Context) ([]dto.TopicOutput, error) {
	topics, err := i.svc.Due(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(topics), nil
}

func (i *Interactor) Watch(ctx context.Context, input dto.WatchTopicsInput) (<-chan []dto.TopicOutput, error) {
	stream, err := i.svc.Watch(ctx, input.Category, input.DueOnly)
	if err != nil {
		return nil, err
	}
	out := make(chan []dto.TopicOutput)
	go func() {
		defer close(out)
		for topics := range stream {
			select {
			case out <- toOutputs(topics):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func toDraft(input dto.AddTopicInput) service.TopicDraft {
	return service.TopicDraft{
		Name:       input.Name,
		Category:   input.Category,
		Difficulty: input.Difficulty,
		Notes:      input.Notes,
		Tags:       input.Tags,
	}
}

func toOutputs(topics []domain.Topic) []dto.TopicOutput {
	out := make([]dto.TopicOutput, 0, len(topics))
	for _, topic := range topics {
		out = append(out, toOutput(topic))
	}
	return out
}

func toOutput(topic domain.Topic) dto.TopicOutput {
	return dto.TopicOutput{
		ID:              topic.ID,
		Name:            topic.Name,
		Category:        topic.Category,
		Difficulty:      topic.DifficultyLevel.String(),
		Notes:           topic.Notes,
		Tags:            topic.Tags,
		CreatedAt:       topic.CreatedAt,
		IsActive:        topic.IsActive,
		ComplexityScore: topic.ComplexityScore(),
	}
}
