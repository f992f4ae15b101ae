package usecase

import (
	"context"

	"spacedrep/internal/modules/review/domain"
	"spacedrep/internal/modules/review/dto"
	reviewin "spacedrep/internal/modules/review/port/in"
	"spacedrep/internal/modules/review/service"
)

type Interactor struct {
	svc *service.ReviewService
}

func NewInteractor(svc *service.ReviewService) reviewin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Rate(ctx context.Context, input dto.RateInput) (dto.RateOutput, error) {
	res, err := i.svc.Rate(ctx, input.TopicID, input.Confidence)
	if err != nil {
		return dto.RateOutput{}, err
	}
	return dto.RateOutput{
		Review:             toOutput(res.Review),
		WasCorrect:         res.Result.WasCorrect,
		IndicatesMastery:   res.Result.IndicatesMastery(),
		NeedsMoreAttention: res.Result.NeedsMoreAttention(),
		SessionRecorded:    res.SessionRecorded,
	}, nil
}

func (i *Interactor) History(ctx context.Context, topicID string) ([]dto.ReviewOutput, error) {
	reviews, err := i.svc.History(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return toOutputs(reviews), nil
}

func (i *Interactor) Latest(ctx context.Context, topicID string) (dto.ReviewOutput, bool, error) {
	review, found, err := i.svc.Latest(ctx, topicID)
	if err != nil || !found {
		return dto.ReviewOutput{}, false, err
	}
	return toOutput(review), true, nil
}

func (i *Interactor) Overdue(ctx context.Context) ([]dto.OverdueOutput, error) {
	items, err := i.svc.Overdue(ctx)
	if err != nil {
		return nil, err
	}
	return toOverdue(items), nil
}

func (i *Interactor) WatchOverdue(ctx context.Context) (<-chan []dto.OverdueOutput, error) {
	stream, err := i.svc.WatchOverdue(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan []dto.OverdueOutput)
	go func() {
		defer close(out)
		for items := range stream {
			select {
			case out <- toOverdue(items):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (i *Interactor) DueWithin(ctx context.Context, hours int) ([]dto.ReviewOutput, error) {
	reviews, err := i.svc.DueWithin(ctx, hours)
	if err != nil {
		return nil, err
	}
	return toOutputs(reviews), nil
}

func (i *Interactor) Correct(ctx context.Context, input dto.CorrectInput) (dto.ReviewOutput, error) {
	review, err := i.svc.Correct(ctx, input.ReviewID, input.Confidence)
	if err != nil {
		return dto.ReviewOutput{}, err
	}
	return toOutput(review), nil
}

func (i *Interactor) Delete(ctx context.Context, reviewID string) error {
	return i.svc.Delete(ctx, reviewID)
}

func (i *Interactor) Schedule(ctx context.Context, topicID string) (dto.ScheduleOutput, error) {
	sched, err := i.svc.Schedule(ctx, topicID)
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	out := dto.ScheduleOutput{
		TopicID:         sched.Topic.ID,
		TopicName:       sched.Topic.Name,
		Reviewed:        sched.Reviewed,
		Due:             sched.Due,
		DaysOverdue:     sched.DaysOverdue,
		Urgency:         sched.Urgency.String(),
		FSRSDue:         sched.FSRSDue,
		HasFSRSForecast: !sched.FSRSDue.IsZero(),
	}
	if sched.Reviewed {
		out.Latest = toOutput(sched.Latest)
	}
	return out, nil
}

func toOverdue(items []service.OverdueItem) []dto.OverdueOutput {
	out := make([]dto.OverdueOutput, 0, len(items))
	for _, item := range items {
		out = append(out, dto.OverdueOutput{
			Review:      toOutput(item.Review),
			TopicName:   item.TopicName,
			DaysOverdue: item.DaysOverdue,
			Urgency:     item.Urgency.String(),
		})
	}
	return out
}

func toOutputs(reviews []domain.Review) []dto.ReviewOutput {
	out := make([]dto.ReviewOutput, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toOutput(review))
	}
	return out
}

func toOutput(review domain.Review) dto.ReviewOutput {
	return dto.ReviewOutput{
		ID:             review.ID,
		TopicID:        review.TopicID,
		ReviewedAt:     review.ReviewedAt,
		Confidence:     review.Confidence.String(),
		IntervalDays:   review.PreviousInterval,
		NextReviewDate: review.NextReviewDate,
		EaseFactor:     review.EaseFactor,
		ReviewCount:    review.ReviewCount,
	}
}
