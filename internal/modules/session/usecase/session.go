package usecase

import (
	"context"

	"spacedrep/internal/modules/session/domain"
	sessiondto "spacedrep/internal/modules/session/dto"
	sessionin "spacedrep/internal/modules/session/port/in"
	"spacedrep/internal/modules/session/service"
)

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Start(ctx, input.Goal)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) RecordProgress(ctx context.Context, input sessiondto.ProgressInput) (sessiondto.SessionOutput, error) {
	session, err := i.svc.RecordProgress(ctx, input.TopicID, input.Correct, input.Confidence)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) End(ctx context.Context, input sessiondto.EndInput) (sessiondto.EndOutput, error) {
	session, path, err := i.svc.End(ctx, input.SessionID, input.Outcome)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}
	return sessiondto.EndOutput{Session: toOutput(session), Path: path}, nil
}

func (i *Interactor) GetActive(ctx context.Context) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Active(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Get(ctx context.Context, id string) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Get(ctx, id)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) List(ctx context.Context, input sessiondto.ListInput) ([]sessiondto.SessionOutput, error) {
	sessions, err := i.svc.List(ctx, input.Days)
	if err != nil {
		return nil, err
	}
	return toOutputs(sessions), nil
}

func (i *Interactor) Watch(ctx context.Context) (<-chan []sessiondto.SessionOutput, error) {
	stream, err := i.svc.Watch(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan []sessiondto.SessionOutput)
	go func() {
		defer close(out)
		for sessions := range stream {
			select {
			case out <- toOutputs(sessions):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func toOutputs(sessions []domain.StudySession) []sessiondto.SessionOutput {
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toOutput(session))
	}
	return out
}

func toOutput(session domain.StudySession) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:                session.ID,
		StartTime:         session.StartTime,
		EndTime:           session.EndTime,
		Active:            !session.IsCompleted(),
		TopicsReviewed:    session.TopicsReviewed,
		TotalCorrect:      session.TotalCorrect,
		TotalReviewed:     session.TotalReviewed,
		AverageConfidence: session.AverageConfidence,
		SuccessRate:       session.SuccessRate(),
		Quality:           session.Quality().String(),
		DurationMinutes:   session.DurationMinutes(),
		Goal:              session.Goal,
		Outcome:           session.Outcome,
	}
}
