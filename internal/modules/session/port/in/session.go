package in

import (
	"context"

	"spacedrep/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	RecordProgress(ctx context.Context, input dto.ProgressInput) (dto.SessionOutput, error)
	End(ctx context.Context, input dto.EndInput) (dto.EndOutput, error)
	GetActive(ctx context.Context) (dto.SessionOutput, error)
	Get(ctx context.Context, id string) (dto.SessionOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.SessionOutput, error)
	Watch(ctx context.Context) (<-chan []dto.SessionOutput, error)
}
