package in

import (
	"context"

	sessiondto "spacedrep/internal/modules/session/dto"
	sessionin "spacedrep/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, goal string) (sessiondto.SessionOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{Goal: goal})
}

func (h CLIHandler) End(ctx context.Context, sessionID, outcome string) (sessiondto.EndOutput, error) {
	return h.usecase.End(ctx, sessiondto.EndInput{SessionID: sessionID, Outcome: outcome})
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) List(ctx context.Context, days int) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx, sessiondto.ListInput{Days: days})
}
