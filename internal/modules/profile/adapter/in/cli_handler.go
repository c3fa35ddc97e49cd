package in

import (
	"context"

	profiledto "yogavrita/internal/modules/profile/dto"
	profilein "yogavrita/internal/modules/profile/port/in"
)

type CLIHandler struct {
	usecase profilein.Usecase
}

func NewCLIHandler(usecase profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, name, email string) (profiledto.ProfileOutput, error) {
	return h.usecase.Create(ctx, profiledto.CreateInput{Name: name, Email: email})
}

func (h CLIHandler) Show(ctx context.Context) (profiledto.ProfileOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) Update(ctx context.Context, name, email string) (profiledto.ProfileOutput, error) {
	return h.usecase.Update(ctx, profiledto.UpdateInput{Name: name, Email: email})
}

func (h CLIHandler) Schedule(ctx context.Context, scheduledTime string) (profiledto.ProfileOutput, error) {
	return h.usecase.UpdateSchedule(ctx, scheduledTime)
}

func (h CLIHandler) Recompute(ctx context.Context, asOf string) (profiledto.ProfileOutput, error) {
	return h.usecase.RecomputeStreak(ctx, profiledto.RecomputeInput{AsOf: asOf})
}

func (h CLIHandler) History(ctx context.Context) ([]profiledto.HistoryEntry, error) {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}
