package in

import (
	"context"

	"yogavrita/internal/modules/profile/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.ProfileOutput, error)
	Get(ctx context.Context) (dto.ProfileOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.ProfileOutput, error)
	UpdateSchedule(ctx context.Context, scheduledTime string) (dto.ProfileOutput, error)
	CompleteSession(ctx context.Context, input dto.CompletionInput) (dto.CompletionOutput, error)
	RecomputeStreak(ctx context.Context, input dto.RecomputeInput) (dto.ProfileOutput, error)
	History(ctx context.Context) ([]dto.HistoryEntry, error)
	Reset(ctx context.Context) error
}
