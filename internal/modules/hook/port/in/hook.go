package in

import (
	"context"

	"yogavrita/internal/modules/hook/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.HookInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	NotifyCompletion(ctx context.Context, notice dto.CompletionNotice) (dto.NotifyResult, error)
}
