package usecase

import (
	"context"

	"yogavrita/internal/modules/hook/dto"
	hookin "yogavrita/internal/modules/hook/port/in"
	"yogavrita/internal/modules/hook/service"
)

type Interactor struct {
	svc *service.HookService
}

func NewInteractor(svc *service.HookService) hookin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.HookInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) NotifyCompletion(ctx context.Context, notice dto.CompletionNotice) (dto.NotifyResult, error) {
	return i.svc.NotifyCompletion(ctx, notice)
}
