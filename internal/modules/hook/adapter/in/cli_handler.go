package in

import (
	"context"

	hookdto "yogavrita/internal/modules/hook/dto"
	hookin "yogavrita/internal/modules/hook/port/in"
)

type CLIHandler struct {
	usecase hookin.Usecase
}

func NewCLIHandler(usecase hookin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]hookdto.HookInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]hookdto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
