package in

import (
	"context"
	"io"
	"time"

	catalogdto "yogavrita/internal/modules/catalog/dto"
	catalogin "yogavrita/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]catalogdto.SequenceSummary, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Show(ctx context.Context, day string) (catalogdto.SequenceOutput, error) {
	return h.usecase.ForDay(ctx, day)
}

func (h CLIHandler) Today(ctx context.Context, now time.Time) (catalogdto.SequenceOutput, error) {
	return h.usecase.Today(ctx, now)
}

func (h CLIHandler) Export(ctx context.Context, w io.Writer) error {
	return h.usecase.Export(ctx, w)
}
