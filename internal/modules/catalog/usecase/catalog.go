package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"yogavrita/internal/modules/catalog/domain"
	"yogavrita/internal/modules/catalog/dto"
	catalogin "yogavrita/internal/modules/catalog/port/in"
	"yogavrita/internal/modules/catalog/service"
	apperrors "yogavrita/internal/platform/errors"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.SequenceSummary, error) {
	sequences, err := i.svc.Sequences(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SequenceSummary, 0, len(sequences))
	for _, seq := range sequences {
		out = append(out, dto.SequenceSummary{
			Day:                  string(seq.Day),
			Steps:                len(seq.Steps),
			TotalDurationSeconds: seq.TotalDurationSeconds,
		})
	}
	return out, nil
}

func (i *Interactor) ForDay(ctx context.Context, day string) (dto.SequenceOutput, error) {
	weekday, err := domain.ParseWeekday(day)
	if err != nil {
		return dto.SequenceOutput{}, fmt.Errorf("%w: %v", apperrors.ErrUnknownDay, err)
	}
	seq, err := i.svc.ForDay(ctx, weekday)
	if err != nil {
		return dto.SequenceOutput{}, err
	}
	return dto.SequenceOutput{Sequence: seq}, nil
}

func (i *Interactor) Today(ctx context.Context, now time.Time) (dto.SequenceOutput, error) {
	seq, err := i.svc.Today(ctx, now)
	if err != nil {
		return dto.SequenceOutput{}, err
	}
	return dto.SequenceOutput{Sequence: seq}, nil
}

func (i *Interactor) Export(ctx context.Context, w io.Writer) error {
	return i.svc.Export(ctx, w)
}
