package in

import (
	"context"
	"io"
	"time"

	"yogavrita/internal/modules/catalog/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.SequenceSummary, error)
	ForDay(ctx context.Context, day string) (dto.SequenceOutput, error)
	Today(ctx context.Context, now time.Time) (dto.SequenceOutput, error)
	Export(ctx context.Context, w io.Writer) error
}
