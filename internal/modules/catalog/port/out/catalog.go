package out

import (
	"context"
	"io"

	"yogavrita/internal/modules/catalog/domain"
)

// SequenceSource supplies the authoritative weekly catalog.
type SequenceSource interface {
	Sequences(ctx context.Context) ([]domain.Sequence, error)
}

// SequenceCache keeps the last good catalog so a broken source does not
// leave the user without a practice.
type SequenceCache interface {
	LoadSequences(ctx context.Context) ([]domain.Sequence, error)
	SaveSequences(ctx context.Context, sequences []domain.Sequence) error
}

type SequenceEncoder interface {
	Encode(w io.Writer, sequences []domain.Sequence) error
}
