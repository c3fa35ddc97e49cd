package dto

import "yogavrita/internal/modules/catalog/domain"

type SequenceSummary struct {
	Day                  string
	Steps                int
	TotalDurationSeconds int
}

type SequenceOutput struct {
	Sequence domain.Sequence
}

type ExportInput struct {
	Path string
}
