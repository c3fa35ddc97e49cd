package in

import (
	"context"

	"yogavrita/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Pause()
	Resume()
	Skip()
	Exit()
	Current() dto.SnapshotOutput
	// Subscribe registers fn for timer and recording events and returns a
	// func that removes it.
	Subscribe(fn func(dto.Event)) func()
}
