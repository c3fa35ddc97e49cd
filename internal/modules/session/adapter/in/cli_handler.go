package in

import (
	"context"

	sessiondto "yogavrita/internal/modules/session/dto"
	sessionin "yogavrita/internal/modules/session/port/in"
)

// CLIHandler drives a practice from the terminal UI and the practice command.
type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, day string) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{Day: day})
}

// TogglePause pauses a running session and resumes a paused one.
func (h CLIHandler) TogglePause() {
	if h.usecase.Current().Paused {
		h.usecase.Resume()
		return
	}
	h.usecase.Pause()
}

func (h CLIHandler) Skip() {
	h.usecase.Skip()
}

func (h CLIHandler) Exit() {
	h.usecase.Exit()
}

func (h CLIHandler) Current() sessiondto.SnapshotOutput {
	return h.usecase.Current()
}

func (h CLIHandler) Subscribe(fn func(sessiondto.Event)) func() {
	return h.usecase.Subscribe(fn)
}
