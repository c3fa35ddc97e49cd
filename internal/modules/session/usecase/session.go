package usecase

import (
	"context"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	catalogdomain "yogavrita/internal/modules/catalog/domain"
	catalogin "yogavrita/internal/modules/catalog/port/in"
	hookdto "yogavrita/internal/modules/hook/dto"
	hookin "yogavrita/internal/modules/hook/port/in"
	profiledto "yogavrita/internal/modules/profile/dto"
	profilein "yogavrita/internal/modules/profile/port/in"
	"yogavrita/internal/modules/session/domain"
	sessiondto "yogavrita/internal/modules/session/dto"
	sessionin "yogavrita/internal/modules/session/port/in"
	"yogavrita/internal/modules/session/service"
	"yogavrita/internal/platform/clock"
	apperrors "yogavrita/internal/platform/errors"
	"yogavrita/internal/platform/id"
)

type Interactor struct {
	timer   *service.Timer
	catalog catalogin.Usecase
	profile profilein.Usecase
	hooks   hookin.Usecase
	clock   clock.Clock
	idGen   id.Generator
	logger  hclog.Logger

	mu        sync.Mutex
	listeners map[int]func(sessiondto.Event)
	nextID    int
}

// NewInteractor wires a practice session. hooks may be nil.
func NewInteractor(
	timer *service.Timer,
	catalog catalogin.Usecase,
	profile profilein.Usecase,
	hooks hookin.Usecase,
	clock clock.Clock,
	idGen id.Generator,
	logger hclog.Logger,
) sessionin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	i := &Interactor{
		timer:     timer,
		catalog:   catalog,
		profile:   profile,
		hooks:     hooks,
		clock:     clock,
		idGen:     idGen,
		logger:    logger,
		listeners: map[int]func(sessiondto.Event){},
	}
	timer.Subscribe(service.ObserverFunc(i.onTimerEvent))
	return i
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	var seq catalogdomain.Sequence
	if input.Day == "" {
		out, err := i.catalog.Today(ctx, i.clock.Now())
		if err != nil {
			return sessiondto.StartOutput{}, err
		}
		seq = out.Sequence
	} else {
		out, err := i.catalog.ForDay(ctx, input.Day)
		if err != nil {
			return sessiondto.StartOutput{}, err
		}
		seq = out.Sequence
	}

	recordCtx := context.WithoutCancel(ctx)
	if !i.timer.Start(seq, func() { i.record(recordCtx, seq) }) {
		return sessiondto.StartOutput{}, fmt.Errorf("%w: %s has no steps", apperrors.ErrInvalidInput, seq.Day)
	}
	i.logger.Info("practice started", "day", seq.Day, "steps", len(seq.Steps))
	return sessiondto.StartOutput{
		Day:                  string(seq.Day),
		Steps:                len(seq.Steps),
		TotalDurationSeconds: seq.TotalDurationSeconds,
		StartedAt:            i.clock.Now(),
	}, nil
}

func (i *Interactor) Pause()  { i.timer.Pause() }
func (i *Interactor) Resume() { i.timer.Resume() }
func (i *Interactor) Skip()   { i.timer.Skip() }
func (i *Interactor) Exit()   { i.timer.Exit() }

func (i *Interactor) Current() sessiondto.SnapshotOutput {
	return snapshot(i.timer.Snapshot(), i.timer.IsLastStep())
}

func (i *Interactor) Subscribe(fn func(sessiondto.Event)) func() {
	i.mu.Lock()
	defer i.mu.Unlock()
	id := i.nextID
	i.nextID++
	i.listeners[id] = fn
	return func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		delete(i.listeners, id)
	}
}

func (i *Interactor) onTimerEvent(event domain.Event) {
	kind := map[domain.EventKind]sessiondto.EventKind{
		domain.StepStarted:    sessiondto.EventStepStarted,
		domain.Tick:           sessiondto.EventTick,
		domain.PausedEvent:    sessiondto.EventPaused,
		domain.ResumedEvent:   sessiondto.EventResumed,
		domain.CompletedEvent: sessiondto.EventCompleted,
		domain.ExitedEvent:    sessiondto.EventExited,
	}[event.Kind]
	snap := i.timer.Snapshot()
	// The machine may have moved on since the event was queued.
	snap.Index = event.Index
	snap.Step = event.Step
	snap.Remaining = event.Remaining
	i.publish(sessiondto.Event{Kind: kind, Snapshot: snapshot(snap, snap.Active && event.Index == snap.Steps-1)})
}

// record runs once per finished sequence. Hook failures are reported but
// never undo the stored completion.
func (i *Interactor) record(ctx context.Context, seq catalogdomain.Sequence) {
	completedAt := i.clock.Now()
	out, err := i.profile.CompleteSession(ctx, profiledto.CompletionInput{
		ID:              i.idGen.New(),
		Day:             string(seq.Day),
		CompletedAt:     completedAt,
		DurationSeconds: seq.TotalDurationSeconds,
	})
	if err != nil {
		i.logger.Error("record completion", "day", seq.Day, "error", err)
		i.publish(sessiondto.Event{Kind: sessiondto.EventRecordFailed, Err: err})
		return
	}
	recorded := &sessiondto.RecordedOutput{
		RecordID:        out.Record.ID,
		Date:            out.Record.Date,
		Day:             out.Record.Day,
		DurationSeconds: out.Record.DurationSeconds,
		Counted:         out.Counted,
		CurrentStreak:   out.Profile.CurrentStreak,
		LongestStreak:   out.Profile.LongestStreak,
	}
	if i.hooks != nil {
		result, err := i.hooks.NotifyCompletion(ctx, hookdto.CompletionNotice{
			ProfileID:       out.Profile.ID,
			RecordID:        out.Record.ID,
			Date:            out.Record.Date,
			Day:             out.Record.Day,
			CompletedAt:     out.Record.CompletedAt,
			DurationSeconds: out.Record.DurationSeconds,
			Counted:         out.Counted,
			CurrentStreak:   out.Profile.CurrentStreak,
			LongestStreak:   out.Profile.LongestStreak,
		})
		recorded.Hooks = result.Delivered
		if err != nil {
			i.logger.Warn("completion hooks", "error", err)
			recorded.HookError = err.Error()
		}
	}
	i.publish(sessiondto.Event{Kind: sessiondto.EventRecorded, Snapshot: i.Current(), Recorded: recorded})
}

func (i *Interactor) publish(event sessiondto.Event) {
	i.mu.Lock()
	listeners := make([]func(sessiondto.Event), 0, len(i.listeners))
	for id := 0; id < i.nextID; id++ {
		if fn, ok := i.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	i.mu.Unlock()
	for _, fn := range listeners {
		fn(event)
	}
}

func snapshot(s domain.Snapshot, last bool) sessiondto.SnapshotOutput {
	elapsed := s.Step.DurationSeconds - s.Remaining
	if elapsed < 0 {
		elapsed = 0
	}
	return sessiondto.SnapshotOutput{
		State: s.State.String(),
		Day:   string(s.Day),
		Index: s.Index,
		Steps: s.Steps,
		Step: sessiondto.StepView{
			ID:                    s.Step.ID,
			Name:                  s.Step.Name,
			DurationSeconds:       s.Step.DurationSeconds,
			BreathingCue:          string(s.Step.BreathingCue),
			BreathingCycleSeconds: s.Step.BreathingCycleSeconds,
			Instructions:          s.Step.Instructions,
		},
		Remaining: s.Remaining,
		Elapsed:   elapsed,
		Phase:     string(catalogdomain.PhaseAt(s.Step, elapsed)),
		Active:    s.Active,
		Paused:    s.Paused,
		LastStep:  last,
	}
}
