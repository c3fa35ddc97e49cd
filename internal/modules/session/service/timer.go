package service

import (
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	catalogdomain "yogavrita/internal/modules/catalog/domain"
	"yogavrita/internal/modules/session/domain"
	"yogavrita/internal/platform/clock"
)

// Observer receives timer events in the order the machine produced them.
// Observers run outside the timer lock and may call back into the Timer.
type Observer interface {
	OnTimerEvent(event domain.Event)
}

type ObserverFunc func(event domain.Event)

func (f ObserverFunc) OnTimerEvent(event domain.Event) {
	f(event)
}

type delivery struct {
	event    domain.Event
	epoch    uint64
	complete func()
}

// Timer owns one Machine and at most one recurring schedule for it.
type Timer struct {
	scheduler clock.Scheduler
	interval  time.Duration
	logger    hclog.Logger

	mu         sync.Mutex
	machine    *domain.Machine
	cancel     func()
	generation uint64
	epoch      uint64
	onComplete func()
	observers  map[int]Observer
	nextID     int
	pending    []delivery
	draining   bool
}

func NewTimer(scheduler clock.Scheduler, interval time.Duration, logger hclog.Logger) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Timer{
		scheduler: scheduler,
		interval:  interval,
		logger:    logger,
		machine:   domain.NewMachine(),
		observers: map[int]Observer{},
	}
}

// Subscribe registers o and returns a func that removes it.
func (t *Timer) Subscribe(o Observer) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.observers[id] = o
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.observers, id)
	}
}

// Start replaces any running session with seq. onComplete fires exactly once,
// when the last step finishes or is skipped. An empty sequence is ignored and
// Start reports false.
func (t *Timer) Start(seq catalogdomain.Sequence, onComplete func()) bool {
	t.mu.Lock()
	out, ok := t.machine.Start(seq)
	if !ok {
		t.mu.Unlock()
		return false
	}
	t.epoch++
	t.pending = completionsOnly(t.pending)
	t.onComplete = onComplete
	t.logger.Debug("session started", "day", seq.Day, "steps", len(seq.Steps))
	t.applyLocked(out)
	t.mu.Unlock()
	t.drain()
	return true
}

func (t *Timer) Pause() {
	t.run((*domain.Machine).Pause)
}

func (t *Timer) Resume() {
	t.run((*domain.Machine).Resume)
}

func (t *Timer) Skip() {
	t.run((*domain.Machine).Skip)
}

// Exit stops the session and drops a completion callback it has not reached. Once Exit
// returns no tick is scheduled, queued or handed to an observer; an observer
// call that began before Exit may still be finishing.
func (t *Timer) Exit() {
	t.mu.Lock()
	out := t.machine.Exit()
	t.epoch++
	t.pending = completionsOnly(t.pending)
	t.onComplete = nil
	t.applyLocked(out)
	t.mu.Unlock()
	t.drain()
}

func (t *Timer) CurrentStep() (catalogdomain.Step, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine.CurrentStep()
}

func (t *Timer) IsLastStep() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine.IsLastStep()
}

func (t *Timer) Snapshot() domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine.Snapshot()
}

func (t *Timer) run(op func(*domain.Machine) domain.Outcome) {
	t.mu.Lock()
	t.applyLocked(op(t.machine))
	t.mu.Unlock()
	t.drain()
}

func (t *Timer) tick(generation uint64) {
	t.mu.Lock()
	if generation != t.generation {
		t.mu.Unlock()
		return
	}
	t.applyLocked(t.machine.Tick())
	t.mu.Unlock()
	t.drain()
}

func (t *Timer) applyLocked(out domain.Outcome) {
	if out.Halt {
		t.stopLocked()
	}
	for _, event := range out.Events {
		t.pending = append(t.pending, delivery{event: event, epoch: t.epoch})
		if event.Kind == domain.CompletedEvent {
			t.stopLocked()
			if t.onComplete != nil {
				t.pending = append(t.pending, delivery{complete: t.onComplete})
				t.onComplete = nil
			}
		}
	}
	if out.Restart {
		t.stopLocked()
		generation := t.generation
		t.cancel = t.scheduler.Every(t.interval, func() { t.tick(generation) })
	}
}

func (t *Timer) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.generation++
}

// drain delivers queued events. Only one goroutine drains at a time so
// observers see events in order even when they re-enter the timer.
func (t *Timer) drain() {
	t.mu.Lock()
	if t.draining {
		t.mu.Unlock()
		return
	}
	t.draining = true
	for len(t.pending) > 0 {
		next := t.pending[0]
		t.pending = t.pending[1:]
		if next.complete != nil {
			t.mu.Unlock()
			next.complete()
			t.mu.Lock()
			continue
		}
		ids := make([]int, 0, len(t.observers))
		for id := 0; id < t.nextID; id++ {
			if _, ok := t.observers[id]; ok {
				ids = append(ids, id)
			}
		}
		for _, id := range ids {
			o, ok := t.observers[id]
			if !ok {
				continue
			}
			if next.event.Kind == domain.Tick && next.epoch != t.epoch {
				break
			}
			t.mu.Unlock()
			o.OnTimerEvent(next.event)
			t.mu.Lock()
		}
	}
	t.draining = false
	t.mu.Unlock()
}

// completionsOnly keeps the queued completion callbacks of a session that is
// being replaced; its undelivered events are dropped.
func completionsOnly(pending []delivery) []delivery {
	var kept []delivery
	for _, d := range pending {
		if d.complete != nil {
			kept = append(kept, d)
		}
	}
	return kept
}
