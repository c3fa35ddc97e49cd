package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "yogavrita/internal/modules/catalog/domain"
	"yogavrita/internal/modules/session/domain"
	"yogavrita/internal/modules/session/service"
	"yogavrita/internal/platform/clock"
)

// manualScheduler fires ticks only when the test asks it to.
type manualScheduler struct {
	mu        sync.Mutex
	schedules []*schedule
}

type schedule struct {
	fn        func()
	cancelled bool
}

func (m *manualScheduler) Every(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &schedule{fn: fn}
	m.schedules = append(m.schedules, s)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		s.cancelled = true
	}
}

func (m *manualScheduler) live() []*schedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*schedule{}
	for _, s := range m.schedules {
		if !s.cancelled {
			out = append(out, s)
		}
	}
	return out
}

func (m *manualScheduler) advance(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		live := m.live()
		require.Len(t, live, 1, "exactly one schedule must be live")
		live[0].fn()
	}
}

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) OnTimerEvent(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) ticks() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []int{}
	for _, e := range r.events {
		if e.Kind == domain.Tick {
			out = append(out, e.Remaining)
		}
	}
	return out
}

func (r *recorder) count(kind domain.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func seq(durations ...int) catalogdomain.Sequence {
	s := catalogdomain.Sequence{Day: catalogdomain.Friday}
	for i, d := range durations {
		s.Steps = append(s.Steps, catalogdomain.Step{ID: string(rune('a' + i)), Name: "pose", DurationSeconds: d, BreathingCue: catalogdomain.CueNone})
		s.TotalDurationSeconds += d
	}
	return s
}

func newTimer() (*service.Timer, *manualScheduler, *recorder) {
	sched := &manualScheduler{}
	timer := service.NewTimer(sched, time.Second, nil)
	rec := &recorder{}
	timer.Subscribe(rec)
	return timer, sched, rec
}

func TestStartEmitsImmediateTickAndRunsToCompletion(t *testing.T) {
	t.Parallel()
	timer, sched, rec := newTimer()
	completed := 0
	require.True(t, timer.Start(seq(2, 1), func() { completed++ }))
	assert.Equal(t, []int{2}, rec.ticks())

	sched.advance(t, 2)
	assert.Equal(t, []int{2, 1, 0, 1}, rec.ticks())
	sched.advance(t, 1)

	assert.Equal(t, 1, completed)
	assert.Empty(t, sched.live())
	assert.False(t, timer.Snapshot().Active)
	assert.Equal(t, domain.Completed, timer.Snapshot().State)
	assert.Equal(t, 1, rec.count(domain.CompletedEvent))
}

func TestEmptySequenceIsIgnored(t *testing.T) {
	t.Parallel()
	timer, sched, rec := newTimer()
	assert.False(t, timer.Start(catalogdomain.Sequence{}, func() { t.Fatal("must not complete") }))
	assert.Empty(t, sched.live())
	assert.Empty(t, rec.ticks())
	assert.Equal(t, domain.Idle, timer.Snapshot().State)
}

func TestPauseResumeKeepsRemainingWithoutCatchUp(t *testing.T) {
	t.Parallel()
	timer, sched, _ := newTimer()
	timer.Start(seq(10), nil)
	sched.advance(t, 3)

	timer.Pause()
	timer.Pause()
	assert.Empty(t, sched.live())
	assert.Equal(t, 7, timer.Snapshot().Remaining)

	timer.Resume()
	assert.Equal(t, 7, timer.Snapshot().Remaining)
	sched.advance(t, 4)
	assert.Equal(t, 3, timer.Snapshot().Remaining)
	timer.Resume()
	assert.Len(t, sched.live(), 1, "resume while running must not add a schedule")
}

func TestSkipLastStepCompletesOnce(t *testing.T) {
	t.Parallel()
	timer, sched, rec := newTimer()
	completed := 0
	timer.Start(seq(30, 40), func() { completed++ })

	timer.Skip()
	step, ok := timer.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, "b", step.ID)
	assert.Equal(t, 40, timer.Snapshot().Remaining)
	assert.True(t, timer.IsLastStep())
	assert.NotContains(t, rec.ticks(), 0, "skipped step must not emit a zero tick")

	timer.Skip()
	timer.Skip()
	assert.Equal(t, 1, completed)
	assert.Empty(t, sched.live())
	_, ok = timer.CurrentStep()
	assert.False(t, ok)
}

func TestStaleTickAfterExitIsDropped(t *testing.T) {
	t.Parallel()
	timer, sched, rec := newTimer()
	timer.Start(seq(5), func() { t.Fatal("exit must drop completion") })
	stale := sched.live()[0]

	timer.Exit()
	stale.fn()
	stale.fn()

	assert.Equal(t, []int{5}, rec.ticks())
	assert.Equal(t, 1, rec.count(domain.ExitedEvent))
	assert.Equal(t, domain.Idle, timer.Snapshot().State)
	timer.Exit()
}

func TestExitWithDeliveryInFlightWithholdsTickFromLaterObservers(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	timer := service.NewTimer(sched, time.Second, nil)
	entered := make(chan struct{})
	release := make(chan struct{})
	timer.Subscribe(service.ObserverFunc(func(e domain.Event) {
		if e.Kind == domain.Tick && e.Remaining == 4 {
			close(entered)
			<-release
		}
	}))
	later := &recorder{}
	timer.Subscribe(later)

	timer.Start(seq(5), func() { t.Fatal("exit must drop completion") })
	ticker := sched.live()[0]
	fired := make(chan struct{})
	go func() {
		defer close(fired)
		ticker.fn()
	}()
	<-entered

	timer.Exit()
	assert.Equal(t, []int{5}, later.ticks())

	close(release)
	<-fired
	assert.Equal(t, []int{5}, later.ticks(), "tick from before Exit must not reach observers after it")
	assert.Equal(t, 1, later.count(domain.ExitedEvent))
	assert.Empty(t, sched.live())
}

func TestStartFromCompletedObserverKeepsPreviousCompletion(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	timer := service.NewTimer(sched, time.Second, nil)
	restarted := false
	timer.Subscribe(service.ObserverFunc(func(e domain.Event) {
		if e.Kind == domain.CompletedEvent && !restarted {
			restarted = true
			require.True(t, timer.Start(seq(2), nil))
		}
	}))
	completed := 0
	timer.Start(seq(1), func() { completed++ })

	sched.advance(t, 1)

	assert.Equal(t, 1, completed)
	snap := timer.Snapshot()
	assert.True(t, snap.Active)
	assert.Equal(t, 2, snap.Remaining)
	sched.advance(t, 2)
	assert.Equal(t, 1, completed, "second session has no callback")
}

func TestRestartCancelsPreviousSchedule(t *testing.T) {
	t.Parallel()
	timer, sched, rec := newTimer()
	timer.Start(seq(5), nil)
	first := sched.live()[0]
	timer.Start(seq(8), nil)

	first.fn()
	assert.Equal(t, 8, timer.Snapshot().Remaining)
	sched.advance(t, 1)
	assert.Equal(t, []int{5, 8, 7}, rec.ticks())
}

func TestObserverMayReenterTimer(t *testing.T) {
	t.Parallel()
	sched := &manualScheduler{}
	timer := service.NewTimer(sched, time.Second, nil)
	order := []domain.EventKind{}
	timer.Subscribe(service.ObserverFunc(func(e domain.Event) {
		order = append(order, e.Kind)
		if e.Kind == domain.Tick && e.Remaining == 2 {
			timer.Pause()
		}
	}))
	timer.Start(seq(3), nil)
	sched.advance(t, 1)

	assert.Equal(t, []domain.EventKind{domain.StepStarted, domain.Tick, domain.Tick, domain.PausedEvent}, order)
	assert.True(t, timer.Snapshot().Paused)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()
	timer, sched, rec := newTimer()
	other := &recorder{}
	cancel := timer.Subscribe(other)
	timer.Start(seq(3), nil)
	cancel()
	sched.advance(t, 1)
	assert.Equal(t, []int{3}, other.ticks())
	assert.Equal(t, []int{3, 2}, rec.ticks())
}

func TestTickerSchedulerDrivesTimer(t *testing.T) {
	t.Parallel()
	timer := service.NewTimer(clock.TickerScheduler{}, 5*time.Millisecond, nil)
	done := make(chan struct{})
	timer.Start(seq(1, 2), func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not complete")
	}
	assert.False(t, timer.Snapshot().Active)
}
