package practice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessiondto "yogavrita/internal/modules/session/dto"
)

type fakePort struct {
	mu       sync.Mutex
	calls    []string
	listener func(sessiondto.Event)
	current  sessiondto.SnapshotOutput
	startErr error
}

func (f *fakePort) Start(_ context.Context, day string) (sessiondto.StartOutput, error) {
	f.record("start:" + day)
	if f.startErr != nil {
		return sessiondto.StartOutput{}, f.startErr
	}
	return sessiondto.StartOutput{Day: "Monday", Steps: 2, TotalDurationSeconds: 90}, nil
}

func (f *fakePort) TogglePause() { f.record("toggle") }
func (f *fakePort) Skip()        { f.record("skip") }
func (f *fakePort) Exit()        { f.record("exit") }

func (f *fakePort) Current() sessiondto.SnapshotOutput { return f.current }

func (f *fakePort) Subscribe(fn func(sessiondto.Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listener = nil
	}
}

func (f *fakePort) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePort) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func running() sessiondto.SnapshotOutput {
	return sessiondto.SnapshotOutput{
		State:     "running",
		Day:       "Monday",
		Index:     0,
		Steps:     2,
		Step:      sessiondto.StepView{ID: "tadasana", Name: "Tadasana", DurationSeconds: 60},
		Remaining: 45,
		Elapsed:   15,
		Phase:     "Inhale",
		Active:    true,
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFeedDeliversSessionEvents(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := New(context.Background(), port)
	t.Cleanup(m.Close)

	go port.listener(sessiondto.Event{Kind: sessiondto.EventTick, Snapshot: running()})
	msg := m.Init()()
	ev, ok := msg.(EventMsg)
	require.True(t, ok)

	m, cmd := m.Update(ev)
	require.NotNil(t, cmd)
	assert.True(t, m.Active())
	assert.Equal(t, 45, m.Snapshot().Remaining)
	assert.Contains(t, m.View(), "Tadasana")
	assert.Contains(t, m.View(), "0:45")
}

func TestCloseReleasesBlockedSender(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := New(context.Background(), port)
	fn := port.listener
	for i := 0; i < cap(m.feed.events); i++ {
		fn(sessiondto.Event{Kind: sessiondto.EventTick})
	}
	done := make(chan struct{})
	go func() {
		fn(sessiondto.Event{Kind: sessiondto.EventTick})
		close(done)
	}()
	m.Close()
	<-done
	assert.Nil(t, port.listener)
}

func TestKeysDriveRunningSession(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := New(context.Background(), port)
	t.Cleanup(m.Close)
	m, _ = m.Update(EventMsg{Event: sessiondto.Event{Kind: sessiondto.EventStepStarted, Snapshot: running()}})

	m, _ = m.Update(key(" "))
	m, _ = m.Update(key("n"))
	m, _ = m.Update(key("x"))
	assert.True(t, m.CapturesKeys())
	assert.Contains(t, m.View(), "Exit practice?")

	m, _ = m.Update(key("n"))
	assert.False(t, m.CapturesKeys())
	m, _ = m.Update(key("x"))
	m, _ = m.Update(key("y"))
	assert.False(t, m.CapturesKeys())
	assert.Equal(t, []string{"toggle", "skip", "exit"}, port.Calls())
}

func TestCompletionScreenShowsStreak(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := New(context.Background(), port)
	t.Cleanup(m.Close)

	done := running()
	done.State, done.Active = "completed", false
	m, _ = m.Update(EventMsg{Event: sessiondto.Event{Kind: sessiondto.EventCompleted, Snapshot: done}})
	assert.Contains(t, m.View(), "Recording")

	m, _ = m.Update(EventMsg{Event: sessiondto.Event{Kind: sessiondto.EventRecorded, Recorded: &sessiondto.RecordedOutput{
		Date: "2026-03-09", Day: "Monday", DurationSeconds: 480, Counted: true, CurrentStreak: 3, LongestStreak: 5,
		Hooks: []string{"journal"},
	}}})
	view := m.View()
	assert.Contains(t, view, "3 day streak")
	assert.Contains(t, view, "longest 5")
	assert.Contains(t, view, "8:00")
	assert.Contains(t, view, "journal")

	m, _ = m.Update(key("enter"))
	assert.NotContains(t, m.View(), "Practice complete")
}

func TestRecordFailureIsShown(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := New(context.Background(), port)
	t.Cleanup(m.Close)
	m, _ = m.Update(EventMsg{Event: sessiondto.Event{Kind: sessiondto.EventCompleted}})
	m, _ = m.Update(EventMsg{Event: sessiondto.Event{Kind: sessiondto.EventRecordFailed, Err: errors.New("no profile")}})
	assert.Contains(t, m.View(), "Could not record: no profile")
}

func TestEnterStartsTodayWhenIdle(t *testing.T) {
	t.Parallel()
	port := &fakePort{startErr: errors.New("rest day")}
	m := New(context.Background(), port)
	t.Cleanup(m.Close)

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	msg := cmd()
	m, _ = m.Update(msg)
	assert.Equal(t, []string{"start:"}, port.Calls())
	assert.True(t, strings.HasPrefix(m.Status(), "cannot start"))
}

func TestClockAndFraction(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0:00", Clock(-3))
	assert.Equal(t, "1:05", Clock(65))
	assert.InDelta(t, 0.25, StepFraction(running()), 1e-9)
	assert.Zero(t, StepFraction(sessiondto.SnapshotOutput{}))
}
