package practice

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "yogavrita/internal/modules/session/dto"
	"yogavrita/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	Start(ctx context.Context, day string) (sessiondto.StartOutput, error)
	TogglePause()
	Skip()
	Exit()
	Current() sessiondto.SnapshotOutput
	Subscribe(fn func(sessiondto.Event)) func()
}

// ─── messages ────────────────────────────────────────────────────────────────

// EventMsg carries one timer or recording event into the program loop.
type EventMsg struct {
	Event sessiondto.Event
}

type StartedMsg struct {
	Out sessiondto.StartOutput
	Err error
}

// ─── event feed ──────────────────────────────────────────────────────────────

// feed bridges session callbacks, which arrive on the timer goroutine, into
// tea commands. Sends block until the view reads them or the feed closes.
type feed struct {
	events      chan sessiondto.Event
	done        chan struct{}
	once        sync.Once
	unsubscribe func()
}

func listen(port SessionPort) *feed {
	f := &feed{events: make(chan sessiondto.Event, 64), done: make(chan struct{})}
	f.unsubscribe = port.Subscribe(func(e sessiondto.Event) {
		select {
		case f.events <- e:
		case <-f.done:
		}
	})
	return f
}

func (f *feed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-f.events:
			return EventMsg{Event: e}
		case <-f.done:
			return nil
		}
	}
}

func (f *feed) close() {
	f.once.Do(func() {
		close(f.done)
		f.unsubscribe()
	})
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	ctx  context.Context
	port SessionPort
	feed *feed

	snap        sessiondto.SnapshotOutput
	started     sessiondto.StartOutput
	finished    bool
	recorded    *sessiondto.RecordedOutput
	recordErr   error
	confirmExit bool
	status      string

	bar    progress.Model
	width  int
	height int
}

func New(ctx context.Context, port SessionPort) Model {
	bar := progress.New(
		progress.WithGradient(string(theme.Teal), string(theme.Lavender)),
		progress.WithoutPercentage(),
	)
	return Model{
		ctx:    ctx,
		port:   port,
		feed:   listen(port),
		snap:   port.Current(),
		bar:    bar,
		status: "enter: start today's practice",
	}
}

func (m Model) Init() tea.Cmd {
	return m.feed.wait()
}

// Close detaches the view from the session. The session itself keeps its state.
func (m Model) Close() {
	m.feed.close()
}

// Active reports whether a practice is running or paused.
func (m Model) Active() bool {
	return m.snap.Active
}

// CapturesKeys reports whether the view is waiting on an exit confirmation.
func (m Model) CapturesKeys() bool {
	return m.confirmExit
}

func (m Model) Status() string {
	return m.status
}

func (m Model) Snapshot() sessiondto.SnapshotOutput {
	return m.snap
}

// StartCmd begins a practice for day; empty means today.
func (m Model) StartCmd(day string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Start(m.ctx, day)
		return StartedMsg{Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-8, 10)

	case StartedMsg:
		if msg.Err != nil {
			m.status = "cannot start: " + msg.Err.Error()
			return m, nil
		}
		m.started = msg.Out
		m.finished = false
		m.recorded = nil
		m.recordErr = nil
		m.confirmExit = false
		m.status = fmt.Sprintf("%s practice started", msg.Out.Day)

	case EventMsg:
		m.apply(msg.Event)
		return m, m.feed.wait()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) apply(e sessiondto.Event) {
	switch e.Kind {
	case sessiondto.EventStepStarted, sessiondto.EventTick, sessiondto.EventResumed:
		m.snap = e.Snapshot
	case sessiondto.EventPaused:
		m.snap = e.Snapshot
		m.status = "paused"
	case sessiondto.EventCompleted:
		m.snap = e.Snapshot
		m.finished = true
		m.confirmExit = false
		m.status = "recording practice…"
	case sessiondto.EventExited:
		m.snap = sessiondto.SnapshotOutput{State: e.Snapshot.State}
		m.confirmExit = false
		m.status = "practice exited, nothing recorded"
	case sessiondto.EventRecorded:
		m.recorded = e.Recorded
		m.status = "practice recorded"
	case sessiondto.EventRecordFailed:
		m.recordErr = e.Err
		m.status = "recording failed"
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmExit {
		switch msg.String() {
		case "y", "Y":
			m.confirmExit = false
			m.port.Exit()
		case "n", "N", "esc":
			m.confirmExit = false
		}
		return m, nil
	}
	if m.snap.Active {
		switch msg.String() {
		case " ", "space", "p":
			m.port.TogglePause()
		case "n":
			m.port.Skip()
		case "x":
			m.confirmExit = true
		}
		return m, nil
	}
	switch msg.String() {
	case "enter":
		if m.finished {
			m.finished = false
			m.status = "enter: start today's practice"
			return m, nil
		}
		return m, m.StartCmd("")
	case "esc":
		m.finished = false
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var body string
	switch {
	case m.finished:
		body = m.renderCompletion()
	case m.snap.Active:
		body = m.renderStep()
	default:
		body = m.renderIdle()
	}
	return lipgloss.NewStyle().Width(m.width).Padding(1, 2).Render(body)
}

func (m Model) renderStep() string {
	s := m.snap
	var sb strings.Builder
	header := fmt.Sprintf("%s  ·  step %d of %d", s.Day, s.Index+1, s.Steps)
	if s.LastStep {
		header += "  ·  final pose"
	}
	sb.WriteString(theme.Muted.Render(header) + "\n\n")
	sb.WriteString(theme.Title.Render(s.Step.Name) + "\n\n")
	sb.WriteString(theme.Countdown.Render(Clock(s.Remaining)))
	if s.Paused {
		sb.WriteString(theme.Hot.Render("  PAUSED"))
	}
	sb.WriteString("\n\n")
	if s.Phase != "" {
		sb.WriteString(theme.Phase(s.Phase).Render(s.Phase) + "\n\n")
	}
	sb.WriteString(m.bar.ViewAs(StepFraction(s)) + "\n\n")
	if s.Step.Instructions != "" {
		sb.WriteString(lipgloss.NewStyle().Width(max(m.width-8, 20)).Render(s.Step.Instructions) + "\n\n")
	}
	if m.confirmExit {
		sb.WriteString(theme.Bad.Render("Exit practice? Progress will not be recorded. (y/n)"))
	} else {
		sb.WriteString(theme.Muted.Render("space: pause/resume  n: skip  x: exit"))
	}
	return sb.String()
}

func (m Model) renderCompletion() string {
	var sb strings.Builder
	sb.WriteString(theme.Good.Render("Practice complete") + "\n\n")
	switch {
	case m.recordErr != nil:
		sb.WriteString(theme.Bad.Render("Could not record: "+m.recordErr.Error()) + "\n")
	case m.recorded == nil:
		sb.WriteString(theme.Muted.Render("Recording…") + "\n")
	default:
		r := m.recorded
		sb.WriteString(fmt.Sprintf("%s  %s  %s\n\n", r.Day, r.Date, Clock(r.DurationSeconds)))
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("%d day streak", r.CurrentStreak)))
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("  (longest %d)", r.LongestStreak)) + "\n")
		if !r.Counted {
			sb.WriteString(theme.Muted.Render("Already practiced today; streak unchanged.") + "\n")
		}
		if len(r.Hooks) > 0 {
			sb.WriteString(theme.Muted.Render("hooks: "+strings.Join(r.Hooks, ", ")) + "\n")
		}
		if r.HookError != "" {
			sb.WriteString(theme.Bad.Render("hook error: "+r.HookError) + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: done"))
	return sb.String()
}

func (m Model) renderIdle() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Practice") + "\n\n")
	sb.WriteString(m.status + "\n\n")
	sb.WriteString(theme.Muted.Render("enter: start today  ·  catalog tab: pick a day  ·  :practice <day>"))
	return sb.String()
}

// Clock formats seconds as M:SS.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// StepFraction is the elapsed share of the current step.
func StepFraction(s sessiondto.SnapshotOutput) float64 {
	if s.Step.DurationSeconds <= 0 {
		return 0
	}
	return float64(s.Elapsed) / float64(s.Step.DurationSeconds)
}
