package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	profiledto "yogavrita/internal/modules/profile/dto"
	apperrors "yogavrita/internal/platform/errors"
	"yogavrita/internal/ui/theme"
)

type ProfilePort interface {
	Create(ctx context.Context, name, email string) (profiledto.ProfileOutput, error)
	Show(ctx context.Context) (profiledto.ProfileOutput, error)
	Schedule(ctx context.Context, scheduledTime string) (profiledto.ProfileOutput, error)
	Recompute(ctx context.Context, asOf string) (profiledto.ProfileOutput, error)
	History(ctx context.Context) ([]profiledto.HistoryEntry, error)
}

// LoadedMsg replaces the shown profile. Action names what produced it.
type LoadedMsg struct {
	Action  string
	Profile profiledto.ProfileOutput
	Err     error
}

type HistoryLoadedMsg struct {
	Entries []profiledto.HistoryEntry
	Err     error
}

const recentSessions = 7

type Model struct {
	ctx  context.Context
	port ProfilePort

	profile    profiledto.ProfileOutput
	hasProfile bool
	history    []profiledto.HistoryEntry
	status     string

	onboarding bool
	inputs     []textinput.Model
	focus      int

	width  int
	height int
}

func New(ctx context.Context, port ProfilePort) Model {
	name := textinput.New()
	name.Placeholder = "your name"
	name.CharLimit = 100
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	return Model{
		ctx:    ctx,
		port:   port,
		inputs: []textinput.Model{name, email},
	}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Onboarding reports whether the create-profile form owns the keyboard.
func (m Model) Onboarding() bool {
	return m.onboarding
}

func (m Model) Status() string {
	return m.status
}

func (m Model) Profile() (profiledto.ProfileOutput, bool) {
	return m.profile, m.hasProfile
}

func (m Model) Reload() tea.Cmd {
	return tea.Batch(
		m.profileCmd("load", func(ctx context.Context) (profiledto.ProfileOutput, error) { return m.port.Show(ctx) }),
		m.historyCmd(),
	)
}

func (m Model) ScheduleCmd(hhmm string) tea.Cmd {
	return m.profileCmd("schedule", func(ctx context.Context) (profiledto.ProfileOutput, error) {
		return m.port.Schedule(ctx, hhmm)
	})
}

func (m Model) RecomputeCmd(asOf string) tea.Cmd {
	return m.profileCmd("recompute", func(ctx context.Context) (profiledto.ProfileOutput, error) {
		return m.port.Recompute(ctx, asOf)
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoadedMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, apperrors.ErrNoProfile) {
				m.hasProfile = false
				return m, m.startOnboarding()
			}
			m.status = msg.Action + ": " + msg.Err.Error()
			return m, nil
		}
		m.profile = msg.Profile
		m.hasProfile = true
		switch msg.Action {
		case "create":
			m.onboarding = false
			m.status = "welcome, " + msg.Profile.Name
		case "schedule":
			if msg.Profile.ScheduledTime == "" {
				m.status = "practice time cleared"
			} else {
				m.status = "practice time set to " + msg.Profile.ScheduledTime
			}
		case "recompute":
			m.status = fmt.Sprintf("streak recomputed: %d", msg.Profile.CurrentStreak)
		}

	case HistoryLoadedMsg:
		if msg.Err == nil {
			m.history = msg.Entries
		}

	case tea.KeyMsg:
		if m.onboarding {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "r":
			return m, m.RecomputeCmd("")
		case "ctrl+r":
			return m, m.Reload()
		}

	default:
		if m.onboarding {
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) startOnboarding() tea.Cmd {
	m.onboarding = true
	m.focus = 0
	m.status = "create a profile to track your streak"
	m.inputs[1].Blur()
	return m.inputs[0].Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()
	case "enter":
		if m.focus == 0 {
			m.inputs[0].Blur()
			m.focus = 1
			return m, m.inputs[1].Focus()
		}
		name := strings.TrimSpace(m.inputs[0].Value())
		email := strings.TrimSpace(m.inputs[1].Value())
		return m, tea.Batch(
			m.profileCmd("create", func(ctx context.Context) (profiledto.ProfileOutput, error) {
				return m.port.Create(ctx, name, email)
			}),
			m.historyCmd(),
		)
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.onboarding {
		return m.renderForm()
	}
	if !m.hasProfile {
		return lipgloss.NewStyle().Padding(1, 2).Render(theme.Muted.Render("Loading profile…"))
	}
	p := m.profile
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(p.Name) + theme.Muted.Render("  "+p.Email) + "\n\n")
	sb.WriteString(theme.Hot.Render(fmt.Sprintf("%d day streak", p.CurrentStreak)))
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("   longest %d", p.LongestStreak)) + "\n")
	if p.MissedPracticeDays > 0 {
		sb.WriteString(theme.Bad.Render(fmt.Sprintf("%d practice day(s) missed since your last session", p.MissedPracticeDays)) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(field("last practice", orDash(p.LastPracticeDate)))
	sb.WriteString(field("practice time", orDash(p.ScheduledTime)))
	sb.WriteString(field("sessions", fmt.Sprintf("%d", p.Sessions)))
	sb.WriteString(field("total time", fmt.Sprintf("%d min", p.TotalPracticeSeconds/60)))
	sb.WriteString(field("member since", p.CreatedAt.Format("2006-01-02")))

	if len(m.history) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Recent sessions") + "\n")
		start := max(len(m.history)-recentSessions, 0)
		for i := len(m.history) - 1; i >= start; i-- {
			e := m.history[i]
			sb.WriteString(fmt.Sprintf("  %s  %-9s  %d min\n", e.Date, e.Day, e.DurationSeconds/60))
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("r: recompute streak  ·  :profile:schedule HH:MM"))
	if m.status != "" {
		sb.WriteString("\n" + m.status)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m Model) renderForm() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Welcome to yogavrita") + "\n\n")
	sb.WriteString("Name   " + m.inputs[0].View() + "\n")
	sb.WriteString("Email  " + m.inputs[1].View() + "\n\n")
	if m.status != "" {
		sb.WriteString(m.status + "\n")
	}
	sb.WriteString(theme.Muted.Render("tab: next field  ·  enter: create"))
	return theme.PaneActive.Render(sb.String())
}

func field(label, value string) string {
	return theme.Muted.Render(fmt.Sprintf("%-14s", label)) + value + "\n"
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func (m Model) profileCmd(action string, fn func(context.Context) (profiledto.ProfileOutput, error)) tea.Cmd {
	return func() tea.Msg {
		p, err := fn(m.ctx)
		return LoadedMsg{Action: action, Profile: p, Err: err}
	}
}

func (m Model) historyCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.port.History(m.ctx)
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}
