package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "yogavrita/internal/modules/catalog/dto"
	"yogavrita/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type CatalogPort interface {
	List(ctx context.Context) ([]catalogdto.SequenceSummary, error)
	Show(ctx context.Context, day string) (catalogdto.SequenceOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SequencesLoadedMsg struct {
	Sequences []catalogdto.SequenceSummary
	Err       error
}

type DetailLoadedMsg struct {
	Detail catalogdto.SequenceOutput
	Err    error
}

// StartPracticeMsg asks the app to begin the selected day's sequence.
type StartPracticeMsg struct {
	Day string
}

// ─── list item ───────────────────────────────────────────────────────────────

type dayItem struct {
	summary catalogdto.SequenceSummary
}

func (i dayItem) Title() string { return i.summary.Day }
func (i dayItem) Description() string {
	return fmt.Sprintf("%d asanas  %s", i.summary.Steps, minutes(i.summary.TotalDurationSeconds))
}
func (i dayItem) FilterValue() string { return i.summary.Day }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	ctx     context.Context
	port    CatalogPort
	list    list.Model
	detail  catalogdto.SequenceOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func New(ctx context.Context, port CatalogPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Weekly sequences"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		ctx:     ctx,
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSequencesCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SequencesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		items := make([]list.Item, len(msg.Sequences))
		for i, s := range msg.Sequences {
			items[i] = dayItem{summary: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Sequences) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Sequences[0].Day))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if day, ok := m.SelectedDay(); ok {
				return m, func() tea.Msg { return StartPracticeMsg{Day: day} }
			}
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if day, ok := m.SelectedDay(); ok {
				cmds = append(cmds, m.loadDetailCmd(day))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading catalog…")
	}
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Bad.Render("catalog unavailable: "+m.err.Error()))
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(max(detailW-2, 1)).
		Height(max(m.height-2, 1)).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) SelectedDay() (string, bool) {
	if item, ok := m.list.SelectedItem().(dayItem); ok {
		return item.summary.Day, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = max(detailW-4, 1)
	m.preview.Height = max(m.height-4, 1)
}

func (m Model) renderDetail() string {
	seq := m.detail.Sequence
	if seq.Day == "" {
		return theme.Muted.Render("Select a day to see its asanas")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(string(seq.Day)) + theme.Muted.Render("  "+minutes(seq.TotalDurationSeconds)) + "\n\n")
	for i, step := range seq.Steps {
		sb.WriteString(fmt.Sprintf("%2d. %-28s %s  %s\n", i+1, step.Name,
			theme.Muted.Render(fmt.Sprintf("%4ds", step.DurationSeconds)),
			theme.Phase(cueLabel(string(step.BreathingCue))).Render(string(step.BreathingCue))))
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: practice this day"))
	return sb.String()
}

func cueLabel(cue string) string {
	switch cue {
	case "hold":
		return "Hold"
	case "inhale-exhale":
		return "Inhale"
	}
	return ""
}

func minutes(seconds int) string {
	if seconds%60 == 0 {
		return fmt.Sprintf("%d min", seconds/60)
	}
	return fmt.Sprintf("%d min %d s", seconds/60, seconds%60)
}

func (m Model) loadSequencesCmd() tea.Cmd {
	return func() tea.Msg {
		seqs, err := m.port.List(m.ctx)
		return SequencesLoadedMsg{Sequences: seqs, Err: err}
	}
}

func (m Model) loadDetailCmd(day string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.Show(m.ctx, day)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
