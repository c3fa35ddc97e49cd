package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "yogavrita/internal/modules/session/dto"
	"yogavrita/internal/ui/components"
	"yogavrita/internal/ui/theme"
	catalogview "yogavrita/internal/ui/views/catalog"
	practiceview "yogavrita/internal/ui/views/practice"
	profileview "yogavrita/internal/ui/views/profile"
)

// Deps are the handlers the views drive. Each view narrows them further.
type Deps struct {
	Catalog catalogview.CatalogPort
	Session practiceview.SessionPort
	Profile profileview.ProfilePort
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabPractice tabID = iota
	tabCatalog
	tabProfile
	tabCount
)

var tabLabels = [tabCount]string{"Practice", "Catalog", "Profile"}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Pause   key.Binding
	Skip    key.Binding
	Exit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start practice")),
		Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Skip:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip asana")),
		Exit:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "exit practice")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Start},
		{k.Pause, k.Skip, k.Exit},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; each tab renders through its own view.
type Model struct {
	startDay string

	practiceView practiceview.Model
	catalogView  catalogview.Model
	profileView  profileview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// NewModel builds the root model. A non-empty startDay begins that day's
// practice on launch; "today" picks the scheduled day.
func NewModel(ctx context.Context, deps Deps, startDay string) Model {
	return Model{
		startDay:     startDay,
		practiceView: practiceview.New(ctx, deps.Session),
		catalogView:  catalogview.New(ctx, deps.Catalog),
		profileView:  profileview.New(ctx, deps.Profile),
		activeTab:    tabPractice,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.practiceView.Init(),
		m.catalogView.Init(),
		m.profileView.Init(),
	}
	if m.startDay != "" {
		cmds = append(cmds, m.practiceView.StartCmd(dayArg(m.startDay)))
	}
	return tea.Batch(cmds...)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case practiceview.StartedMsg:
		m.practiceView, cmd = m.practiceView.Update(msg)
		m.status = m.practiceView.Status()
		if msg.Err == nil {
			m.activeTab = tabPractice
		}
		return m, cmd

	case practiceview.EventMsg:
		m.practiceView, cmd = m.practiceView.Update(msg)
		m.status = m.practiceView.Status()
		if msg.Event.Kind == sessiondto.EventRecorded {
			return m, tea.Batch(cmd, m.profileView.Reload())
		}
		return m, cmd

	case catalogview.StartPracticeMsg:
		if m.practiceView.Active() {
			m.status = "a practice is already running"
			return m, nil
		}
		return m, m.practiceView.StartCmd(msg.Day)

	case catalogview.SequencesLoadedMsg, catalogview.DetailLoadedMsg, spinner.TickMsg:
		m.catalogView, cmd = m.catalogView.Update(msg)
		return m, cmd

	case profileview.LoadedMsg:
		m.profileView, cmd = m.profileView.Update(msg)
		if m.profileView.Onboarding() {
			m.activeTab = tabProfile
		}
		if s := m.profileView.Status(); s != "" {
			m.status = s
		}
		return m, cmd

	case profileview.HistoryLoadedMsg:
		m.profileView, cmd = m.profileView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateActive(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}
	// Views that own the keyboard get every key.
	if m.subViewCapturing() {
		return m, m.updateActive(msg)
	}

	switch msg.String() {
	case "q":
		if m.practiceView.Active() {
			m.status = "practice in progress: x to exit first"
			return m, nil
		}
		return m.quit()
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil
	case "?":
		m.showHelp = true
		return m, nil
	case ":":
		return m, m.palette.Open()
	}
	return m, m.updateActive(msg)
}

func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabPractice:
		m.practiceView, cmd = m.practiceView.Update(msg)
		m.status = m.practiceView.Status()
	case tabCatalog:
		m.catalogView, cmd = m.catalogView.Update(msg)
	case tabProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	}
	return cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.practiceView.Close()
	return m, tea.Quit
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabPractice:
		return m.practiceView.View()
	case tabCatalog:
		return m.catalogView.View()
	case tabProfile:
		return m.profileView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "yogavrita  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if snap := m.practiceView.Snapshot(); snap.Active {
		marker := fmt.Sprintf("● %s %d/%d %s", snap.Day, snap.Index+1, snap.Steps, practiceview.Clock(snap.Remaining))
		left = theme.Hot.Render(marker) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch parts[0] {
	case "practice":
		if m.practiceView.Active() {
			m.status = "a practice is already running"
			return m, nil
		}
		m.activeTab = tabPractice
		return m, m.practiceView.StartCmd(dayArg(arg))

	case "pause", "skip", "exit":
		if !m.practiceView.Active() {
			m.status = "no practice running"
			return m, nil
		}
		m.activeTab = tabPractice
		keyFor := map[string]string{"pause": " ", "skip": "n", "exit": "x"}[parts[0]]
		return m, m.updateActive(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keyFor)})

	case "catalog":
		m.activeTab = tabCatalog
		return m, nil

	case "profile":
		m.activeTab = tabProfile
		return m, m.profileView.Reload()

	case "profile:schedule":
		m.activeTab = tabProfile
		return m, m.profileView.ScheduleCmd(arg)

	case "profile:recompute":
		m.activeTab = tabProfile
		return m, m.profileView.RecomputeCmd(arg)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewCapturing reports whether the active tab needs raw keys, in which
// case global bindings must yield to allow free typing.
func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabPractice:
		return m.practiceView.CapturesKeys()
	case tabCatalog:
		return m.catalogView.Filtering()
	case tabProfile:
		return m.profileView.Onboarding()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.practiceView, _ = m.practiceView.Update(sz)
	m.catalogView, _ = m.catalogView.Update(sz)
	m.profileView, _ = m.profileView.Update(sz)
}

func dayArg(day string) string {
	if strings.EqualFold(day, "today") {
		return ""
	}
	return day
}
