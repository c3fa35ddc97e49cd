package app

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdto "yogavrita/internal/modules/catalog/dto"
	profiledto "yogavrita/internal/modules/profile/dto"
	sessiondto "yogavrita/internal/modules/session/dto"
	"yogavrita/internal/ui/components"
	catalogview "yogavrita/internal/ui/views/catalog"
	practiceview "yogavrita/internal/ui/views/practice"
	profileview "yogavrita/internal/ui/views/profile"
)

type fakeSession struct {
	mu     sync.Mutex
	starts []string
	exits  int
}

func (f *fakeSession) Start(_ context.Context, day string) (sessiondto.StartOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, day)
	return sessiondto.StartOutput{Day: "Monday"}, nil
}
func (f *fakeSession) TogglePause() {}
func (f *fakeSession) Skip()        {}
func (f *fakeSession) Exit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exits++
}
func (f *fakeSession) Current() sessiondto.SnapshotOutput {
	return sessiondto.SnapshotOutput{State: "idle"}
}
func (f *fakeSession) Subscribe(func(sessiondto.Event)) func() { return func() {} }

func (f *fakeSession) Starts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.starts...)
}

type fakeCatalog struct{}

func (fakeCatalog) List(context.Context) ([]catalogdto.SequenceSummary, error) { return nil, nil }
func (fakeCatalog) Show(context.Context, string) (catalogdto.SequenceOutput, error) {
	return catalogdto.SequenceOutput{}, nil
}

type fakeProfile struct{ shows int }

func (f *fakeProfile) Create(context.Context, string, string) (profiledto.ProfileOutput, error) {
	return profiledto.ProfileOutput{}, nil
}
func (f *fakeProfile) Show(context.Context) (profiledto.ProfileOutput, error) {
	f.shows++
	return profiledto.ProfileOutput{Name: "Asha", CurrentStreak: 2}, nil
}
func (f *fakeProfile) Schedule(context.Context, string) (profiledto.ProfileOutput, error) {
	return profiledto.ProfileOutput{}, nil
}
func (f *fakeProfile) Recompute(context.Context, string) (profiledto.ProfileOutput, error) {
	return profiledto.ProfileOutput{}, nil
}
func (f *fakeProfile) History(context.Context) ([]profiledto.HistoryEntry, error) { return nil, nil }

func newTestModel(t *testing.T) (Model, *fakeSession, *fakeProfile) {
	t.Helper()
	session := &fakeSession{}
	profile := &fakeProfile{}
	m := NewModel(context.Background(), Deps{Catalog: fakeCatalog{}, Session: session, Profile: profile}, "")
	t.Cleanup(m.practiceView.Close)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), session, profile
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func activeSnapshot() sessiondto.SnapshotOutput {
	return sessiondto.SnapshotOutput{
		State: "running", Day: "Monday", Steps: 3, Remaining: 30, Active: true,
		Step: sessiondto.StepView{Name: "Tadasana", DurationSeconds: 60},
	}
}

func TestPaletteStartsPracticeForDay(t *testing.T) {
	t.Parallel()
	m, session, _ := newTestModel(t)
	m.activeTab = tabProfile

	m, cmd := step(t, m, components.PaletteSubmitMsg{Input: "practice tue"})
	require.NotNil(t, cmd)
	assert.Equal(t, tabPractice, m.activeTab)
	m, _ = step(t, m, cmd())
	assert.Equal(t, []string{"tue"}, session.Starts())
	assert.Contains(t, m.status, "Monday practice started")
}

func TestCatalogSelectionStartsPractice(t *testing.T) {
	t.Parallel()
	m, session, _ := newTestModel(t)
	m.activeTab = tabCatalog

	m, cmd := step(t, m, catalogview.StartPracticeMsg{Day: "Wednesday"})
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())
	assert.Equal(t, []string{"Wednesday"}, session.Starts())
	assert.Equal(t, tabPractice, m.activeTab)
}

func TestQuitIsRefusedDuringPractice(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(t)
	m, _ = step(t, m, practiceview.EventMsg{Event: sessiondto.Event{Kind: sessiondto.EventTick, Snapshot: activeSnapshot()}})

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "practice in progress")
	assert.Contains(t, m.View(), "Monday 1/3 0:30")

	_, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRecordedPracticeReloadsProfile(t *testing.T) {
	t.Parallel()
	m, _, profile := newTestModel(t)
	_, cmd := step(t, m, practiceview.EventMsg{Event: sessiondto.Event{
		Kind:     sessiondto.EventRecorded,
		Recorded: &sessiondto.RecordedOutput{Day: "Monday", CurrentStreak: 2, Counted: true},
	}})
	require.NotNil(t, cmd)

	// The first command waits on the session feed; only run the reload.
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	reload, ok := batch[1]().(tea.BatchMsg)
	require.True(t, ok)
	for _, rc := range reload {
		if msg, ok := rc().(profileview.LoadedMsg); ok {
			assert.Equal(t, "Asha", msg.Profile.Name)
		}
	}
	assert.Equal(t, 1, profile.shows)
}

func TestUnknownPaletteCommand(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(t)
	m, _ = step(t, m, components.PaletteSubmitMsg{Input: "levitate"})
	assert.Equal(t, "unknown command: levitate", m.status)

	m, _ = step(t, m, components.PaletteSubmitMsg{Input: "skip"})
	assert.Equal(t, "no practice running", m.status)
}
