package domain

import catalogdomain "yogavrita/internal/modules/catalog/domain"

// Machine is the countdown state machine. It never schedules anything
// itself; callers apply the returned Outcome to their ticker.
type Machine struct {
	state   State
	session Session
}

func NewMachine() *Machine {
	return &Machine{}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Session() Session {
	return m.session
}

// Start begins seq at its first step. An empty sequence is rejected without
// touching the current state.
func (m *Machine) Start(seq catalogdomain.Sequence) (Outcome, bool) {
	if len(seq.Steps) == 0 {
		return Outcome{}, false
	}
	m.session = Session{Sequence: seq, Active: true}
	out := Outcome{Halt: true}
	m.enterStep(0, &out)
	return out, true
}

func (m *Machine) Tick() Outcome {
	if m.state != Running {
		return Outcome{}
	}
	m.session.Remaining--
	out := Outcome{Events: []Event{m.event(Tick)}}
	if m.session.Remaining <= 0 {
		m.session.Remaining = 0
		m.state = Completed
		out.Halt = true
		m.advance(&out)
	}
	return out
}

func (m *Machine) Pause() Outcome {
	if m.state != Running {
		return Outcome{}
	}
	m.state = Paused
	m.session.Paused = true
	return Outcome{Halt: true, Events: []Event{m.event(PausedEvent)}}
}

// Resume continues from the preserved remaining time. Paused time is not
// charged to the step.
func (m *Machine) Resume() Outcome {
	if m.state != Paused {
		return Outcome{}
	}
	m.state = Running
	m.session.Paused = false
	return Outcome{Restart: true, Events: []Event{m.event(ResumedEvent)}}
}

// Skip ends the current step early. No zero-second tick is emitted for the
// skipped step.
func (m *Machine) Skip() Outcome {
	if !m.session.Active {
		return Outcome{}
	}
	m.session.Paused = false
	m.state = Completed
	out := Outcome{Halt: true}
	m.advance(&out)
	return out
}

func (m *Machine) Exit() Outcome {
	wasActive := m.session.Active
	m.state = Idle
	m.session = Session{}
	out := Outcome{Halt: true}
	if wasActive {
		out.Events = []Event{{Kind: ExitedEvent}}
	}
	return out
}

func (m *Machine) CurrentStep() (catalogdomain.Step, bool) {
	if !m.session.Active {
		return catalogdomain.Step{}, false
	}
	steps := m.session.Sequence.Steps
	if m.session.Index < 0 || m.session.Index >= len(steps) {
		return catalogdomain.Step{}, false
	}
	return steps[m.session.Index], true
}

func (m *Machine) IsLastStep() bool {
	return m.session.Active && m.session.Index == len(m.session.Sequence.Steps)-1
}

func (m *Machine) Snapshot() Snapshot {
	step, _ := m.CurrentStep()
	return Snapshot{
		State:     m.state,
		Day:       m.session.Sequence.Day,
		Index:     m.session.Index,
		Steps:     len(m.session.Sequence.Steps),
		Step:      step,
		Remaining: m.session.Remaining,
		Active:    m.session.Active,
		Paused:    m.session.Paused,
	}
}

func (m *Machine) advance(out *Outcome) {
	next := m.session.Index + 1
	if next >= len(m.session.Sequence.Steps) {
		m.session.Active = false
		m.session.Paused = false
		out.Events = append(out.Events, m.event(CompletedEvent))
		return
	}
	m.enterStep(next, out)
}

func (m *Machine) enterStep(index int, out *Outcome) {
	m.session.Index = index
	m.session.Remaining = m.session.Sequence.Steps[index].DurationSeconds
	m.session.Paused = false
	m.state = Running
	out.Restart = true
	out.Events = append(out.Events, m.event(StepStarted), m.event(Tick))
}

func (m *Machine) event(kind EventKind) Event {
	step := catalogdomain.Step{}
	if m.session.Index < len(m.session.Sequence.Steps) {
		step = m.session.Sequence.Steps[m.session.Index]
	}
	return Event{Kind: kind, Index: m.session.Index, Step: step, Remaining: m.session.Remaining}
}
