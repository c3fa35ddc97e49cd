package domain

import catalogdomain "yogavrita/internal/modules/catalog/domain"

type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "idle"
	}
}

// Session is the single in-progress run through a sequence.
// Paused implies Active.
type Session struct {
	Sequence  catalogdomain.Sequence
	Index     int
	Remaining int
	Active    bool
	Paused    bool
}

type EventKind int

const (
	StepStarted EventKind = iota + 1
	Tick
	PausedEvent
	ResumedEvent
	CompletedEvent
	ExitedEvent
)

func (k EventKind) String() string {
	switch k {
	case StepStarted:
		return "step-started"
	case Tick:
		return "tick"
	case PausedEvent:
		return "paused"
	case ResumedEvent:
		return "resumed"
	case CompletedEvent:
		return "completed"
	case ExitedEvent:
		return "exited"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind      EventKind
	Index     int
	Step      catalogdomain.Step
	Remaining int
}

// Outcome tells the owner of the recurring schedule what to do after an
// operation: Halt cancels the running schedule, Restart begins a fresh one.
// Both may be set, in which case the halt happens first.
type Outcome struct {
	Events  []Event
	Halt    bool
	Restart bool
}

// Snapshot is a read-only copy of the machine state for polling callers.
type Snapshot struct {
	State     State
	Day       catalogdomain.Weekday
	Index     int
	Steps     int
	Step      catalogdomain.Step
	Remaining int
	Active    bool
	Paused    bool
}
