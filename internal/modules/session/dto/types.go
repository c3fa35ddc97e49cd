package dto

import "time"

type StartInput struct {
	// Day is a weekday name; empty means today.
	Day string
}

type StartOutput struct {
	Day                  string
	Steps                int
	TotalDurationSeconds int
	StartedAt            time.Time
}

type StepView struct {
	ID                    string
	Name                  string
	DurationSeconds       int
	BreathingCue          string
	BreathingCycleSeconds int
	Instructions          string
}

type SnapshotOutput struct {
	State     string
	Day       string
	Index     int
	Steps     int
	Step      StepView
	Remaining int
	Elapsed   int
	Phase     string
	Active    bool
	Paused    bool
	LastStep  bool
}

type EventKind string

const (
	EventStepStarted  EventKind = "step-started"
	EventTick         EventKind = "tick"
	EventPaused       EventKind = "paused"
	EventResumed      EventKind = "resumed"
	EventCompleted    EventKind = "completed"
	EventExited       EventKind = "exited"
	EventRecorded     EventKind = "recorded"
	EventRecordFailed EventKind = "record-failed"
)

type Event struct {
	Kind     EventKind
	Snapshot SnapshotOutput
	Recorded *RecordedOutput
	Err      error
}

type RecordedOutput struct {
	RecordID        string
	Date            string
	Day             string
	DurationSeconds int
	Counted         bool
	CurrentStreak   int
	LongestStreak   int
	Hooks           []string
	HookError       string
}
