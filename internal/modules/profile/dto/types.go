package dto

import "time"

type CreateInput struct {
	Name  string
	Email string
}

// UpdateInput leaves empty fields unchanged.
type UpdateInput struct {
	Name  string
	Email string
}

type ProfileOutput struct {
	ID                   string
	Name                 string
	Email                string
	CreatedAt            time.Time
	ScheduledTime        string
	CurrentStreak        int
	LongestStreak        int
	LastPracticeDate     string
	Sessions             int
	TotalPracticeSeconds int
	// MissedPracticeDays counts practice days since the last completion,
	// excluding today.
	MissedPracticeDays int
}

type CompletionInput struct {
	ID              string
	Day             string
	CompletedAt     time.Time
	DurationSeconds int
}

type CompletionOutput struct {
	Profile ProfileOutput
	Record  HistoryEntry
	// Counted is false when the day already had a completion.
	Counted bool
}

type HistoryEntry struct {
	ID              string
	Date            string
	Day             string
	CompletedAt     time.Time
	DurationSeconds int
}

type RecomputeInput struct {
	AsOf string
}
