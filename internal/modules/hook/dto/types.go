package dto

import "time"

type HookInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Events  []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type CompletionNotice struct {
	ProfileID       string
	RecordID        string
	Date            string
	Day             string
	CompletedAt     time.Time
	DurationSeconds int
	Counted         bool
	CurrentStreak   int
	LongestStreak   int
}

type NotifyResult struct {
	Delivered []string
	Messages  map[string]string
}
