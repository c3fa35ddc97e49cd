package domain

import (
	"time"

	"yogavrita/internal/platform/calendar"
)

const SchemaVersion = 1

// CompletionRecord is one finished session. Records are appended, never edited.
type CompletionRecord struct {
	ID              string
	Date            calendar.Date
	Day             string
	CompletedAt     time.Time
	DurationSeconds int
}

// Profile is the single local user. LongestStreak is a high-water mark and
// may be lower than CurrentStreak only in hand-edited data.
type Profile struct {
	ID                string
	Name              string
	Email             string
	CreatedAt         time.Time
	ScheduledTime     string
	CurrentStreak     int
	LongestStreak     int
	LastPracticeDate  calendar.Date
	CompletedSessions []CompletionRecord
}

// Clone returns a copy that shares no history slice with p.
func (p Profile) Clone() Profile {
	out := p
	out.CompletedSessions = append([]CompletionRecord(nil), p.CompletedSessions...)
	return out
}

func (p Profile) HasCompletionOn(d calendar.Date) bool {
	for _, rec := range p.CompletedSessions {
		if rec.Date == d {
			return true
		}
	}
	return false
}

func (p Profile) TotalPracticeSeconds() int {
	total := 0
	for _, rec := range p.CompletedSessions {
		total += rec.DurationSeconds
	}
	return total
}
