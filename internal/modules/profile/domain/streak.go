package domain

import (
	"sort"
	"time"

	"yogavrita/internal/platform/calendar"
)

// RestDayPolicy decides which calendar days are excluded from streak
// continuity.
type RestDayPolicy interface {
	IsRestDay(d calendar.Date) bool
}

// WeeklyRestDay rests on one fixed weekday.
type WeeklyRestDay time.Weekday

func (w WeeklyRestDay) IsRestDay(d calendar.Date) bool {
	return d.Weekday() == time.Weekday(w)
}

type StreakCalculator struct {
	rest RestDayPolicy
}

func NewStreakCalculator(rest RestDayPolicy) StreakCalculator {
	if rest == nil {
		rest = WeeklyRestDay(time.Sunday)
	}
	return StreakCalculator{rest: rest}
}

func (c StreakCalculator) IsRestDay(d calendar.Date) bool {
	return c.rest.IsRestDay(d)
}

func (c StreakCalculator) NextPracticeDay(d calendar.Date) calendar.Date {
	return c.step(d, 1)
}

func (c StreakCalculator) PreviousPracticeDay(d calendar.Date) calendar.Date {
	return c.step(d, -1)
}

// step moves one day and then past any rest days. A policy resting every
// day of the week stops after seven days.
func (c StreakCalculator) step(d calendar.Date, dir int) calendar.Date {
	next := d.AddDays(dir)
	for i := 0; i < 7 && c.rest.IsRestDay(next); i++ {
		next = next.AddDays(dir)
	}
	return next
}

// ShouldResetStreak reports whether current lands after the practice day
// expected to follow last.
func (c StreakCalculator) ShouldResetStreak(last, current calendar.Date) bool {
	return current.After(c.NextPracticeDay(last))
}

// UpdateOnCompletion folds a completion at completedAt into p and returns the
// updated copy. The duplicate check runs against the history p carries, so
// callers append the new record afterwards.
func (c StreakCalculator) UpdateOnCompletion(p Profile, completedAt time.Time) Profile {
	date := calendar.Of(completedAt)
	if p.HasCompletionOn(date) {
		return p
	}
	out := p.Clone()
	switch {
	case p.LastPracticeDate.IsZero():
		out.CurrentStreak = 1
	case c.ShouldResetStreak(p.LastPracticeDate, date):
		out.CurrentStreak = 1
	default:
		out.CurrentStreak = p.CurrentStreak + 1
	}
	if out.CurrentStreak > out.LongestStreak {
		out.LongestStreak = out.CurrentStreak
	}
	out.LastPracticeDate = date
	return out
}

// CalculateStreak rebuilds the streak ending on asOf from raw history by
// walking practice days backwards until the first missing one.
func (c StreakCalculator) CalculateStreak(history []CompletionRecord, asOf calendar.Date) int {
	if len(history) == 0 {
		return 0
	}
	dates := make([]calendar.Date, 0, len(history))
	for _, rec := range history {
		dates = append(dates, rec.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	streak := 0
	expected := asOf
	for _, d := range dates {
		switch {
		case d == expected:
			streak++
			expected = c.PreviousPracticeDay(expected)
		case d.Before(expected):
			return streak
		}
	}
	return streak
}

// LongestRun scans the whole history for the best streak it contains.
func (c StreakCalculator) LongestRun(history []CompletionRecord) int {
	seen := map[calendar.Date]struct{}{}
	dates := []calendar.Date{}
	for _, rec := range history {
		if _, ok := seen[rec.Date]; ok {
			continue
		}
		seen[rec.Date] = struct{}{}
		dates = append(dates, rec.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	best, run := 0, 0
	for i, d := range dates {
		if i > 0 && d == c.NextPracticeDay(dates[i-1]) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// PracticeDaysBetween counts practice days in (from, to].
func (c StreakCalculator) PracticeDaysBetween(from, to calendar.Date) int {
	count := 0
	for d := from.AddDays(1); !d.After(to); d = d.AddDays(1) {
		if !c.rest.IsRestDay(d) {
			count++
		}
	}
	return count
}
