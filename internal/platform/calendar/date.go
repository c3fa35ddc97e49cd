// Package calendar holds the date-only value used for every practice-day
// comparison. A Date has no time of day and no zone; conversions from
// time.Time read the wall-clock day in the time's own location.
package calendar

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Of returns the calendar day t falls on in t's location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Of(t), nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// midnight is only used for arithmetic; UTC has no DST so AddDays never skips.
func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return Of(d.midnight().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.midnight().Weekday()
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
