package calendar_test

import (
	"testing"
	"time"

	"yogavrita/internal/platform/calendar"
)

func TestOfUsesWallClockDayOfLocation(t *testing.T) {
	t.Parallel()
	zone := time.FixedZone("UTC-5", -5*60*60)
	late := time.Date(2026, 3, 7, 23, 30, 0, 0, zone)
	if got := calendar.Of(late).String(); got != "2026-03-07" {
		t.Fatalf("expected local day 2026-03-07, got %s", got)
	}
	if got := calendar.Of(late.UTC()).String(); got != "2026-03-08" {
		t.Fatalf("expected utc day 2026-03-08, got %s", got)
	}
}

func TestAddDaysAcrossMonthAndYear(t *testing.T) {
	t.Parallel()
	cases := []struct {
		from string
		n    int
		want string
	}{
		{"2026-01-31", 1, "2026-02-01"},
		{"2026-12-31", 1, "2027-01-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2026-03-08", 1, "2026-03-09"},
	}
	for _, tc := range cases {
		d, err := calendar.Parse(tc.from)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.from, err)
		}
		if got := d.AddDays(tc.n).String(); got != tc.want {
			t.Fatalf("%s %+d: expected %s, got %s", tc.from, tc.n, tc.want, got)
		}
	}
}

func TestCompareAndWeekday(t *testing.T) {
	t.Parallel()
	sat := calendar.New(2026, time.March, 7)
	sun := sat.AddDays(1)
	if sat.Weekday() != time.Saturday || sun.Weekday() != time.Sunday {
		t.Fatalf("unexpected weekdays %s %s", sat.Weekday(), sun.Weekday())
	}
	if !sat.Before(sun) || !sun.After(sat) || sat.Compare(sat) != 0 {
		t.Fatalf("compare mismatch")
	}
	if (calendar.Date{}).String() != "" || !(calendar.Date{}).IsZero() {
		t.Fatalf("zero date must be empty")
	}
	if _, err := calendar.Parse("2026-13-01"); err == nil {
		t.Fatalf("invalid month must fail")
	}
}
