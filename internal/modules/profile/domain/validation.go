package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	timePattern  = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format %q", email)
	}
	return nil
}

// ValidateScheduledTime accepts "" (no schedule) or HH:MM between 00:00 and 23:59.
func ValidateScheduledTime(value string) error {
	if value == "" || timePattern.MatchString(value) {
		return nil
	}
	return fmt.Errorf("scheduled time must be in HH:MM format (00:00 to 23:59), got %q", value)
}

func ValidateStreak(label string, n int) error {
	if n < 0 {
		return fmt.Errorf("%s must be a non-negative integer", label)
	}
	return nil
}

// Validate collects every field problem so the caller can show them together.
func (p Profile) Validate() error {
	errs := []error{}
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	errs = append(errs,
		ValidateName(p.Name),
		ValidateEmail(p.Email),
		ValidateScheduledTime(p.ScheduledTime),
		ValidateStreak("current streak", p.CurrentStreak),
		ValidateStreak("longest streak", p.LongestStreak),
	)
	for i, rec := range p.CompletedSessions {
		if strings.TrimSpace(rec.ID) == "" || rec.Date.IsZero() {
			errs = append(errs, fmt.Errorf("completed session %d: id and date are required", i))
		}
	}
	return errors.Join(errs...)
}
