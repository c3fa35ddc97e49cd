package domain

import (
	"fmt"
	"strings"
	"time"
)

const SchemaVersion = 1

// Weekday is the persisted English day name a sequence is scheduled on.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

func WeekdayOf(d time.Weekday) Weekday {
	return Weekday(d.String())
}

func ParseWeekday(s string) (Weekday, error) {
	name := strings.TrimSpace(s)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) || strings.EqualFold(d.String()[:3], name) {
			return WeekdayOf(d), nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

type BreathingCue string

const (
	CueAlternating BreathingCue = "inhale-exhale"
	CueHold        BreathingCue = "hold"
	CueNone        BreathingCue = "none"
)

func (c BreathingCue) Validate() error {
	switch c {
	case CueAlternating, CueHold, CueNone:
		return nil
	default:
		return fmt.Errorf("unsupported breathing cue %q", string(c))
	}
}

type Step struct {
	ID                    string       `json:"id" yaml:"id"`
	Name                  string       `json:"name" yaml:"name"`
	DurationSeconds       int          `json:"durationSeconds" yaml:"duration_seconds"`
	BreathingCue          BreathingCue `json:"breathingPattern" yaml:"breathing"`
	BreathingCycleSeconds int          `json:"breathingCycleSeconds" yaml:"breathing_cycle_seconds"`
	Instructions          string       `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

func (s Step) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("step id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("step %s: name is required", s.ID)
	}
	if s.DurationSeconds <= 0 {
		return fmt.Errorf("step %s: duration must be positive", s.ID)
	}
	if err := s.BreathingCue.Validate(); err != nil {
		return fmt.Errorf("step %s: %w", s.ID, err)
	}
	if s.BreathingCycleSeconds < 0 {
		return fmt.Errorf("step %s: breathing cycle must be non-negative", s.ID)
	}
	return nil
}

type Sequence struct {
	Day                  Weekday `json:"day" yaml:"day"`
	Steps                []Step  `json:"asanas" yaml:"steps"`
	TotalDurationSeconds int     `json:"totalDurationSeconds" yaml:"total_duration_seconds"`
}

// Validate checks the invariants the catalog promises the timer, including
// that the declared total equals the sum of the step durations.
func (s Sequence) Validate() error {
	if _, err := ParseWeekday(string(s.Day)); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%s: sequence has no steps", s.Day)
	}
	sum := 0
	seen := map[string]struct{}{}
	for _, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.Day, err)
		}
		if _, ok := seen[step.ID]; ok {
			return fmt.Errorf("%s: duplicate step id %s", s.Day, step.ID)
		}
		seen[step.ID] = struct{}{}
		sum += step.DurationSeconds
	}
	if sum != s.TotalDurationSeconds {
		return fmt.Errorf("%s: total duration %d does not match step sum %d", s.Day, s.TotalDurationSeconds, sum)
	}
	return nil
}

func ValidateAll(sequences []Sequence) error {
	if len(sequences) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	days := map[Weekday]struct{}{}
	for _, seq := range sequences {
		if err := seq.Validate(); err != nil {
			return err
		}
		day, _ := ParseWeekday(string(seq.Day))
		if _, ok := days[day]; ok {
			return fmt.Errorf("duplicate sequence for %s", day)
		}
		days[day] = struct{}{}
	}
	return nil
}
