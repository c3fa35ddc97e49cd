package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Event string

const EventCompletion Event = "completion"

var (
	ErrHookDisabled     = errors.New("hook is disabled")
	ErrChecksumMismatch = errors.New("hook checksum mismatch")
	ErrHookTimeout      = errors.New("hook timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one out-of-process hook binary.
type Manifest struct {
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Binary  string  `json:"binary"`
	SHA256  string  `json:"sha256"`
	Enabled bool    `json:"enabled"`
	Events  []Event `json:"events"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("hook name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("hook %s: version is required", m.Name)
	}
	if m.Binary == "" {
		return fmt.Errorf("hook %s: binary path is required", m.Name)
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("hook %s: sha256 must be lowercase 64-char hex", m.Name)
	}
	if len(m.Events) == 0 {
		return fmt.Errorf("hook %s: events are required", m.Name)
	}
	seen := map[Event]struct{}{}
	for _, event := range m.Events {
		if event != EventCompletion {
			return fmt.Errorf("hook %s: unknown event %q", m.Name, event)
		}
		if _, ok := seen[event]; ok {
			return fmt.Errorf("hook %s: duplicate event %s", m.Name, event)
		}
		seen[event] = struct{}{}
	}
	return nil
}

func (m Manifest) Subscribes(event Event) bool {
	for _, e := range m.Events {
		if e == event {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Events  []Event
}

// Completion is what a hook learns about a recorded session.
type Completion struct {
	DataDir         string
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

func (c Completion) Validate() error {
	if c.RecordID == "" {
		return fmt.Errorf("record id is required")
	}
	if c.Date == "" {
		return fmt.Errorf("completion date is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	return nil
}

type Ack struct {
	Message string
}
