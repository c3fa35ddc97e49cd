package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"yogavrita/internal/modules/profile/domain"
	profileout "yogavrita/internal/modules/profile/port/out"
	"yogavrita/internal/platform/calendar"
	apperrors "yogavrita/internal/platform/errors"
	"yogavrita/internal/platform/kv"
)

type profileBlob struct {
	Version int          `json:"version"`
	Profile *profileJSON `json:"profile"`
}

// Pointer fields distinguish a missing key from a zero value.
type profileJSON struct {
	ID                *string          `json:"id"`
	Name              *string          `json:"name"`
	Email             *string          `json:"email"`
	CreatedAt         *string          `json:"createdAt"`
	ScheduledTime     *string          `json:"scheduledTime"`
	CurrentStreak     *int             `json:"currentStreak"`
	LongestStreak     *int             `json:"longestStreak"`
	LastPracticeDate  *string          `json:"lastPracticeDate"`
	CompletedSessions []completionJSON `json:"completedSessions"`
}

type completionJSON struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Day             string `json:"day"`
	CompletedAt     string `json:"completedAt"`
	DurationSeconds int    `json:"durationSeconds"`
}

type KVProfileStore struct {
	store  kv.Store
	logger hclog.Logger
}

func NewKVProfileStore(store kv.Store, logger hclog.Logger) profileout.ProfileStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &KVProfileStore{store: store, logger: logger}
}

func (s *KVProfileStore) Load(ctx context.Context) (domain.Profile, error) {
	raw, err := s.store.Get(ctx, kv.ProfileKey)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Profile{}, apperrors.ErrNoProfile
	}
	if err != nil {
		return domain.Profile{}, err
	}
	profile, err := decodeProfile(raw)
	if err != nil {
		s.logger.Warn("stored profile is corrupt, treating as absent", "error", err)
		return domain.Profile{}, apperrors.ErrNoProfile
	}
	return profile, nil
}

func (s *KVProfileStore) Save(ctx context.Context, profile domain.Profile) error {
	raw, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, kv.ProfileKey, raw); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *KVProfileStore) ClearAll(ctx context.Context) error {
	return errors.Join(
		s.store.Delete(ctx, kv.ProfileKey),
		s.store.Delete(ctx, kv.SequencesKey),
	)
}

func encodeProfile(p domain.Profile) ([]byte, error) {
	createdAt := p.CreatedAt.Format(time.RFC3339Nano)
	doc := profileJSON{
		ID:                &p.ID,
		Name:              &p.Name,
		Email:             &p.Email,
		CreatedAt:         &createdAt,
		CurrentStreak:     &p.CurrentStreak,
		LongestStreak:     &p.LongestStreak,
		CompletedSessions: make([]completionJSON, 0, len(p.CompletedSessions)),
	}
	if p.ScheduledTime != "" {
		doc.ScheduledTime = &p.ScheduledTime
	}
	if !p.LastPracticeDate.IsZero() {
		last := p.LastPracticeDate.String()
		doc.LastPracticeDate = &last
	}
	for _, rec := range p.CompletedSessions {
		doc.CompletedSessions = append(doc.CompletedSessions, completionJSON{
			ID:              rec.ID,
			Date:            rec.Date.String(),
			Day:             rec.Day,
			CompletedAt:     rec.CompletedAt.Format(time.RFC3339Nano),
			DurationSeconds: rec.DurationSeconds,
		})
	}
	raw, err := json.Marshal(profileBlob{Version: domain.SchemaVersion, Profile: &doc})
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	return raw, nil
}

func decodeProfile(raw []byte) (domain.Profile, error) {
	blob := profileBlob{}
	if err := json.Unmarshal(raw, &blob); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile blob: %w", err)
	}
	doc := blob.Profile
	if doc == nil {
		return domain.Profile{}, errors.New("profile missing")
	}
	if doc.ID == nil || doc.Name == nil || doc.Email == nil || doc.CreatedAt == nil ||
		doc.CurrentStreak == nil || doc.LongestStreak == nil || doc.CompletedSessions == nil {
		return domain.Profile{}, errors.New("profile missing required fields")
	}
	createdAt, err := parseTimestamp(*doc.CreatedAt)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("createdAt: %w", err)
	}
	profile := domain.Profile{
		ID:                *doc.ID,
		Name:              *doc.Name,
		Email:             *doc.Email,
		CreatedAt:         createdAt,
		CurrentStreak:     *doc.CurrentStreak,
		LongestStreak:     *doc.LongestStreak,
		CompletedSessions: make([]domain.CompletionRecord, 0, len(doc.CompletedSessions)),
	}
	if doc.ScheduledTime != nil {
		profile.ScheduledTime = *doc.ScheduledTime
	}
	if doc.LastPracticeDate != nil {
		if profile.LastPracticeDate, err = calendar.Parse(*doc.LastPracticeDate); err != nil {
			return domain.Profile{}, fmt.Errorf("lastPracticeDate: %w", err)
		}
	}
	for i, c := range doc.CompletedSessions {
		date, err := calendar.Parse(c.Date)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("completedSessions[%d].date: %w", i, err)
		}
		completedAt, err := parseTimestamp(c.CompletedAt)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("completedSessions[%d].completedAt: %w", i, err)
		}
		profile.CompletedSessions = append(profile.CompletedSessions, domain.CompletionRecord{
			ID:              c.ID,
			Date:            date,
			Day:             c.Day,
			CompletedAt:     completedAt,
			DurationSeconds: c.DurationSeconds,
		})
	}
	return profile, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	d, err := calendar.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local), nil
}
