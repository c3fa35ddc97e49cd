package service

import (
	"context"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"yogavrita/internal/modules/profile/domain"
	profileout "yogavrita/internal/modules/profile/port/out"
	"yogavrita/internal/platform/calendar"
	"yogavrita/internal/platform/clock"
	apperrors "yogavrita/internal/platform/errors"
	"yogavrita/internal/platform/id"
	"yogavrita/internal/platform/tx"
)

type ProfileService struct {
	store  profileout.ProfileStore
	tx     tx.Manager
	streak domain.StreakCalculator
	clock  clock.Clock
	idGen  id.Generator
	logger hclog.Logger
}

// NewProfileService builds the service. txm makes each load-modify-save
// atomic; nil runs without a transaction.
func NewProfileService(
	store profileout.ProfileStore,
	txm tx.Manager,
	streak domain.StreakCalculator,
	clock clock.Clock,
	idGen id.Generator,
	logger hclog.Logger,
) *ProfileService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &ProfileService{store: store, tx: txm, streak: streak, clock: clock, idGen: idGen, logger: logger}
}

func (s *ProfileService) Streak() domain.StreakCalculator {
	return s.streak
}

func (s *ProfileService) Now() calendar.Date {
	return calendar.Of(s.clock.Now())
}

func (s *ProfileService) Create(ctx context.Context, name, email string) (domain.Profile, error) {
	profile := domain.Profile{
		ID:        s.idGen.New(),
		Name:      name,
		Email:     email,
		CreatedAt: s.clock.Now(),
	}
	if err := profile.Validate(); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		_, err := s.store.Load(ctx)
		if err == nil {
			return apperrors.ErrProfileExists
		}
		if !errors.Is(err, apperrors.ErrNoProfile) {
			return err
		}
		return s.store.Save(ctx, profile)
	})
	if err != nil {
		return domain.Profile{}, err
	}
	s.logger.Info("profile created", "profile_id", profile.ID)
	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context) (domain.Profile, error) {
	return s.store.Load(ctx)
}

func (s *ProfileService) Update(ctx context.Context, mutate func(*domain.Profile)) (domain.Profile, error) {
	var updated domain.Profile
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		profile, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		updated = profile.Clone()
		mutate(&updated)
		if err := updated.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		return s.store.Save(ctx, updated)
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return updated, nil
}

// CompleteSession folds rec into the streak and appends it to the history.
// A second completion on the same day is still logged but does not count
// toward the streak; counted reports which case applied.
func (s *ProfileService) CompleteSession(ctx context.Context, rec domain.CompletionRecord) (profile domain.Profile, counted bool, err error) {
	if rec.Date.IsZero() {
		rec.Date = calendar.Of(rec.CompletedAt)
	}
	if rec.ID == "" {
		rec.ID = s.idGen.New()
	}
	var updated domain.Profile
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		current, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		counted = !current.HasCompletionOn(rec.Date)
		updated = s.streak.UpdateOnCompletion(current, rec.CompletedAt).Clone()
		updated.CompletedSessions = append(updated.CompletedSessions, rec)
		return s.store.Save(ctx, updated)
	})
	if err != nil {
		return domain.Profile{}, false, err
	}
	s.logger.Info("session recorded",
		"record_id", rec.ID, "date", rec.Date.String(), "counted", counted,
		"current_streak", updated.CurrentStreak, "longest_streak", updated.LongestStreak)
	return updated, counted, nil
}

// RecomputeStreak rebuilds the counters from history as of asOf. The
// longest streak never decreases.
func (s *ProfileService) RecomputeStreak(ctx context.Context, asOf calendar.Date) (domain.Profile, error) {
	return s.Update(ctx, func(p *domain.Profile) {
		p.CurrentStreak = s.streak.CalculateStreak(p.CompletedSessions, asOf)
		p.LongestStreak = max(p.LongestStreak, p.CurrentStreak, s.streak.LongestRun(p.CompletedSessions))
		p.LastPracticeDate = calendar.Date{}
		for _, rec := range p.CompletedSessions {
			if !rec.Date.After(asOf) && rec.Date.After(p.LastPracticeDate) {
				p.LastPracticeDate = rec.Date
			}
		}
	})
}

// MissedPracticeDays counts practice days strictly between the last
// completion and today.
func (s *ProfileService) MissedPracticeDays(p domain.Profile) int {
	if p.LastPracticeDate.IsZero() {
		return 0
	}
	yesterday := s.Now().AddDays(-1)
	return s.streak.PracticeDaysBetween(p.LastPracticeDate, yesterday)
}

func (s *ProfileService) Reset(ctx context.Context) error {
	if err := s.tx.Within(ctx, s.store.ClearAll); err != nil {
		return fmt.Errorf("reset profile: %w", err)
	}
	s.logger.Info("profile and cached catalog cleared")
	return nil
}
