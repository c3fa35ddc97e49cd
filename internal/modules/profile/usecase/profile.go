package usecase

import (
	"context"
	"fmt"
	"strings"

	"yogavrita/internal/modules/profile/domain"
	"yogavrita/internal/modules/profile/dto"
	profilein "yogavrita/internal/modules/profile/port/in"
	"yogavrita/internal/modules/profile/service"
	"yogavrita/internal/platform/calendar"
	apperrors "yogavrita/internal/platform/errors"
)

type Interactor struct {
	svc *service.ProfileService
}

func NewInteractor(svc *service.ProfileService) profilein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.ProfileOutput, error) {
	profile, err := i.svc.Create(ctx, strings.TrimSpace(input.Name), strings.TrimSpace(input.Email))
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return i.output(profile), nil
}

func (i *Interactor) Get(ctx context.Context) (dto.ProfileOutput, error) {
	profile, err := i.svc.Get(ctx)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return i.output(profile), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) (dto.ProfileOutput, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" && email == "" {
		return dto.ProfileOutput{}, fmt.Errorf("%w: nothing to update", apperrors.ErrInvalidInput)
	}
	profile, err := i.svc.Update(ctx, func(p *domain.Profile) {
		if name != "" {
			p.Name = name
		}
		if email != "" {
			p.Email = email
		}
	})
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return i.output(profile), nil
}

// UpdateSchedule sets the preferred daily time; "" clears it.
func (i *Interactor) UpdateSchedule(ctx context.Context, scheduledTime string) (dto.ProfileOutput, error) {
	value := strings.TrimSpace(scheduledTime)
	if err := domain.ValidateScheduledTime(value); err != nil {
		return dto.ProfileOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	profile, err := i.svc.Update(ctx, func(p *domain.Profile) { p.ScheduledTime = value })
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return i.output(profile), nil
}

func (i *Interactor) CompleteSession(ctx context.Context, input dto.CompletionInput) (dto.CompletionOutput, error) {
	if input.CompletedAt.IsZero() {
		return dto.CompletionOutput{}, fmt.Errorf("%w: completion time is required", apperrors.ErrInvalidInput)
	}
	if input.DurationSeconds < 0 {
		return dto.CompletionOutput{}, fmt.Errorf("%w: duration must be non-negative", apperrors.ErrInvalidInput)
	}
	rec := domain.CompletionRecord{
		ID:              input.ID,
		Date:            calendar.Of(input.CompletedAt),
		Day:             input.Day,
		CompletedAt:     input.CompletedAt,
		DurationSeconds: input.DurationSeconds,
	}
	profile, counted, err := i.svc.CompleteSession(ctx, rec)
	if err != nil {
		return dto.CompletionOutput{}, err
	}
	last := profile.CompletedSessions[len(profile.CompletedSessions)-1]
	return dto.CompletionOutput{Profile: i.output(profile), Record: historyEntry(last), Counted: counted}, nil
}

func (i *Interactor) RecomputeStreak(ctx context.Context, input dto.RecomputeInput) (dto.ProfileOutput, error) {
	asOf := i.svc.Now()
	if strings.TrimSpace(input.AsOf) != "" {
		parsed, err := calendar.Parse(strings.TrimSpace(input.AsOf))
		if err != nil {
			return dto.ProfileOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		asOf = parsed
	}
	profile, err := i.svc.RecomputeStreak(ctx, asOf)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return i.output(profile), nil
}

func (i *Interactor) History(ctx context.Context) ([]dto.HistoryEntry, error) {
	profile, err := i.svc.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryEntry, 0, len(profile.CompletedSessions))
	for _, rec := range profile.CompletedSessions {
		out = append(out, historyEntry(rec))
	}
	return out, nil
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.svc.Reset(ctx)
}

func (i *Interactor) output(p domain.Profile) dto.ProfileOutput {
	return dto.ProfileOutput{
		ID:                   p.ID,
		Name:                 p.Name,
		Email:                p.Email,
		CreatedAt:            p.CreatedAt,
		ScheduledTime:        p.ScheduledTime,
		CurrentStreak:        p.CurrentStreak,
		LongestStreak:        p.LongestStreak,
		LastPracticeDate:     p.LastPracticeDate.String(),
		Sessions:             len(p.CompletedSessions),
		TotalPracticeSeconds: p.TotalPracticeSeconds(),
		MissedPracticeDays:   i.svc.MissedPracticeDays(p),
	}
}

func historyEntry(rec domain.CompletionRecord) dto.HistoryEntry {
	return dto.HistoryEntry{
		ID:              rec.ID,
		Date:            rec.Date.String(),
		Day:             rec.Day,
		CompletedAt:     rec.CompletedAt,
		DurationSeconds: rec.DurationSeconds,
	}
}
