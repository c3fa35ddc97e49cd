package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	profileout "yogavrita/internal/modules/profile/adapter/out"
	"yogavrita/internal/modules/profile/domain"
	"yogavrita/internal/modules/profile/dto"
	profilein "yogavrita/internal/modules/profile/port/in"
	"yogavrita/internal/modules/profile/service"
	"yogavrita/internal/modules/profile/usecase"
	apperrors "yogavrita/internal/platform/errors"
	"yogavrita/internal/platform/kv"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return "id-" + string(rune('0'+s.n))
}

func newUsecase(t *testing.T, now time.Time) (profilein.Usecase, *fakeClock) {
	t.Helper()
	store, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "yogavrita.db"), 0)
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	clk := &fakeClock{now: now}
	svc := service.NewProfileService(
		profileout.NewKVProfileStore(store, nil),
		store,
		domain.NewStreakCalculator(domain.WeeklyRestDay(time.Sunday)),
		clk, &seqID{}, nil,
	)
	return usecase.NewInteractor(svc), clk
}

// 2026-03-07 is a Saturday.
func day(d, hour int) time.Time {
	return time.Date(2026, time.March, d, hour, 0, 0, 0, time.Local)
}

func TestProfileLifecycleAcrossRestDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, clk := newUsecase(t, day(6, 8))

	if _, err := uc.Get(ctx); !errors.Is(err, apperrors.ErrNoProfile) {
		t.Fatalf("expected onboarding state, got %v", err)
	}
	created, err := uc.Create(ctx, dto.CreateInput{Name: "  Asha ", Email: "asha@example.org"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Asha" || created.ID == "" || created.CurrentStreak != 0 {
		t.Fatalf("unexpected new profile: %+v", created)
	}
	if _, err := uc.Create(ctx, dto.CreateInput{Name: "B", Email: "b@example.org"}); !errors.Is(err, apperrors.ErrProfileExists) {
		t.Fatalf("expected profile exists, got %v", err)
	}

	for _, d := range []int{6, 7, 9} {
		clk.now = day(d, 19)
		out, err := uc.CompleteSession(ctx, dto.CompletionInput{Day: clk.now.Weekday().String(), CompletedAt: clk.now, DurationSeconds: 480})
		if err != nil {
			t.Fatalf("complete %d: %v", d, err)
		}
		if !out.Counted {
			t.Fatalf("completion on %d must count", d)
		}
	}
	again, err := uc.CompleteSession(ctx, dto.CompletionInput{Day: "Monday", CompletedAt: day(9, 21), DurationSeconds: 60})
	if err != nil {
		t.Fatalf("duplicate completion: %v", err)
	}
	if again.Counted || again.Profile.CurrentStreak != 3 || again.Profile.LongestStreak != 3 {
		t.Fatalf("duplicate must not count: %+v", again)
	}
	if again.Profile.Sessions != 4 || again.Profile.TotalPracticeSeconds != 3*480+60 {
		t.Fatalf("history must keep every session: %+v", again.Profile)
	}
	if again.Profile.LastPracticeDate != "2026-03-09" {
		t.Fatalf("unexpected last practice date %q", again.Profile.LastPracticeDate)
	}

	clk.now = day(11, 9)
	out, err := uc.CompleteSession(ctx, dto.CompletionInput{Day: "Wednesday", CompletedAt: clk.now, DurationSeconds: 450})
	if err != nil {
		t.Fatalf("complete after gap: %v", err)
	}
	if out.Profile.CurrentStreak != 1 || out.Profile.LongestStreak != 3 {
		t.Fatalf("missed tuesday must reset streak and keep longest: %+v", out.Profile)
	}

	clk.now = day(13, 9)
	shown, err := uc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if shown.MissedPracticeDays != 1 {
		t.Fatalf("expected thursday missed, got %d", shown.MissedPracticeDays)
	}

	history, err := uc.History(ctx)
	if err != nil || len(history) != 5 || history[0].Date != "2026-03-06" {
		t.Fatalf("unexpected history %+v (%v)", history, err)
	}
}

func TestRecomputeStreakRepairsCounters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, clk := newUsecase(t, day(2, 8))
	if _, err := uc.Create(ctx, dto.CreateInput{Name: "Asha", Email: "asha@example.org"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, d := range []int{2, 3, 4, 6, 7, 9} {
		clk.now = day(d, 7)
		if _, err := uc.CompleteSession(ctx, dto.CompletionInput{Day: clk.now.Weekday().String(), CompletedAt: clk.now, DurationSeconds: 400}); err != nil {
			t.Fatalf("complete %d: %v", d, err)
		}
	}

	repaired, err := uc.RecomputeStreak(ctx, dto.RecomputeInput{AsOf: "2026-03-09"})
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if repaired.CurrentStreak != 3 || repaired.LongestStreak != 3 {
		t.Fatalf("expected 3/3, got %d/%d", repaired.CurrentStreak, repaired.LongestStreak)
	}

	past, err := uc.RecomputeStreak(ctx, dto.RecomputeInput{AsOf: "2026-03-04"})
	if err != nil {
		t.Fatalf("recompute past: %v", err)
	}
	if past.CurrentStreak != 3 || past.LastPracticeDate != "2026-03-04" {
		t.Fatalf("unexpected past recompute %+v", past)
	}

	if _, err := uc.RecomputeStreak(ctx, dto.RecomputeInput{AsOf: "03/09/2026"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad date, got %v", err)
	}
}

func TestUpdateValidatesInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _ := newUsecase(t, day(2, 8))
	if _, err := uc.Create(ctx, dto.CreateInput{Name: "", Email: "asha@example.org"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("empty name must be rejected, got %v", err)
	}
	if _, err := uc.Create(ctx, dto.CreateInput{Name: "Asha", Email: "asha@example.org"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uc.Update(ctx, dto.UpdateInput{Email: "not-an-email"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("bad email must be rejected, got %v", err)
	}
	updated, err := uc.Update(ctx, dto.UpdateInput{Name: "Asha R"})
	if err != nil || updated.Name != "Asha R" || updated.Email != "asha@example.org" {
		t.Fatalf("partial update failed: %+v (%v)", updated, err)
	}
	if _, err := uc.UpdateSchedule(ctx, "25:00"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("bad schedule must be rejected, got %v", err)
	}
	scheduled, err := uc.UpdateSchedule(ctx, "06:15")
	if err != nil || scheduled.ScheduledTime != "06:15" {
		t.Fatalf("schedule failed: %+v (%v)", scheduled, err)
	}
	cleared, err := uc.UpdateSchedule(ctx, "")
	if err != nil || cleared.ScheduledTime != "" {
		t.Fatalf("clearing schedule failed: %+v (%v)", cleared, err)
	}

	if err := uc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := uc.Get(ctx); !errors.Is(err, apperrors.ErrNoProfile) {
		t.Fatalf("expected no profile after reset, got %v", err)
	}
}
