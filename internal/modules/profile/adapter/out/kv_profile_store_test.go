package out_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profileout "yogavrita/internal/modules/profile/adapter/out"
	"yogavrita/internal/modules/profile/domain"
	"yogavrita/internal/platform/calendar"
	apperrors "yogavrita/internal/platform/errors"
	"yogavrita/internal/platform/kv"
)

func openKV(t *testing.T, quota int64) *kv.SQLiteStore {
	t.Helper()
	store, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "yogavrita.db"), quota)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleProfile() domain.Profile {
	day := calendar.New(2026, time.March, 9)
	return domain.Profile{
		ID:               "3f0c",
		Name:             "Asha",
		Email:            "asha@example.org",
		CreatedAt:        time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		ScheduledTime:    "06:30",
		CurrentStreak:    2,
		LongestStreak:    5,
		LastPracticeDate: day,
		CompletedSessions: []domain.CompletionRecord{{
			ID: "r1", Date: day, Day: "Monday",
			CompletedAt: time.Date(2026, 3, 9, 7, 8, 0, 0, time.UTC), DurationSeconds: 480,
		}},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := profileout.NewKVProfileStore(openKV(t, 0), nil)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoProfile)

	want := sampleProfile()
	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.ScheduledTime, got.ScheduledTime)
	assert.Equal(t, want.LastPracticeDate, got.LastPracticeDate)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.CompletedSessions, 1)
	assert.True(t, want.CompletedSessions[0].CompletedAt.Equal(got.CompletedSessions[0].CompletedAt))
	assert.Equal(t, want.CompletedSessions[0].Date, got.CompletedSessions[0].Date)
}

func TestBlobUsesVersionedCamelCaseLayout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	raw := openKV(t, 0)
	store := profileout.NewKVProfileStore(raw, nil)

	p := sampleProfile()
	p.ScheduledTime = ""
	p.LastPracticeDate = calendar.Date{}
	require.NoError(t, store.Save(ctx, p))

	blob, err := raw.Get(ctx, kv.ProfileKey)
	require.NoError(t, err)
	text := string(blob)
	for _, want := range []string{`"version":1`, `"scheduledTime":null`, `"lastPracticeDate":null`, `"completedSessions":[{"id":"r1","date":"2026-03-09"`, `"durationSeconds":480`} {
		assert.Contains(t, text, want)
	}
}

func TestCorruptOrIncompleteDataReadsAsAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, blob := range map[string]string{
		"not json":         `{"version":1,"profile":`,
		"no profile":       `{"version":1}`,
		"missing email":    `{"version":1,"profile":{"id":"a","name":"b","createdAt":"2026-01-01T00:00:00Z","currentStreak":0,"longestStreak":0,"completedSessions":[]}}`,
		"streak as string": `{"version":1,"profile":{"id":"a","name":"b","email":"c@d.e","createdAt":"2026-01-01T00:00:00Z","currentStreak":"1","longestStreak":0,"completedSessions":[]}}`,
		"bad date":         `{"version":1,"profile":{"id":"a","name":"b","email":"c@d.e","createdAt":"2026-01-01T00:00:00Z","currentStreak":0,"longestStreak":0,"lastPracticeDate":"yesterday","completedSessions":[]}}`,
		"null history":     `{"version":1,"profile":{"id":"a","name":"b","email":"c@d.e","createdAt":"2026-01-01T00:00:00Z","currentStreak":0,"longestStreak":0,"completedSessions":null}}`,
	} {
		raw := openKV(t, 0)
		require.NoError(t, raw.Set(ctx, kv.ProfileKey, []byte(blob)), name)
		_, err := profileout.NewKVProfileStore(raw, nil).Load(ctx)
		assert.ErrorIs(t, err, apperrors.ErrNoProfile, name)
	}
}

func TestAcceptsDateOnlyCreatedAt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	raw := openKV(t, 0)
	blob := `{"version":1,"profile":{"id":"a","name":"b","email":"c@d.e","createdAt":"2026-01-01","scheduledTime":null,"currentStreak":0,"longestStreak":0,"lastPracticeDate":null,"completedSessions":[]}}`
	require.NoError(t, raw.Set(ctx, kv.ProfileKey, []byte(blob)))
	got, err := profileout.NewKVProfileStore(raw, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2026, got.CreatedAt.Year())
}

func TestSaveSurfacesQuotaExceeded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := profileout.NewKVProfileStore(openKV(t, 64), nil)
	err := store.Save(ctx, sampleProfile())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrQuotaExceeded))
	assert.False(t, errors.Is(err, apperrors.ErrAccessDenied))
	assert.True(t, strings.HasPrefix(err.Error(), "save profile"))
}

// lockedKV answers reads but refuses every write the way a read-only
// database file does.
type lockedKV struct{ kv.Store }

func (lockedKV) Set(context.Context, string, []byte) error {
	return fmt.Errorf("set %s: %w", kv.ProfileKey, errors.Join(apperrors.ErrAccessDenied, errors.New("attempt to write a readonly database")))
}

func TestSaveSurfacesAccessDenied(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := profileout.NewKVProfileStore(lockedKV{openKV(t, 0)}, nil)
	err := store.Save(ctx, sampleProfile())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	assert.NotErrorIs(t, err, apperrors.ErrQuotaExceeded)
	assert.True(t, strings.HasPrefix(err.Error(), "save profile"))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoProfile)
}

func TestClearAllRemovesBothBlobs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	raw := openKV(t, 0)
	store := profileout.NewKVProfileStore(raw, nil)
	require.NoError(t, store.Save(ctx, sampleProfile()))
	require.NoError(t, raw.Set(ctx, kv.SequencesKey, []byte(`{"version":1,"sequences":[]}`)))

	require.NoError(t, store.ClearAll(ctx))
	require.NoError(t, store.ClearAll(ctx))
	_, err := raw.Get(ctx, kv.SequencesKey)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoProfile)
}
