package out

import (
	"context"

	"yogavrita/internal/modules/profile/domain"
)

// ProfileStore persists the single local profile.
//
// Load returns apperrors.ErrNoProfile when nothing usable is stored; corrupt
// data is treated as absent. Save failures wrap apperrors.ErrQuotaExceeded or
// apperrors.ErrAccessDenied when storage refuses the write.
type ProfileStore interface {
	Load(ctx context.Context) (domain.Profile, error)
	Save(ctx context.Context, profile domain.Profile) error
	ClearAll(ctx context.Context) error
}
