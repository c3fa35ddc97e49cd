// Package kv is the opaque key-value persistence the profile and catalog
// blobs live in. It plays the role browser local storage plays for a web
// client: small string blobs under fixed keys, bounded by a byte quota.
package kv

import "context"

const (
	ProfileKey   = "yogavrita_profile"
	SequencesKey = "yogavrita_sequences"
)

// Store returns apperrors.ErrNotFound from Get for missing keys and maps
// capacity and permission failures onto apperrors.ErrQuotaExceeded and
// apperrors.ErrAccessDenied.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
