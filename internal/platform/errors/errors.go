package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")

	ErrNoProfile     = errors.New("no profile")
	ErrProfileExists = errors.New("profile already exists")
	ErrRestDay       = errors.New("rest day: no sequence scheduled")
	ErrUnknownDay    = errors.New("unknown practice day")

	// Storage failures each need a different remedy, so they stay distinct.
	ErrQuotaExceeded = errors.New("storage quota exceeded: clear old data or raise storage_quota_bytes")
	ErrAccessDenied  = errors.New("storage access denied: check permissions on the data directory")
)
