package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrStandingsNotSupported rejects table computation and edits for
	// formats without standings (cup brackets). Callers must refuse at the
	// boundary instead of rendering an empty table.
	ErrStandingsNotSupported = errors.New("standings not supported for format")
)
