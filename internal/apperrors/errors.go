package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Domain entity errors represent missing or invalid entities in the system.
var (
	// ErrAssetNotFound indicates that an asset with the given ID does not exist in the group.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrSecureNoteNotSet indicates that the asset has no secure note stored.
	ErrSecureNoteNotSet = errors.New("secure note not set")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrQuarterNotReached indicates a snapshot was requested for a quarter that has not started yet.
	// Always returned wrapped in a *QuarterNotReachedError carrying the latest allowed quarter.
	ErrQuarterNotReached = errors.New("inventory quarter has not been reached")

	// ErrInvalidDateRange indicates that a history range starts after it ends.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidMonth indicates that the month parameter could not be parsed.
	ErrInvalidMonth = errors.New("month must be formatted as YYYY-MM")

	// ErrSecureNoteKeyMissing indicates that no encryption key is configured for secure notes.
	ErrSecureNoteKeyMissing = errors.New("secure note key is not configured")
)

// Operation failure errors represent system-level failures.
var (
	ErrFailedToRetrieveAssets    = errors.New("failed to retrieve assets")
	ErrFailedToRetrieveSnapshots = errors.New("failed to retrieve inventory snapshots")
	ErrFailedToSaveSnapshot      = errors.New("failed to save inventory snapshot")
	ErrFailedToSaveAsset         = errors.New("failed to save asset")
	ErrFailedToDecryptNote       = errors.New("failed to decrypt secure note")
)

// QuarterNotReachedError is the calendar violation signal.
// Callers redirect to Latest, the newest quarter a snapshot may target.
type QuarterNotReachedError struct {
	Requested time.Time
	Latest    time.Time
}

func (e *QuarterNotReachedError) Error() string {
	return fmt.Sprintf("%s: requested %s, latest allowed %s",
		ErrQuarterNotReached, e.Requested.Format("2006-01"), e.Latest.Format("2006-01"))
}

// Unwrap makes errors.Is(err, ErrQuarterNotReached) hold.
func (e *QuarterNotReachedError) Unwrap() error {
	return ErrQuarterNotReached
}
