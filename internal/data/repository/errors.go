package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrSlotConflict is returned when the write-time conflict re-check finds
	// an overlapping blocking booking.
	ErrSlotConflict = errors.New("slot conflict")

	// ErrStatusChanged is returned when a guarded status update finds the
	// booking no longer in the expected status.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)

// IsRetryable reports whether a storage error is transient: lock timeout,
// serialization failure or deadlock. Callers retry these a bounded number of
// times before surfacing a fatal error.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "55P03", // lock_not_available
		"40001", // serialization_failure
		"40P01": // deadlock_detected
		return true
	default:
		return false
	}
}
