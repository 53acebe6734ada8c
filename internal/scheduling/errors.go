package scheduling

import "errors"

var (
	// ErrInvalidGranularity is returned when the slot step is not one of the
	// accepted values (5, 10, 15, 20, 30 minutes).
	ErrInvalidGranularity = errors.New("invalid slot granularity")

	// ErrInvalidDuration is returned when a service duration is zero or negative.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidHours is returned when an opening interval does not close
	// after it opens.
	ErrInvalidHours = errors.New("invalid opening hours")
)
