package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusNoShow     BookingStatus = "no_show"
)

// IsBlockingStatus reports whether a booking in this status occupies calendar
// capacity. Cancelled, completed and no-show bookings free their slot.
func IsBlockingStatus(status BookingStatus) bool {
	switch status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress:
		return true
	default:
		return false
	}
}

// IsTerminalStatus reports whether no further transition is allowed.
func IsTerminalStatus(status BookingStatus) bool {
	switch status {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	default:
		return false
	}
}

// CanTransition reports whether the status change is allowed by the booking
// lifecycle: pending -> confirmed/cancelled, confirmed -> in_progress/cancelled,
// in_progress -> completed/no_show, and any blocking status -> cancelled.
func CanTransition(from, to BookingStatus) bool {
	if IsTerminalStatus(from) {
		return false
	}
	if to == BookingStatusCancelled {
		return IsBlockingStatus(from)
	}
	switch from {
	case BookingStatusPending:
		return to == BookingStatusConfirmed
	case BookingStatusConfirmed:
		return to == BookingStatusInProgress
	case BookingStatusInProgress:
		return to == BookingStatusCompleted || to == BookingStatusNoShow
	default:
		return false
	}
}

type Booking struct {
	Base
	Code          string     `db:"code"`
	UserID        *uuid.UUID `db:"user_id"`
	CustomerName  string     `db:"customer_name"`
	CustomerPhone string     `db:"customer_phone"`
	BranchID      uuid.UUID  `db:"branch_id"`
	ServiceID     uuid.UUID  `db:"service_id"`
	StaffID       uuid.UUID  `db:"staff_id"`
	BookingDate   time.Time  `db:"booking_date"`
	// BookingTime is the "HH:MM" start time; DurationMinutes is copied from the
	// service at booking time so later service edits don't corrupt history.
	BookingTime     string        `db:"booking_time"`
	DurationMinutes int           `db:"duration_minutes"`
	Price           float64       `db:"price"`
	Status          BookingStatus `db:"status"`
	Notes           *string       `db:"notes"`
}
