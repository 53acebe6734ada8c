package entity

import (
	"github.com/google/uuid"
)

// BookingHistory is an append-only record of a status transition. Rows are
// never updated or deleted.
type BookingHistory struct {
	BaseSimple
	BookingID uuid.UUID     `db:"booking_id"`
	OldStatus BookingStatus `db:"old_status"`
	NewStatus BookingStatus `db:"new_status"`
	Reason    string        `db:"reason"`
}
