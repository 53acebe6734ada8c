package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	BookingID  uuid.UUID `db:"booking_id"`
	BranchID   uuid.UUID `db:"branch_id"`
	UserID     uuid.UUID `db:"user_id"`
	Rating     int       `db:"rating"`
	Comment    string    `db:"comment"`
	IsApproved bool      `db:"is_approved"`
}
