package entity

import (
	"time"

	"github.com/google/uuid"
)

type Branch struct {
	Base
	Name     string `db:"name"`
	Address  string `db:"address"`
	Phone    string `db:"phone"`
	IsActive bool   `db:"is_active"`
}

// BranchHour is one weekday's opening interval for a branch. A missing row
// means the branch is closed that weekday. Invariant: OpenTime < CloseTime.
type BranchHour struct {
	ID        uuid.UUID    `db:"id"`
	BranchID  uuid.UUID    `db:"branch_id"`
	Weekday   time.Weekday `db:"weekday"`
	OpenTime  string       `db:"open_time"`
	CloseTime string       `db:"close_time"`
}
