package entity

import (
	"github.com/google/uuid"
)

type Staff struct {
	Base
	BranchID uuid.UUID `db:"branch_id"`
	Name     string    `db:"name"`
	Title    string    `db:"title"`
	IsActive bool      `db:"is_active"`
}

// StaffService marks a staff member as qualified to perform a service.
type StaffService struct {
	StaffID   uuid.UUID `db:"staff_id"`
	ServiceID uuid.UUID `db:"service_id"`
}
