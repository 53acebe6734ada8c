package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	Base
	BookingID uuid.UUID     `db:"booking_id"`
	Provider  string        `db:"provider"`
	Amount    float64       `db:"amount"`
	Status    PaymentStatus `db:"status"`
	TxnRef    string        `db:"txn_ref"`
	BankCode  *string       `db:"bank_code"`
	PaidAt    *time.Time    `db:"paid_at"`
}
