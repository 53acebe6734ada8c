package entity

import (
	"time"
)

type OTPPurpose string

const (
	OTPPurposeGuestBooking OTPPurpose = "guest_booking"
	OTPPurposeVerifyEmail  OTPPurpose = "verify_email"
)

type OTP struct {
	BaseSimple
	Contact   string     `db:"contact"`
	Code      string     `db:"code"`
	Purpose   OTPPurpose `db:"purpose"`
	ExpiresAt time.Time  `db:"expires_at"`
	IsUsed    bool       `db:"is_used"`
}
