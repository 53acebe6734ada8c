package usecase

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBranchNotFound    = errors.New("branch not found")
	ErrServiceNotFound   = errors.New("service not found")
	ErrStaffNotFound     = errors.New("staff not found")
	ErrBranchClosed      = errors.New("branch is closed on the requested date")
	ErrSlotUnavailable   = errors.New("requested slot is not available")
	ErrStaffNotEligible  = errors.New("staff member does not perform this service")
	ErrNotModifiable     = errors.New("booking can no longer be modified")
	ErrAlreadyTerminal   = errors.New("booking is already in a terminal status")
	ErrInvalidTransition = errors.New("invalid booking status transition")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("otp code is invalid or expired")
	ErrSessionExpired     = errors.New("session is invalid or expired")

	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentNotPending   = errors.New("payment is not pending")
	ErrInvalidSignature    = errors.New("payment signature verification failed")
	ErrAmountMismatch      = errors.New("payment amount does not match")
	ErrReviewNotAllowed    = errors.New("only completed bookings can be reviewed")
	ErrReviewAlreadyExists = errors.New("booking already has a review")
	ErrPostNotFound        = errors.New("post not found")
	ErrSlugTaken           = errors.New("slug is already in use")
)
