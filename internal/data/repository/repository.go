package repository

import (
	"clinic-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	OTP     OTPRepository
	Branch  BranchRepository
	Staff   StaffRepository
	Service ServiceRepository
	Booking BookingRepository
	Payment PaymentRepository
	Review  ReviewRepository
	Post    PostRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		OTP:     NewOTPRepository(db, log),
		Branch:  NewBranchRepository(db, log),
		Staff:   NewStaffRepository(db, log),
		Service: NewServiceRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Payment: NewPaymentRepository(db, log),
		Review:  NewReviewRepository(db, log),
		Post:    NewPostRepository(db, log),
	}
}
