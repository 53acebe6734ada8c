package wire

import (
	"net/http"

	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	createLimit func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Guests book with just a name and phone number; the confirmation code is
	// their handle for lookup, cancel and reschedule.
	r.Get("/api/slots", bookingHandler.ListSlots)
	r.Group(func(r chi.Router) {
		r.Use(createLimit)

		r.Post("/api/bookings", bookingHandler.CreateBooking)
	})
	r.Get("/api/bookings/code/{code}", bookingHandler.GetBookingByCode)
	r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
	r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
	r.Put("/api/bookings/{id}/reschedule", bookingHandler.RescheduleBooking)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/user/bookings - the logged-in user's booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// PUT /api/admin/bookings/{id}/status - lifecycle transitions
		r.Put("/{id}/status", bookingHandler.UpdateStatus)
	})
}
