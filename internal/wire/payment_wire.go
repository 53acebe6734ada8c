package wire

import (
	"clinic-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	log *zap.Logger,
) {
	// Both routes are public: payment is initiated by booking id (guests pay
	// too), and the callback is called by the gateway, authenticated by its
	// signature.
	r.Post("/api/payments", paymentHandler.InitiatePayment)
	r.Get("/api/payments/callback", paymentHandler.Callback)
	r.Get("/api/payments/{id}", paymentHandler.GetPayment)
}
