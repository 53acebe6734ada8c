package adaptor

import (
	"clinic-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Booking *BookingHandler
	Payment *PaymentHandler
	Review  *ReviewHandler
	Blog    *BlogHandler
	Chatbot *ChatbotHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Catalog: NewCatalogHandler(service.Catalog, log),
		Booking: NewBookingHandler(service.Booking, service.Availability, log),
		Payment: NewPaymentHandler(service.Payment, log),
		Review:  NewReviewHandler(service.Review, log),
		Blog:    NewBlogHandler(service.Blog, log),
		Chatbot: NewChatbotHandler(service.Chatbot, log),
	}
}
