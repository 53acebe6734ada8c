package usecase

import (
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles all application services behind one wiring point.
type Service struct {
	Auth         AuthService
	Catalog      CatalogService
	Availability AvailabilityService
	Booking      BookingService
	Payment      PaymentService
	Review       ReviewService
	Blog         BlogService
	Chatbot      ChatbotService
}

func NewService(repo *repository.Repository, cfg *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, cfg, log),
		Catalog:      NewCatalogService(repo, log),
		Availability: NewAvailabilityService(repo, cfg, log),
		Booking:      NewBookingService(repo, cfg, log),
		Payment:      NewPaymentService(repo, cfg, log),
		Review:       NewReviewService(repo, log),
		Blog:         NewBlogService(repo, log),
		Chatbot:      NewChatbotService(repo, log),
	}
}
