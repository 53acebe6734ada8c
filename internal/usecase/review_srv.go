package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	// CreateReview records a rating for a completed booking owned by the user.
	// Reviews start unapproved and only appear publicly after moderation.
	CreateReview(ctx context.Context, userID uuid.UUID, req request.CreateReviewRequest) (*response.ReviewResponse, error)
	ListBranchReviews(ctx context.Context, branchID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	ApproveReview(ctx context.Context, id uuid.UUID) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, userID uuid.UUID, req request.CreateReviewRequest) (*response.ReviewResponse, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.Status != entity.BookingStatusCompleted {
		return nil, ErrReviewNotAllowed
	}
	if booking.UserID == nil || *booking.UserID != userID {
		return nil, ErrReviewNotAllowed
	}

	existing, err := s.repo.Review.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewAlreadyExists
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID: bookingID,
		BranchID:  booking.BranchID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("Review created",
		zap.String("booking_id", bookingID.String()),
		zap.Int("rating", req.Rating),
	)
	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) ListBranchReviews(ctx context.Context, branchID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	reviews, err := s.repo.Review.FindApprovedByBranch(ctx, branchID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Review.CountApprovedByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	items := make([]response.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, response.ReviewToResponse(r))
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

func (s *reviewService) ApproveReview(ctx context.Context, id uuid.UUID) error {
	return s.repo.Review.Approve(ctx, id)
}
