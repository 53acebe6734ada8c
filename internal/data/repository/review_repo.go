package repository

import (
	"context"
	"fmt"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error)
	FindApprovedByBranch(ctx context.Context, branchID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountApprovedByBranch(ctx context.Context, branchID uuid.UUID) (int64, error)
	Approve(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, booking_id, branch_id, user_id, rating, comment, is_approved, created_at, updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.BookingID,
		&review.BranchID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.IsApproved,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, branch_id, user_id, rating, comment, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.BookingID,
		review.BranchID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.IsApproved,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("booking_id", review.BookingID.String()),
		)
		return fmt.Errorf("create review for booking %s: %w", review.BookingID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error) {
	review, err := scanReview(r.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE booking_id = $1`, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find review for booking %s: %w", bookingID.String(), err)
	}
	return review, nil
}

func (r *reviewRepository) FindApprovedByBranch(ctx context.Context, branchID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE branch_id = $1 AND is_approved = true
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, branchID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find approved reviews",
			zap.Error(err),
			zap.String("branch_id", branchID.String()),
		)
		return nil, fmt.Errorf("find reviews for branch %s: %w", branchID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

func (r *reviewRepository) CountApprovedByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE branch_id = $1 AND is_approved = true`, branchID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count approved reviews",
			zap.Error(err),
			zap.String("branch_id", branchID.String()),
		)
		return 0, fmt.Errorf("count reviews for branch %s: %w", branchID.String(), err)
	}
	return count, nil
}

func (r *reviewRepository) Approve(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE reviews SET is_approved = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to approve review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("approve review %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}
	return nil
}
