package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	BranchID  string    `json:"branch_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ReviewToResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID.String(),
		BookingID: r.BookingID.String(),
		BranchID:  r.BranchID.String(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
