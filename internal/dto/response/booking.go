package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

// SlotResponse is one bookable start time with the staff free to take it.
// Staff ids are sorted ascending so listings are deterministic.
type SlotResponse struct {
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	EligibleStaff   []string `json:"eligible_staff_ids"`
}

type BookingResponse struct {
	ID              string               `json:"id"`
	Code            string               `json:"code"`
	BranchID        string               `json:"branch_id"`
	BranchName      string               `json:"branch_name,omitempty"`
	ServiceID       string               `json:"service_id"`
	ServiceName     string               `json:"service_name,omitempty"`
	StaffID         string               `json:"staff_id"`
	StaffName       string               `json:"staff_name,omitempty"`
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	BookingDate     string               `json:"booking_date"`
	BookingTime     string               `json:"booking_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Price           float64              `json:"price"`
	Status          entity.BookingStatus `json:"status"`
	Notes           *string              `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

type BookingHistoryResponse struct {
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingDetailResponse struct {
	BookingResponse
	History []BookingHistoryResponse `json:"history"`
	Payment *PaymentResponse         `json:"payment,omitempty"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		Code:            b.Code,
		BranchID:        b.BranchID.String(),
		ServiceID:       b.ServiceID.String(),
		StaffID:         b.StaffID.String(),
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		BookingDate:     b.BookingDate.Format("2006-01-02"),
		BookingTime:     b.BookingTime,
		DurationMinutes: b.DurationMinutes,
		Price:           b.Price,
		Status:          b.Status,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
	}
}

func HistoryToResponse(h *entity.BookingHistory) BookingHistoryResponse {
	return BookingHistoryResponse{
		OldStatus: string(h.OldStatus),
		NewStatus: string(h.NewStatus),
		Reason:    h.Reason,
		CreatedAt: h.CreatedAt,
	}
}
