package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

type PaymentResponse struct {
	ID        string               `json:"id"`
	BookingID string               `json:"booking_id"`
	Provider  string               `json:"provider"`
	Amount    float64              `json:"amount"`
	Status    entity.PaymentStatus `json:"status"`
	TxnRef    string               `json:"txn_ref"`
	BankCode  *string              `json:"bank_code,omitempty"`
	PaidAt    *time.Time           `json:"paid_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// InitiatePaymentResponse carries the redirect URL the customer opens to pay.
type InitiatePaymentResponse struct {
	Payment    PaymentResponse `json:"payment"`
	PaymentURL string          `json:"payment_url"`
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID.String(),
		BookingID: p.BookingID.String(),
		Provider:  p.Provider,
		Amount:    p.Amount,
		Status:    p.Status,
		TxnRef:    p.TxnRef,
		BankCode:  p.BankCode,
		PaidAt:    p.PaidAt,
		CreatedAt: p.CreatedAt,
	}
}
