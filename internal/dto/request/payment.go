package request

type InitiatePaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	BankCode  string `json:"bank_code,omitempty" validate:"omitempty,max=20"`
	ClientIP  string `json:"-"`
}
