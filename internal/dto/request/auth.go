package request

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=8,max=20"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RequestOTPRequest struct {
	Contact string `json:"contact" validate:"required,min=5,max=100"`
	Purpose string `json:"purpose" validate:"required,oneof=guest_booking verify_email"`
}

type VerifyOTPRequest struct {
	Contact string `json:"contact" validate:"required,min=5,max=100"`
	Code    string `json:"code" validate:"required,len=6"`
	Purpose string `json:"purpose" validate:"required,oneof=guest_booking verify_email"`
}
