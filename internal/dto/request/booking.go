package request

type ListSlotsRequest struct {
	BranchID    string  `json:"branch_id" validate:"required,uuid4"`
	ServiceID   string  `json:"service_id" validate:"required,uuid4"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	StaffID     *string `json:"staff_id,omitempty" validate:"omitempty,uuid4"`
	Granularity int     `json:"granularity,omitempty" validate:"omitempty,oneof=5 10 15 20 30"`
}

type CreateBookingRequest struct {
	BranchID      string  `json:"branch_id" validate:"required,uuid4"`
	ServiceID     string  `json:"service_id" validate:"required,uuid4"`
	StaffID       *string `json:"staff_id,omitempty" validate:"omitempty,uuid4"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string  `json:"time" validate:"required,datetime=15:04"`
	CustomerName  string  `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string  `json:"customer_phone" validate:"required,min=8,max=20"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed in_progress completed no_show cancelled"`
	Reason string `json:"reason" validate:"max=255"`
}

type RescheduleBookingRequest struct {
	NewDate string `json:"new_date" validate:"required,datetime=2006-01-02"`
	NewTime string `json:"new_time" validate:"required,datetime=15:04"`
}
