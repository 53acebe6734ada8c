package request

type BranchHourRequest struct {
	Weekday   int    `json:"weekday" validate:"min=0,max=6"`
	OpenTime  string `json:"open_time" validate:"required,datetime=15:04"`
	CloseTime string `json:"close_time" validate:"required,datetime=15:04"`
}

type CreateBranchRequest struct {
	Name    string              `json:"name" validate:"required,min=2,max=100"`
	Address string              `json:"address" validate:"required,max=255"`
	Phone   string              `json:"phone" validate:"required,min=8,max=20"`
	Hours   []BranchHourRequest `json:"hours" validate:"dive"`
}

type UpdateBranchRequest struct {
	Name     string              `json:"name" validate:"required,min=2,max=100"`
	Address  string              `json:"address" validate:"required,max=255"`
	Phone    string              `json:"phone" validate:"required,min=8,max=20"`
	IsActive bool                `json:"is_active"`
	Hours    []BranchHourRequest `json:"hours,omitempty" validate:"omitempty,dive"`
}

type CreateServiceRequest struct {
	Name            string  `json:"name" validate:"required,min=2,max=100"`
	Description     string  `json:"description" validate:"max=1000"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=5,max=480"`
	Price           float64 `json:"price" validate:"required,min=0"`
}

type UpdateServiceRequest struct {
	Name            string  `json:"name" validate:"required,min=2,max=100"`
	Description     string  `json:"description" validate:"max=1000"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=5,max=480"`
	Price           float64 `json:"price" validate:"required,min=0"`
	IsActive        bool    `json:"is_active"`
}

type CreateStaffRequest struct {
	BranchID   string   `json:"branch_id" validate:"required,uuid4"`
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Title      string   `json:"title" validate:"max=100"`
	ServiceIDs []string `json:"service_ids" validate:"dive,uuid4"`
}
