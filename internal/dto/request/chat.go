package request

type ChatRequest struct {
	Message  string  `json:"message" validate:"required,min=1,max=500"`
	BranchID *string `json:"branch_id,omitempty" validate:"omitempty,uuid4"`
}
