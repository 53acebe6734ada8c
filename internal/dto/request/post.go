package request

type CreatePostRequest struct {
	Slug    string `json:"slug" validate:"required,min=3,max=150"`
	Title   string `json:"title" validate:"required,min=3,max=200"`
	Body    string `json:"body" validate:"required"`
	Publish bool   `json:"publish"`
}

type UpdatePostRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=200"`
	Body    string `json:"body" validate:"required"`
	Publish bool   `json:"publish"`
}
