package response

import (
	"time"

	"clinic-booking/internal/data/entity"
)

type PostResponse struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Body        string     `json:"body,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func PostToResponse(p *entity.Post) PostResponse {
	return PostResponse{
		ID:          p.ID.String(),
		Slug:        p.Slug,
		Title:       p.Title,
		Body:        p.Body,
		PublishedAt: p.PublishedAt,
	}
}

// PostSummaryToResponse omits the body for list views.
func PostSummaryToResponse(p *entity.Post) PostResponse {
	return PostResponse{
		ID:          p.ID.String(),
		Slug:        p.Slug,
		Title:       p.Title,
		PublishedAt: p.PublishedAt,
	}
}
