package entity

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	Base
	Slug        string     `db:"slug"`
	Title       string     `db:"title"`
	Body        string     `db:"body"`
	AuthorID    uuid.UUID  `db:"author_id"`
	PublishedAt *time.Time `db:"published_at"`
}

func (p *Post) IsPublished() bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(time.Now())
}
