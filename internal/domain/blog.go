package domain

import "time"

type BlogStatus string

const (
	BlogDraft     BlogStatus = "Draft"
	BlogPublished BlogStatus = "Published"
)

func (s BlogStatus) Valid() bool {
	return s == BlogDraft || s == BlogPublished
}

type Blog struct {
	ID        int64      `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Slug      string     `db:"slug" json:"slug"`
	Body      string     `db:"body" json:"body"`
	ImageURL  string     `db:"image_url" json:"image"`
	Author    string     `db:"author" json:"author"`
	Status    BlogStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

type BlogFilter struct {
	Status BlogStatus
}
