package domain

import "time"

type FeedbackStatus string

const (
	FeedbackCreated   FeedbackStatus = "Created"
	FeedbackPublished FeedbackStatus = "Published"
)

func (s FeedbackStatus) CanTransition(next FeedbackStatus) bool {
	return s == FeedbackCreated && next == FeedbackPublished
}

type Feedback struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"userId"`
	Name      string         `db:"name" json:"name"`
	Mobile    string         `db:"mobile" json:"mobile"`
	Category  string         `db:"category" json:"category"`
	Message   string         `db:"message" json:"message"`
	PhotoURL  string         `db:"photo_url" json:"photo"`
	Status    FeedbackStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

type FeedbackFilter struct {
	Status   FeedbackStatus
	Category string
}
