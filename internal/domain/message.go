package domain

import "time"

type TargetType string

const (
	TargetToken TargetType = "token"
	TargetTopic TargetType = "topic"
)

// Notification is a push payload addressed to one device token or one topic.
type Notification struct {
	Title  string
	Body   string
	Target string
	Type   TargetType
}

// Message records a push notification sent by an admin.
type Message struct {
	ID         int64      `db:"id" json:"id"`
	Title      string     `db:"title" json:"title"`
	Body       string     `db:"body" json:"body"`
	Target     string     `db:"target" json:"target"`
	TargetType TargetType `db:"target_type" json:"targetType"`
	Delivered  bool       `db:"delivered" json:"delivered"`
	Error      string     `db:"error" json:"error,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

type MessageFilter struct {
	TargetType TargetType
}
