package domain

import "time"

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleAdmin    Role = "Admin"
)

type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountDisabled AccountStatus = "Disabled"
)

func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountDisabled
}

type User struct {
	ID           int64         `db:"id" json:"id"`
	Mobile       string        `db:"mobile" json:"mobile"`
	Email        string        `db:"email" json:"email"`
	Name         string        `db:"name" json:"name"`
	PasswordHash string        `db:"password_hash" json:"-"`
	DeviceToken  string        `db:"device_token" json:"deviceToken,omitempty"`
	AvatarURL    string        `db:"avatar_url" json:"avatar"`
	Role         Role          `db:"role" json:"role"`
	Status       AccountStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsActive() bool {
	return u.Status == AccountActive
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role   Role
	Status AccountStatus
}
