package domain

import "time"

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"userId"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"createdAt"`
}

// Audit action categories
const (
	AuditCategoryAuth     = "auth"
	AuditCategoryCoin     = "coin"
	AuditCategoryCatalog  = "catalog"
	AuditCategoryOrder    = "order"
	AuditCategoryFeedback = "feedback"
	AuditCategoryBlog     = "blog"
	AuditCategoryMessage  = "message"
	AuditCategoryAdmin    = "admin"
)

// Audit actions
const (
	// Auth actions
	AuditActionRegister       = "register"
	AuditActionSignin         = "signin"
	AuditActionPasswordChange = "password_change"

	// Coin actions
	AuditActionCoinEarn          = "coin_earn"
	AuditActionCoinRedeem        = "coin_redeem"
	AuditActionRedemptionReceive = "redemption_receive"

	// Admin actions
	AuditActionCatalogWrite    = "catalog_write"
	AuditActionCatalogDisable  = "catalog_disable"
	AuditActionOrderStatus     = "order_status"
	AuditActionFeedbackPublish = "feedback_publish"
	AuditActionBlogWrite       = "blog_write"
	AuditActionBlogDelete      = "blog_delete"
	AuditActionMessageSend     = "message_send"
	AuditActionUserStatus      = "user_status"
)

type AuditFilter struct {
	UserID   int64
	Category string
}
