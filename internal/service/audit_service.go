package service

import (
	"context"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/listing"
	"loyalty_backend/internal/logger"
)

type AuditStore interface {
	listing.Source[domain.AuditLog, domain.AuditFilter]
	Create(ctx context.Context, log *domain.AuditLog) error
}

// AuditService handles audit logging. Write failures are logged and never fail the caller.
type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

// RequestMeta identifies who performed an action and from where
type RequestMeta struct {
	UserID    int64
	IP        string
	UserAgent string
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, meta RequestMeta, action, category string, details map[string]interface{}) {
	if s == nil {
		return
	}
	entry := &domain.AuditLog{
		UserID:    meta.UserID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}

	if err := s.store.Create(ctx, entry); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", action, "user_id", meta.UserID)
	}
}

// LogAdminAction records an admin mutation against a target record
func (s *AuditService) LogAdminAction(ctx context.Context, meta RequestMeta, action, category string, target interface{}, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["admin_id"] = meta.UserID
	details["target"] = target

	s.Log(ctx, meta, action, category, details)
}

// LogCoinMovement records an earn or redeem on a user's ledger
func (s *AuditService) LogCoinMovement(ctx context.Context, meta RequestMeta, action string, coins int64, ref string) {
	s.Log(ctx, meta, action, domain.AuditCategoryCoin, map[string]interface{}{
		"coins": coins,
		"ref":   ref,
	})
}

func (s *AuditService) List(ctx context.Context, f domain.AuditFilter, page, pageSize int) (*listing.Result[domain.AuditLog], error) {
	return listing.List[domain.AuditLog, domain.AuditFilter](ctx, s.store, f, page, pageSize)
}
