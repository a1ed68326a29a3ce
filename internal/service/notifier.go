package service

import (
	"context"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/logger"
)

// Notifier delivers push notifications. Implementations do not retry.
type Notifier interface {
	Send(ctx context.Context, n domain.Notification) error
}

// LogNotifier stands in when no push service is configured
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, n domain.Notification) error {
	logger.WithContext(ctx).Info("push disabled, notification dropped",
		"title", n.Title, "target_type", n.Type)
	return nil
}
