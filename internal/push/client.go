// Package push delivers notifications through Firebase Cloud Messaging.
package push

import (
	"context"
	"fmt"

	"loyalty_backend/internal/config"
	"loyalty_backend/internal/domain"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// sender is the part of *messaging.Client used here.
type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Client sends one notification per call and never retries.
type Client struct {
	fcm sender
}

// NewClient initialises a Firebase app from the service account file. The
// project id falls back to the one in the credentials when empty.
func NewClient(ctx context.Context, cfg config.PushConfig) (*Client, error) {
	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	fcm, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &Client{fcm: fcm}, nil
}

// message addresses a device token or a topic.
func message(n domain.Notification) (*messaging.Message, error) {
	if n.Target == "" {
		return nil, fmt.Errorf("%w: notification has no target", domain.ErrInvalidArgument)
	}
	m := &messaging.Message{
		Notification: &messaging.Notification{Title: n.Title, Body: n.Body},
	}
	switch n.Type {
	case domain.TargetToken, "":
		m.Token = n.Target
	case domain.TargetTopic:
		m.Topic = n.Target
	default:
		return nil, fmt.Errorf("%w: unknown target type %q", domain.ErrInvalidArgument, n.Type)
	}
	return m, nil
}

// Send returns nil only when FCM accepted the message. A token the device
// has dropped comes back as an upstream error like any other rejection.
func (c *Client) Send(ctx context.Context, n domain.Notification) error {
	m, err := message(n)
	if err != nil {
		return err
	}

	if _, err := c.fcm.Send(ctx, m); err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("%w: push: device token is no longer registered: %v", domain.ErrUpstream, err)
		}
		return fmt.Errorf("%w: push: %v", domain.ErrUpstream, err)
	}
	return nil
}
