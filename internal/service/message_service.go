package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/listing"
	"loyalty_backend/internal/validation"
)

type MessageStore interface {
	listing.Source[domain.Message, domain.MessageFilter]
	Create(ctx context.Context, m *domain.Message) error
}

// UserLookup resolves a mobile number to its account.
type UserLookup interface {
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
}

type MessageService struct {
	store    MessageStore
	users    UserLookup
	notifier Notifier
}

func NewMessageService(store MessageStore, users UserLookup, notifier Notifier) *MessageService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &MessageService{store: store, users: users, notifier: notifier}
}

// SendInput addresses exactly one of Token, Topic or Mobile.
type SendInput struct {
	Title  string `json:"title" validate:"required,max=200"`
	Body   string `json:"body" validate:"required,max=2000"`
	Token  string `json:"token"`
	Topic  string `json:"topic"`
	Mobile string `json:"mobile"`
}

func (s *MessageService) resolve(ctx context.Context, in SendInput) (string, domain.TargetType, error) {
	set := 0
	for _, v := range []string{in.Token, in.Topic, in.Mobile} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set != 1 {
		return "", "", fmt.Errorf("%w: exactly one of token, topic or mobile is required", domain.ErrInvalidArgument)
	}

	switch {
	case in.Token != "":
		return strings.TrimSpace(in.Token), domain.TargetToken, nil
	case in.Topic != "":
		return strings.TrimSpace(in.Topic), domain.TargetTopic, nil
	}

	u, err := s.users.GetByMobile(ctx, strings.TrimSpace(in.Mobile))
	if err != nil {
		return "", "", err
	}
	if u.DeviceToken == "" {
		return "", "", fmt.Errorf("%w: user %s has no registered device", domain.ErrInvalidArgument, u.Mobile)
	}
	return u.DeviceToken, domain.TargetToken, nil
}

// Send pushes one notification and records the attempt. Delivery failure is
// recorded and then returned as ErrUpstream.
func (s *MessageService) Send(ctx context.Context, in SendInput) (*domain.Message, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	target, typ, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{Title: in.Title, Body: in.Body, Target: target, TargetType: typ}
	sendErr := s.notifier.Send(ctx, domain.Notification{Title: in.Title, Body: in.Body, Target: target, Type: typ})
	msg.Delivered = sendErr == nil
	if sendErr != nil {
		msg.Error = sendErr.Error()
	}

	if err := s.store.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("record message: %w", err)
	}

	if sendErr != nil {
		if !errors.Is(sendErr, domain.ErrUpstream) {
			sendErr = fmt.Errorf("%w: %v", domain.ErrUpstream, sendErr)
		}
		return msg, sendErr
	}
	return msg, nil
}

func (s *MessageService) List(ctx context.Context, f domain.MessageFilter, page, pageSize int) (*listing.Result[domain.Message], error) {
	return listing.List[domain.Message, domain.MessageFilter](ctx, s.store, f, page, pageSize)
}
