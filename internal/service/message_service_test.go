package service

import (
	"context"
	"errors"
	"testing"

	"loyalty_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memMessages struct {
	msgs []domain.Message
}

func (m *memMessages) Create(_ context.Context, msg *domain.Message) error {
	msg.ID = int64(len(m.msgs) + 1)
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memMessages) Count(context.Context, domain.MessageFilter) (int, error) {
	return len(m.msgs), nil
}

func (m *memMessages) Find(_ context.Context, _ domain.MessageFilter, offset, limit int) ([]domain.Message, error) {
	return pageOf(m.msgs, offset, limit), nil
}

func TestMessageService_Targets(t *testing.T) {
	users := newMemUsers()
	u := customer()
	require.NoError(t, users.Create(context.Background(), u))
	notifier := &recordingNotifier{}
	store := &memMessages{}
	svc := NewMessageService(store, users, notifier)
	ctx := context.Background()

	_, err := svc.Send(ctx, SendInput{Title: "Hi", Body: "Sale today", Topic: "offers"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, SendInput{Title: "Hi", Body: "Your order shipped", Mobile: "9990001111"})
	require.NoError(t, err)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, domain.TargetTopic, notifier.sent[0].Type)
	assert.Equal(t, "offers", notifier.sent[0].Target)
	assert.Equal(t, domain.TargetToken, notifier.sent[1].Type)
	assert.Equal(t, "device-1", notifier.sent[1].Target)

	res, err := svc.List(ctx, domain.MessageFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.True(t, res.Items[0].Delivered)
}

func TestMessageService_Rejects(t *testing.T) {
	svc := NewMessageService(&memMessages{}, newMemUsers(), &recordingNotifier{})
	ctx := context.Background()

	_, err := svc.Send(ctx, SendInput{Title: "Hi", Body: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = svc.Send(ctx, SendInput{Title: "Hi", Body: "x", Token: "t", Topic: "news"})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = svc.Send(ctx, SendInput{Title: "Hi", Body: "x", Mobile: "0000000000"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.Send(ctx, SendInput{Body: "x", Token: "t"})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestMessageService_RecordsFailedDelivery(t *testing.T) {
	store := &memMessages{}
	svc := NewMessageService(store, newMemUsers(), &recordingNotifier{err: errors.New("503 from push")})

	msg, err := svc.Send(context.Background(), SendInput{Title: "Hi", Body: "x", Token: "tok"})
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	require.NotNil(t, msg)
	assert.False(t, msg.Delivered)
	require.Len(t, store.msgs, 1)
	assert.Equal(t, "503 from push", store.msgs[0].Error)
}
