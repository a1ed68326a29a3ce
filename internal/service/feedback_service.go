package service

import (
	"context"
	"fmt"
	"strings"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/listing"
	"loyalty_backend/internal/validation"
)

type FeedbackStore interface {
	listing.Source[domain.Feedback, domain.FeedbackFilter]
	Create(ctx context.Context, f *domain.Feedback) error
	GetByID(ctx context.Context, id int64) (*domain.Feedback, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.FeedbackStatus) (*domain.Feedback, error)
}

type FeedbackService struct {
	store FeedbackStore
}

func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store}
}

type FeedbackInput struct {
	Category string `json:"category" form:"category" validate:"max=50"`
	Message  string `json:"message" form:"message" validate:"required,max=2000"`
	PhotoURL string `json:"-" form:"-"`
}

func (s *FeedbackService) Submit(ctx context.Context, author *domain.User, in FeedbackInput) (*domain.Feedback, error) {
	in.Message = strings.TrimSpace(in.Message)
	in.Category = strings.TrimSpace(in.Category)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	f := &domain.Feedback{
		UserID:   author.ID,
		Name:     author.Name,
		Mobile:   author.Mobile,
		Category: in.Category,
		Message:  in.Message,
		PhotoURL: in.PhotoURL,
		Status:   domain.FeedbackCreated,
	}
	if err := s.store.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

// Moderate moves feedback to status. Created -> Published is the only edge.
func (s *FeedbackService) Moderate(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error) {
	if !domain.FeedbackCreated.CanTransition(status) {
		return nil, fmt.Errorf("%w: feedback cannot move to %q", domain.ErrInvalidTransition, status)
	}
	return s.store.UpdateStatus(ctx, id, domain.FeedbackCreated, status)
}

// List shows Published feedback to the public and everything to admins.
func (s *FeedbackService) List(ctx context.Context, f domain.FeedbackFilter, admin bool, page, pageSize int) (*listing.Result[domain.Feedback], error) {
	if !admin {
		f.Status = domain.FeedbackPublished
	}
	return listing.List[domain.Feedback, domain.FeedbackFilter](ctx, s.store, f, page, pageSize)
}
