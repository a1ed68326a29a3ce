package service

import (
	"context"
	"fmt"
	"strings"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/listing"
)

type BlogStore interface {
	listing.Source[domain.Blog, domain.BlogFilter]
	Create(ctx context.Context, b *domain.Blog) error
	Update(ctx context.Context, b *domain.Blog) error
	GetByID(ctx context.Context, id int64) (*domain.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Blog, error)
	Delete(ctx context.Context, id int64) error
}

type BlogService struct {
	store BlogStore
}

func NewBlogService(store BlogStore) *BlogService {
	return &BlogService{store: store}
}

// BlogInput holds optional fields; nil keeps the stored value on update.
type BlogInput struct {
	Title    *string `json:"title"`
	Slug     *string `json:"slug"`
	Body     *string `json:"body"`
	Author   *string `json:"author"`
	Status   *string `json:"status"`
	ImageURL string  `json:"-"`
}

func (in BlogInput) applyTo(b *domain.Blog) error {
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		b.Slug = Slugify(*in.Slug)
	}
	if in.Body != nil {
		b.Body = *in.Body
	}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	if in.Status != nil {
		status := domain.BlogStatus(*in.Status)
		if !status.Valid() {
			return fmt.Errorf("%w: unknown blog status %q", domain.ErrInvalidArgument, *in.Status)
		}
		b.Status = status
	}
	if in.ImageURL != "" {
		b.ImageURL = in.ImageURL
	}

	if b.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if b.Slug == "" {
		b.Slug = Slugify(b.Title)
	}
	if b.Slug == "" {
		return fmt.Errorf("%w: slug cannot be derived from %q, provide one", domain.ErrInvalidArgument, b.Title)
	}
	return nil
}

func (s *BlogService) Create(ctx context.Context, in BlogInput) (*domain.Blog, error) {
	b := &domain.Blog{Status: domain.BlogDraft}
	if err := in.applyTo(b); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return b, nil
}

func (s *BlogService) Update(ctx context.Context, id int64, in BlogInput) (*domain.Blog, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.applyTo(b); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update blog %d: %w", id, err)
	}
	return b, nil
}

// GetBySlug hides drafts from everyone but admins.
func (s *BlogService) GetBySlug(ctx context.Context, slug string, admin bool) (*domain.Blog, error) {
	b, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !admin && b.Status != domain.BlogPublished {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *BlogService) List(ctx context.Context, f domain.BlogFilter, admin bool, page, pageSize int) (*listing.Result[domain.Blog], error) {
	if !admin {
		f.Status = domain.BlogPublished
	}
	return listing.List[domain.Blog, domain.BlogFilter](ctx, s.store, f, page, pageSize)
}
