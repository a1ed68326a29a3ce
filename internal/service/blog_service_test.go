package service

import (
	"context"
	"errors"
	"testing"

	"loyalty_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlogs struct {
	posts []*domain.Blog
}

func (m *memBlogs) Create(_ context.Context, b *domain.Blog) error {
	for _, p := range m.posts {
		if p.Slug == b.Slug {
			return domain.ErrConflict
		}
	}
	b.ID = int64(len(m.posts) + 1)
	cp := *b
	m.posts = append(m.posts, &cp)
	return nil
}

func (m *memBlogs) Update(_ context.Context, b *domain.Blog) error {
	for i, p := range m.posts {
		if p.ID == b.ID {
			cp := *b
			m.posts[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memBlogs) GetByID(_ context.Context, id int64) (*domain.Blog, error) {
	for _, p := range m.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memBlogs) GetBySlug(_ context.Context, slug string) (*domain.Blog, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memBlogs) Delete(_ context.Context, id int64) error {
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memBlogs) matching(f domain.BlogFilter) []domain.Blog {
	var out []domain.Blog
	for _, p := range m.posts {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func (m *memBlogs) Count(_ context.Context, f domain.BlogFilter) (int, error) {
	return len(m.matching(f)), nil
}

func (m *memBlogs) Find(_ context.Context, f domain.BlogFilter, offset, limit int) ([]domain.Blog, error) {
	return pageOf(m.matching(f), offset, limit), nil
}

func TestBlogService_DraftVisibility(t *testing.T) {
	svc := NewBlogService(&memBlogs{})
	ctx := context.Background()

	draft, err := svc.Create(ctx, BlogInput{Title: ptr("Spring Rewards"), Body: ptr("...")})
	require.NoError(t, err)
	assert.Equal(t, domain.BlogDraft, draft.Status)
	assert.Equal(t, "spring-rewards", draft.Slug)

	_, err = svc.GetBySlug(ctx, "spring-rewards", false)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	got, err := svc.GetBySlug(ctx, "spring-rewards", true)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	public, err := svc.List(ctx, domain.BlogFilter{}, false, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, public.Items)

	_, err = svc.Update(ctx, draft.ID, BlogInput{Status: ptr(string(domain.BlogPublished))})
	require.NoError(t, err)

	got, err = svc.GetBySlug(ctx, "spring-rewards", false)
	require.NoError(t, err)
	assert.Equal(t, "Spring Rewards", got.Title)
}

func TestBlogService_CreateAndDelete(t *testing.T) {
	svc := NewBlogService(&memBlogs{})
	ctx := context.Background()

	_, err := svc.Create(ctx, BlogInput{Body: ptr("no title")})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = svc.Create(ctx, BlogInput{Title: ptr("x"), Status: ptr("Hidden")})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	b, err := svc.Create(ctx, BlogInput{Title: ptr("Hello")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, BlogInput{Title: ptr("Hello")})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, b.ID), domain.ErrNotFound))
}

func TestBlogService_CyrillicTitle(t *testing.T) {
	svc := NewBlogService(&memBlogs{})
	ctx := context.Background()

	first, err := svc.Create(ctx, BlogInput{Title: ptr("Новости")})
	require.NoError(t, err)
	second, err := svc.Create(ctx, BlogInput{Title: ptr("Акции недели")})
	require.NoError(t, err)
	assert.NotEmpty(t, first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)

	_, err = svc.Create(ctx, BlogInput{Title: ptr("???")})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
