package repository

import (
	"context"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlogRepository struct {
	db *pgxpool.Pool
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{db: db}
}

const blogColumns = `id, title, slug, body, image_url, author, status, created_at, updated_at`

func scanBlog(row pgx.Row) (*domain.Blog, error) {
	var b domain.Blog
	if err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Body, &b.ImageURL, &b.Author, &b.Status,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	if b.Status == "" {
		b.Status = domain.BlogDraft
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO blogs (title, slug, body, image_url, author, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		b.Title, b.Slug, b.Body, b.ImageURL, b.Author, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return translate(err)
}

func (r *BlogRepository) Update(ctx context.Context, b *domain.Blog) error {
	err := r.db.QueryRow(ctx,
		`UPDATE blogs SET title = $2, slug = $3, body = $4, image_url = $5, author = $6, status = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		b.ID, b.Title, b.Slug, b.Body, b.ImageURL, b.Author, b.Status,
	).Scan(&b.UpdatedAt)
	return translate(err)
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	return scanBlog(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id))
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	return scanBlog(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug = $1`, slug))
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) Count(ctx context.Context, f domain.BlogFilter) (int, error) {
	c := &conditions{}
	if f.Status != "" {
		c.eq("status", f.Status)
	}
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`+c.where(), c.args...).Scan(&total)
	return total, translate(err)
}

// Find returns newest posts first
func (r *BlogRepository) Find(ctx context.Context, f domain.BlogFilter, offset, limit int) ([]domain.Blog, error) {
	c := &conditions{}
	if f.Status != "" {
		c.eq("status", f.Status)
	}
	sql := `SELECT ` + blogColumns + ` FROM blogs` + c.where() + ` ORDER BY created_at DESC, id DESC` + c.page(limit, offset)

	rows, err := r.db.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var res []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *b)
	}
	return res, translate(rows.Err())
}
