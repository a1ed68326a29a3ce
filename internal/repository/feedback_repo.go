package repository

import (
	"context"
	"errors"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedbackRepository struct {
	db *pgxpool.Pool
}

func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

const feedbackColumns = `id, user_id, name, mobile, category, message, photo_url, status, created_at`

func scanFeedback(row pgx.Row) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Mobile, &f.Category, &f.Message,
		&f.PhotoURL, &f.Status, &f.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	if f.Status == "" {
		f.Status = domain.FeedbackCreated
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO feedback (user_id, name, mobile, category, message, photo_url, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		f.UserID, f.Name, f.Mobile, f.Category, f.Message, f.PhotoURL, f.Status,
	).Scan(&f.ID, &f.CreatedAt)
	return translate(err)
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	return scanFeedback(r.db.QueryRow(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`, id))
}

// UpdateStatus moves feedback from one status to another; a row in any other
// status is left untouched and reported as an invalid transition
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.FeedbackStatus) (*domain.Feedback, error) {
	f, err := scanFeedback(r.db.QueryRow(ctx,
		`UPDATE feedback SET status = $3 WHERE id = $1 AND status = $2 RETURNING `+feedbackColumns,
		id, from, to,
	))
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrInvalidTransition
}

func feedbackConditions(f domain.FeedbackFilter) *conditions {
	c := &conditions{}
	if f.Status != "" {
		c.eq("status", f.Status)
	}
	if f.Category != "" {
		c.eq("category", f.Category)
	}
	return c
}

func (r *FeedbackRepository) Count(ctx context.Context, f domain.FeedbackFilter) (int, error) {
	c := feedbackConditions(f)
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`+c.where(), c.args...).Scan(&total)
	return total, translate(err)
}

// Find returns newest feedback first
func (r *FeedbackRepository) Find(ctx context.Context, f domain.FeedbackFilter, offset, limit int) ([]domain.Feedback, error) {
	c := feedbackConditions(f)
	sql := `SELECT ` + feedbackColumns + ` FROM feedback` + c.where() + ` ORDER BY created_at DESC, id DESC` + c.page(limit, offset)

	rows, err := r.db.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var res []domain.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *f)
	}
	return res, translate(rows.Err())
}
