package repository

import (
	"context"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO messages (title, body, target, target_type, delivered, error)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		m.Title, m.Body, m.Target, m.TargetType, m.Delivered, m.Error,
	).Scan(&m.ID, &m.CreatedAt)
	return translate(err)
}

func (r *MessageRepository) Count(ctx context.Context, f domain.MessageFilter) (int, error) {
	c := &conditions{}
	if f.TargetType != "" {
		c.eq("target_type", f.TargetType)
	}
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages`+c.where(), c.args...).Scan(&total)
	return total, translate(err)
}

func (r *MessageRepository) Find(ctx context.Context, f domain.MessageFilter, offset, limit int) ([]domain.Message, error) {
	c := &conditions{}
	if f.TargetType != "" {
		c.eq("target_type", f.TargetType)
	}
	sql := `SELECT id, title, body, target, target_type, delivered, error, created_at
		FROM messages` + c.where() + ` ORDER BY created_at DESC, id DESC` + c.page(limit, offset)

	rows, err := r.db.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var res []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Title, &m.Body, &m.Target, &m.TargetType, &m.Delivered, &m.Error, &m.CreatedAt); err != nil {
			return nil, translate(err)
		}
		res = append(res, m)
	}
	return res, translate(rows.Err())
}
