package repository

import (
	"context"
	"encoding/json"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_logs (user_id, action, category, details, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, log.UserID, log.Action, log.Category, detailsJSON, log.IP, log.UserAgent)
	return translate(err)
}

func auditConditions(f domain.AuditFilter) *conditions {
	c := &conditions{}
	if f.UserID != 0 {
		c.eq("user_id", f.UserID)
	}
	if f.Category != "" {
		c.eq("category", f.Category)
	}
	return c
}

func (r *AuditRepository) Count(ctx context.Context, f domain.AuditFilter) (int, error) {
	c := auditConditions(f)
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+c.where(), c.args...).Scan(&total)
	return total, translate(err)
}

// Find returns the most recent audit logs first
func (r *AuditRepository) Find(ctx context.Context, f domain.AuditFilter, offset, limit int) ([]domain.AuditLog, error) {
	c := auditConditions(f)
	sql := `SELECT id, user_id, action, category, details, ip, user_agent, created_at
		FROM audit_logs` + c.where() + ` ORDER BY created_at DESC, id DESC` + c.page(limit, offset)

	rows, err := r.db.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var detailsJSON []byte
		if err := rows.Scan(&log.ID, &log.UserID, &log.Action, &log.Category, &detailsJSON, &log.IP, &log.UserAgent, &log.CreatedAt); err != nil {
			return nil, translate(err)
		}
		if err := json.Unmarshal(detailsJSON, &log.Details); err != nil {
			log.Details = make(map[string]interface{})
		}
		logs = append(logs, log)
	}
	return logs, translate(rows.Err())
}
