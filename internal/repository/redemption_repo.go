package repository

import (
	"context"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RedemptionRepository struct {
	db *pgxpool.Pool
}

func NewRedemptionRepository(db *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

const redemptionColumns = `id, user_id, mobile, name, email, product, product_value::text, spent_coin,
	code, status, created_at, received_at`

func scanRedemption(row pgx.Row) (*domain.Redemption, error) {
	var (
		rd    domain.Redemption
		value string
	)
	if err := row.Scan(&rd.ID, &rd.UserID, &rd.Mobile, &rd.Name, &rd.Email, &rd.Product, &value,
		&rd.SpentCoin, &rd.Code, &rd.Status, &rd.CreatedAt, &rd.ReceivedAt); err != nil {
		return nil, translate(err)
	}
	rd.ProductValue = parseNumeric(value)
	return &rd, nil
}

// CreateWithTx inserts a redemption using an existing database transaction
func (r *RedemptionRepository) CreateWithTx(ctx context.Context, q DBTX, rd *domain.Redemption) error {
	err := q.QueryRow(ctx,
		`INSERT INTO redemptions (user_id, mobile, name, email, product, product_value, spent_coin, code, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		rd.UserID, rd.Mobile, rd.Name, rd.Email, rd.Product, numeric(rd.ProductValue), rd.SpentCoin, rd.Code, rd.Status,
	).Scan(&rd.ID, &rd.CreatedAt)
	return translate(err)
}

// GetByCode retrieves a redemption by its code
func (r *RedemptionRepository) GetByCode(ctx context.Context, code string) (*domain.Redemption, error) {
	return scanRedemption(r.db.QueryRow(ctx, `SELECT `+redemptionColumns+` FROM redemptions WHERE code = $1`, code))
}

// lockByCodeAndMobile selects the row FOR UPDATE inside tx
func (r *RedemptionRepository) lockByCodeAndMobile(ctx context.Context, tx pgx.Tx, code, mobile string) (*domain.Redemption, error) {
	return scanRedemption(tx.QueryRow(ctx,
		`SELECT `+redemptionColumns+` FROM redemptions WHERE code = $1 AND mobile = $2 FOR UPDATE`,
		code, mobile,
	))
}

func (r *RedemptionRepository) updateStatusWithTx(ctx context.Context, tx pgx.Tx, rd *domain.Redemption) error {
	_, err := tx.Exec(ctx,
		`UPDATE redemptions SET status = $2, received_at = $3 WHERE id = $1`,
		rd.ID, rd.Status, rd.ReceivedAt,
	)
	return translate(err)
}

func redemptionConditions(f domain.RedemptionFilter) *conditions {
	c := &conditions{}
	if f.Mobile != "" {
		c.eq("mobile", f.Mobile)
	}
	if f.Status != "" {
		c.eq("status", f.Status)
	}
	return c
}

func (r *RedemptionRepository) Count(ctx context.Context, f domain.RedemptionFilter) (int, error) {
	c := redemptionConditions(f)
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM redemptions`+c.where(), c.args...).Scan(&total)
	return total, translate(err)
}

// Find returns newest redemptions first
func (r *RedemptionRepository) Find(ctx context.Context, f domain.RedemptionFilter, offset, limit int) ([]domain.Redemption, error) {
	c := redemptionConditions(f)
	sql := `SELECT ` + redemptionColumns + ` FROM redemptions` + c.where() + ` ORDER BY created_at DESC, id DESC` + c.page(limit, offset)
	rows, err := r.db.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var res []domain.Redemption
	for rows.Next() {
		rd, err := scanRedemption(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *rd)
	}
	return res, translate(rows.Err())
}
