package repository

import (
	"context"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CoinTransactionRepository struct {
	db *pgxpool.Pool
}

func NewCoinTransactionRepository(db *pgxpool.Pool) *CoinTransactionRepository {
	return &CoinTransactionRepository{db: db}
}

// Create inserts a ledger row
func (r *CoinTransactionRepository) Create(ctx context.Context, tx *domain.CoinTransaction) error {
	return r.CreateWithTx(ctx, r.db, tx)
}

// CreateWithTx inserts a ledger row using an existing database transaction
func (r *CoinTransactionRepository) CreateWithTx(ctx context.Context, q DBTX, tx *domain.CoinTransaction) error {
	err := q.QueryRow(ctx,
		`INSERT INTO coin_transactions (user_id, mobile, name, email, earned_coin, spent_coin, order_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		tx.UserID, tx.Mobile, tx.Name, tx.Email, tx.EarnedCoin, tx.SpentCoin, tx.OrderRef,
	).Scan(&tx.ID, &tx.CreatedAt)
	return translate(err)
}

// Totals sums credits and debits for a mobile number
func (r *CoinTransactionRepository) Totals(ctx context.Context, q DBTX, mobile string) (earned, spent int64, err error) {
	err = q.QueryRow(ctx,
		`SELECT COALESCE(SUM(earned_coin), 0), COALESCE(SUM(spent_coin), 0)
		 FROM coin_transactions
		 WHERE mobile = $1`,
		mobile,
	).Scan(&earned, &spent)
	return earned, spent, translate(err)
}

func (r *CoinTransactionRepository) Count(ctx context.Context, f domain.CoinTransactionFilter) (int, error) {
	c := &conditions{}
	if f.Mobile != "" {
		c.eq("mobile", f.Mobile)
	}
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coin_transactions`+c.where(), c.args...).Scan(&total)
	return total, translate(err)
}

// Find returns ledger rows oldest first, in sequence order
func (r *CoinTransactionRepository) Find(ctx context.Context, f domain.CoinTransactionFilter, offset, limit int) ([]domain.CoinTransaction, error) {
	c := &conditions{}
	if f.Mobile != "" {
		c.eq("mobile", f.Mobile)
	}
	sql := `SELECT id, user_id, mobile, name, email, earned_coin, spent_coin, order_ref, created_at
		FROM coin_transactions` + c.where() + ` ORDER BY id ASC` + c.page(limit, offset)

	rows, err := r.db.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// Helper to scan rows into CoinTransaction slice
func (r *CoinTransactionRepository) scanRows(rows pgx.Rows) ([]domain.CoinTransaction, error) {
	var result []domain.CoinTransaction

	for rows.Next() {
		var tx domain.CoinTransaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Mobile, &tx.Name, &tx.Email,
			&tx.EarnedCoin, &tx.SpentCoin, &tx.OrderRef, &tx.CreatedAt); err != nil {
			return nil, translate(err)
		}
		result = append(result, tx)
	}

	return result, translate(rows.Err())
}
