package repository

import (
	"context"
	"fmt"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository owns the writes that span users, coin_transactions and redemptions.
// Mutations lock the owner's users row so ledger changes for one user are serialized.
type LedgerRepository struct {
	db           *pgxpool.Pool
	users        *UserRepository
	transactions *CoinTransactionRepository
	redemptions  *RedemptionRepository
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{
		db:           db,
		users:        NewUserRepository(db),
		transactions: NewCoinTransactionRepository(db),
		redemptions:  NewRedemptionRepository(db),
	}
}

func (r *LedgerRepository) UserByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	return r.users.GetByMobile(ctx, mobile)
}

// AppendTransaction inserts a single ledger row
func (r *LedgerRepository) AppendTransaction(ctx context.Context, tx *domain.CoinTransaction) error {
	return r.transactions.Create(ctx, tx)
}

// Redeem writes the debit and the redemption in one transaction.
// The owner's row is locked first and the derived balance must cover the debit.
func (r *LedgerRepository) Redeem(ctx context.Context, debit *domain.CoinTransaction, rd *domain.Redemption) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return translate(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, debit.UserID).Scan(&userID); err != nil {
		return translate(err)
	}

	earned, spent, err := r.transactions.Totals(ctx, tx, debit.Mobile)
	if err != nil {
		return err
	}
	if balance := earned - spent; balance < debit.SpentCoin {
		return fmt.Errorf("%w: balance %d, requested %d", domain.ErrInsufficientCoins, balance, debit.SpentCoin)
	}

	if err := r.transactions.CreateWithTx(ctx, tx, debit); err != nil {
		return err
	}
	if err := r.redemptions.CreateWithTx(ctx, tx, rd); err != nil {
		return err
	}

	return translate(tx.Commit(ctx))
}

// UpdateRedemption locks the redemption matching code and mobile, lets mutate change it,
// and persists the result. An error from mutate aborts without writing.
func (r *LedgerRepository) UpdateRedemption(ctx context.Context, code, mobile string, mutate func(*domain.Redemption) error) (*domain.Redemption, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, translate(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rd, err := r.redemptions.lockByCodeAndMobile(ctx, tx, code, mobile)
	if err != nil {
		return nil, err
	}

	if err := mutate(rd); err != nil {
		return nil, err
	}

	if err := r.redemptions.updateStatusWithTx(ctx, tx, rd); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translate(err)
	}
	return rd, nil
}

// Balance derives the current balance from the ledger
func (r *LedgerRepository) Balance(ctx context.Context, mobile string) (domain.CoinBalance, error) {
	earned, spent, err := r.transactions.Totals(ctx, r.db, mobile)
	if err != nil {
		return domain.CoinBalance{}, err
	}
	return domain.NewCoinBalance(mobile, earned, spent), nil
}
