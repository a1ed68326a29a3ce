package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/logger"

	"github.com/shopspring/decimal"
)

// LedgerStore persists coin movements. Redeem and UpdateRedemption are atomic:
// either every row they touch is written or none is.
type LedgerStore interface {
	UserByMobile(ctx context.Context, mobile string) (*domain.User, error)
	AppendTransaction(ctx context.Context, tx *domain.CoinTransaction) error
	Redeem(ctx context.Context, debit *domain.CoinTransaction, rd *domain.Redemption) error
	UpdateRedemption(ctx context.Context, code, mobile string, mutate func(*domain.Redemption) error) (*domain.Redemption, error)
	Balance(ctx context.Context, mobile string) (domain.CoinBalance, error)
}

const (
	codeAttempts     = 3
	notifyTimeout    = 10 * time.Second
	earnNotification = "Coins earned"
	earnBodyTemplate = "You earned %d coins on your purchase"
)

// Ledger applies the coin earning and redemption rules.
type Ledger struct {
	store    LedgerStore
	notifier Notifier
	codes    *CodeGenerator
	now      func() time.Time
	log      *slog.Logger

	// background notifications, drained by Wait on shutdown
	wg sync.WaitGroup
}

func NewLedger(store LedgerStore, notifier Notifier) *Ledger {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Ledger{
		store:    store,
		notifier: notifier,
		codes:    NewCodeGenerator(),
		now:      time.Now,
		log:      logger.With("component", "ledger"),
	}
}

type EarnInput struct {
	Mobile      string
	OrderAmount decimal.Decimal
	OrderRef    string
}

// Earn credits round(amount*2/100) coins, capped at domain.MaxEarnPerOrder, and
// notifies the user in the background. A zero credit writes nothing.
func (l *Ledger) Earn(ctx context.Context, in EarnInput) (int64, error) {
	if !in.OrderAmount.IsPositive() {
		return 0, fmt.Errorf("%w: order amount must be positive", domain.ErrInvalidArgument)
	}

	user, err := l.store.UserByMobile(ctx, in.Mobile)
	if err != nil {
		return 0, fmt.Errorf("earn for %s: %w", in.Mobile, err)
	}

	coins := domain.EarnedCoins(in.OrderAmount)
	if coins == 0 {
		return 0, nil
	}

	if err := l.store.AppendTransaction(ctx, domain.NewCredit(user, coins, in.OrderRef)); err != nil {
		return 0, fmt.Errorf("append credit: %w", err)
	}
	CoinsEarned.Add(float64(coins))

	if user.DeviceToken != "" {
		l.notify(ctx, domain.Notification{
			Title:  earnNotification,
			Body:   fmt.Sprintf(earnBodyTemplate, coins),
			Target: user.DeviceToken,
			Type:   domain.TargetToken,
		})
	}

	return coins, nil
}

// notify sends at most once without blocking the caller; failures are only logged.
func (l *Ledger) notify(ctx context.Context, n domain.Notification) {
	log := logger.WithContext(ctx).With("component", "ledger")
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := l.notifier.Send(sendCtx, n); err != nil {
			NotificationFailures.Inc()
			log.Warn("coin notification failed", "error", err)
		}
	}()
}

// Wait blocks until background notifications have finished.
func (l *Ledger) Wait() {
	l.wg.Wait()
}

// WaitContext is Wait bounded by ctx. Notifications still in flight when ctx
// ends are abandoned and ctx.Err() is returned.
func (l *Ledger) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type RedeemInput struct {
	Mobile       string
	Product      string
	ProductValue decimal.Decimal
	SpentCoin    int64
}

// Redeem debits coins and creates the matching redemption in one atomic write.
func (l *Ledger) Redeem(ctx context.Context, in RedeemInput) (*domain.Redemption, error) {
	if in.SpentCoin <= 0 {
		return nil, fmt.Errorf("%w: spentCoin must be positive", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Product) == "" {
		return nil, fmt.Errorf("%w: product is required", domain.ErrInvalidArgument)
	}
	if in.ProductValue.IsNegative() {
		return nil, fmt.Errorf("%w: productValue must not be negative", domain.ErrInvalidArgument)
	}

	user, err := l.store.UserByMobile(ctx, in.Mobile)
	if err != nil {
		return nil, fmt.Errorf("redeem for %s: %w", in.Mobile, err)
	}

	for attempt := 1; ; attempt++ {
		code, err := l.codes.Next()
		if err != nil {
			return nil, err
		}

		rd := &domain.Redemption{
			UserID:       user.ID,
			Mobile:       user.Mobile,
			Name:         user.Name,
			Email:        user.Email,
			Product:      in.Product,
			ProductValue: in.ProductValue,
			SpentCoin:    in.SpentCoin,
			Code:         code,
			Status:       domain.RedemptionCreated,
		}

		err = l.store.Redeem(ctx, domain.NewDebit(user, in.SpentCoin), rd)
		if err == nil {
			CoinsSpent.Add(float64(in.SpentCoin))
			RedemptionsTotal.WithLabelValues(string(domain.RedemptionCreated)).Inc()
			return rd, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt == codeAttempts {
			return nil, fmt.Errorf("redeem: %w", err)
		}
		l.log.Warn("redemption code collision, regenerating", "attempt", attempt)
	}
}

// MarkReceived moves the redemption identified by code and mobile to Received.
func (l *Ledger) MarkReceived(ctx context.Context, code, mobile string) (*domain.Redemption, error) {
	code = NormalizeCode(code)
	mobile = strings.TrimSpace(mobile)
	if code == "" {
		return nil, fmt.Errorf("%w: redemption code is required", domain.ErrInvalidArgument)
	}

	rd, err := l.store.UpdateRedemption(ctx, code, mobile, func(rd *domain.Redemption) error {
		if !rd.Status.CanTransition(domain.RedemptionReceived) {
			return fmt.Errorf("%w: redemption %s is %s", domain.ErrInvalidTransition, rd.Code, rd.Status)
		}
		received := l.now()
		rd.Status = domain.RedemptionReceived
		rd.ReceivedAt = &received
		return nil
	})
	if err != nil {
		return nil, err
	}

	RedemptionsTotal.WithLabelValues(string(domain.RedemptionReceived)).Inc()
	return rd, nil
}

// Balance is derived from the ledger on every call.
func (l *Ledger) Balance(ctx context.Context, mobile string) (domain.CoinBalance, error) {
	if _, err := l.store.UserByMobile(ctx, mobile); err != nil {
		return domain.CoinBalance{}, err
	}
	return l.store.Balance(ctx, mobile)
}
