package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"loyalty_backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLedger is an in-memory LedgerStore with the same atomicity guarantees as the pgx one
type memLedger struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	txs         []domain.CoinTransaction
	earned      map[string]int64
	spent       map[string]int64
	redemptions map[string]*domain.Redemption
	nextID      int64
	appendErr   error
}

func newMemLedger(users ...*domain.User) *memLedger {
	m := &memLedger{
		users:       map[string]*domain.User{},
		earned:      map[string]int64{},
		spent:       map[string]int64{},
		redemptions: map[string]*domain.Redemption{},
	}
	for _, u := range users {
		m.users[u.Mobile] = u
	}
	return m
}

func (m *memLedger) UserByMobile(_ context.Context, mobile string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[mobile]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memLedger) AppendTransaction(_ context.Context, tx *domain.CoinTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appendLocked(tx)
	return nil
}

func (m *memLedger) appendLocked(tx *domain.CoinTransaction) {
	m.nextID++
	tx.ID = m.nextID
	tx.CreatedAt = time.Now()
	m.txs = append(m.txs, *tx)
	m.earned[tx.Mobile] += tx.EarnedCoin
	m.spent[tx.Mobile] += tx.SpentCoin
}

func (m *memLedger) Redeem(_ context.Context, debit *domain.CoinTransaction, rd *domain.Redemption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.earned[debit.Mobile]-m.spent[debit.Mobile] < debit.SpentCoin {
		return domain.ErrInsufficientCoins
	}
	if _, dup := m.redemptions[rd.Code]; dup {
		return domain.ErrConflict
	}
	m.appendLocked(debit)
	rd.ID = m.nextID
	rd.CreatedAt = time.Now()
	cp := *rd
	m.redemptions[rd.Code] = &cp
	return nil
}

func (m *memLedger) UpdateRedemption(_ context.Context, code, mobile string, mutate func(*domain.Redemption) error) (*domain.Redemption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.redemptions[code]
	if !ok || stored.Mobile != mobile {
		return nil, domain.ErrNotFound
	}
	work := *stored
	if err := mutate(&work); err != nil {
		return nil, err
	}
	*stored = work
	return &work, nil
}

func (m *memLedger) Balance(_ context.Context, mobile string) (domain.CoinBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.NewCoinBalance(mobile, m.earned[mobile], m.spent[mobile]), nil
}

func (m *memLedger) txCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func customer() *domain.User {
	return &domain.User{ID: 1, Mobile: "9990001111", Name: "Asha", Email: "asha@example.com",
		DeviceToken: "device-1", Role: domain.RoleCustomer, Status: domain.AccountActive}
}

func TestLedger_EarnCapsAt100(t *testing.T) {
	store := newMemLedger(customer())
	notifier := &recordingNotifier{}
	ledger := NewLedger(store, notifier)
	ctx := context.Background()

	coins, err := ledger.Earn(ctx, EarnInput{Mobile: "9990001111", OrderAmount: decimal.NewFromInt(5000), OrderRef: "ORD-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), coins)

	coins, err = ledger.Earn(ctx, EarnInput{Mobile: "9990001111", OrderAmount: decimal.NewFromInt(6000)})
	require.NoError(t, err)
	assert.Equal(t, int64(100), coins)

	ledger.Wait()
	require.Len(t, store.txs, 2)
	assert.Equal(t, int64(100), store.txs[0].EarnedCoin)
	assert.Zero(t, store.txs[0].SpentCoin)
	require.NotNil(t, store.txs[0].OrderRef)
	assert.Equal(t, "ORD-1", *store.txs[0].OrderRef)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "device-1", notifier.sent[0].Target)
	assert.Equal(t, domain.TargetToken, notifier.sent[0].Type)
}

func TestLedger_EarnUnknownUser(t *testing.T) {
	store := newMemLedger()
	ledger := NewLedger(store, &recordingNotifier{})

	_, err := ledger.Earn(context.Background(), EarnInput{Mobile: "0000000000", OrderAmount: decimal.NewFromInt(500)})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Zero(t, store.txCount())
}

func TestLedger_EarnRejectsNonPositiveAmount(t *testing.T) {
	ledger := NewLedger(newMemLedger(customer()), nil)

	_, err := ledger.Earn(context.Background(), EarnInput{Mobile: "9990001111", OrderAmount: decimal.Zero})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestLedger_EarnZeroCoinsWritesNothing(t *testing.T) {
	store := newMemLedger(customer())
	notifier := &recordingNotifier{}
	ledger := NewLedger(store, notifier)

	coins, err := ledger.Earn(context.Background(), EarnInput{Mobile: "9990001111", OrderAmount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Zero(t, coins)
	ledger.Wait()
	assert.Zero(t, store.txCount())
	assert.Empty(t, notifier.sent)
}

func TestLedger_EarnNotificationFailureKeepsCredit(t *testing.T) {
	store := newMemLedger(customer())
	ledger := NewLedger(store, &recordingNotifier{err: errors.New("push down")})

	coins, err := ledger.Earn(context.Background(), EarnInput{Mobile: "9990001111", OrderAmount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, int64(20), coins)

	ledger.Wait()
	assert.Equal(t, 1, store.txCount())
}

func TestLedger_EarnStoreFailure(t *testing.T) {
	store := newMemLedger(customer())
	store.appendErr = domain.ErrStorageUnavailable
	notifier := &recordingNotifier{}
	ledger := NewLedger(store, notifier)

	_, err := ledger.Earn(context.Background(), EarnInput{Mobile: "9990001111", OrderAmount: decimal.NewFromInt(1000)})
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
	ledger.Wait()
	assert.Empty(t, notifier.sent)
}

func seedCoins(t *testing.T, store *memLedger, mobile string, coins int64) {
	t.Helper()
	u, err := store.UserByMobile(context.Background(), mobile)
	require.NoError(t, err)
	require.NoError(t, store.AppendTransaction(context.Background(), domain.NewCredit(u, coins, "")))
}

func TestLedger_Redeem(t *testing.T) {
	store := newMemLedger(customer())
	seedCoins(t, store, "9990001111", 150)
	ledger := NewLedger(store, nil)
	ctx := context.Background()

	rd, err := ledger.Redeem(ctx, RedeemInput{
		Mobile:       "9990001111",
		Product:      "Coffee voucher",
		ProductValue: decimal.NewFromInt(250),
		SpentCoin:    120,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionCreated, rd.Status)
	assert.Equal(t, NormalizeCode(rd.Code), rd.Code)
	assert.Equal(t, "Asha", rd.Name)

	bal, err := ledger.Balance(ctx, "9990001111")
	require.NoError(t, err)
	assert.Equal(t, int64(150), bal.Earned)
	assert.Equal(t, int64(120), bal.Spent)
	assert.Equal(t, int64(30), bal.Balance)
}

func TestLedger_RedeemInsufficientWritesNothing(t *testing.T) {
	store := newMemLedger(customer())
	seedCoins(t, store, "9990001111", 50)
	ledger := NewLedger(store, nil)

	_, err := ledger.Redeem(context.Background(), RedeemInput{Mobile: "9990001111", Product: "Mug", SpentCoin: 80})
	assert.True(t, errors.Is(err, domain.ErrInsufficientCoins))
	assert.Equal(t, 1, store.txCount())
	assert.Empty(t, store.redemptions)
}

func TestLedger_RedeemValidation(t *testing.T) {
	ledger := NewLedger(newMemLedger(customer()), nil)
	ctx := context.Background()

	_, err := ledger.Redeem(ctx, RedeemInput{Mobile: "9990001111", Product: "Mug", SpentCoin: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = ledger.Redeem(ctx, RedeemInput{Mobile: "9990001111", Product: " ", SpentCoin: 5})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = ledger.Redeem(ctx, RedeemInput{Mobile: "1112223333", Product: "Mug", SpentCoin: 5})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLedger_RedeemCodesAreUnique(t *testing.T) {
	store := newMemLedger(customer())
	seedCoins(t, store, "9990001111", 10000)
	ledger := NewLedger(store, nil)
	ctx := context.Background()

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		rd, err := ledger.Redeem(ctx, RedeemInput{Mobile: "9990001111", Product: "Sticker", SpentCoin: 1})
		require.NoError(t, err)
		_, dup := seen[rd.Code]
		require.False(t, dup, "duplicate redemption code %s", rd.Code)
		seen[rd.Code] = struct{}{}
	}
	assert.Len(t, store.redemptions, 10000)
}

func TestLedger_RedeemRegeneratesCodeOnCollision(t *testing.T) {
	store := newMemLedger(customer())
	seedCoins(t, store, "9990001111", 100)
	ledger := NewLedger(store, nil)

	fixed := time.UnixMilli(1700000000000)
	first := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	second := []byte{1, 1, 1, 1, 1, 1, 1, 1}
	ledger.codes = &CodeGenerator{
		now:  func() time.Time { return fixed },
		rand: bytes.NewReader(append(append([]byte{}, first...), second...)),
	}
	store.redemptions["LOYW3V28AAAAAAAA"] = &domain.Redemption{Code: "LOYW3V28AAAAAAAA", Mobile: "someone-else"}

	rd, err := ledger.Redeem(context.Background(), RedeemInput{Mobile: "9990001111", Product: "Mug", SpentCoin: 10})
	require.NoError(t, err)
	assert.Equal(t, "LOYW3V28BBBBBBBB", rd.Code)
}

func TestLedger_RedeemGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newMemLedger(customer())
	seedCoins(t, store, "9990001111", 100)
	ledger := NewLedger(store, nil)

	fixed := time.UnixMilli(1700000000000)
	ledger.codes = &CodeGenerator{
		now:  func() time.Time { return fixed },
		rand: bytes.NewReader(make([]byte, 8*codeAttempts)),
	}
	store.redemptions["LOYW3V28AAAAAAAA"] = &domain.Redemption{Code: "LOYW3V28AAAAAAAA"}

	_, err := ledger.Redeem(context.Background(), RedeemInput{Mobile: "9990001111", Product: "Mug", SpentCoin: 10})
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, 1, store.txCount())
}

func TestLedger_MarkReceived(t *testing.T) {
	store := newMemLedger(customer())
	seedCoins(t, store, "9990001111", 100)
	ledger := NewLedger(store, nil)
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return stamp }
	ctx := context.Background()

	rd, err := ledger.Redeem(ctx, RedeemInput{Mobile: "9990001111", Product: "Mug", SpentCoin: 10})
	require.NoError(t, err)

	received, err := ledger.MarkReceived(ctx, " "+rd.Code+" ", "9990001111")
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)
	assert.True(t, received.ReceivedAt.Equal(stamp))

	ledger.now = func() time.Time { return stamp.Add(time.Hour) }
	_, err = ledger.MarkReceived(ctx, rd.Code, "9990001111")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.True(t, store.redemptions[rd.Code].ReceivedAt.Equal(stamp))
}

func TestLedger_MarkReceivedNotFound(t *testing.T) {
	store := newMemLedger(customer())
	seedCoins(t, store, "9990001111", 100)
	ledger := NewLedger(store, nil)
	ctx := context.Background()

	rd, err := ledger.Redeem(ctx, RedeemInput{Mobile: "9990001111", Product: "Mug", SpentCoin: 10})
	require.NoError(t, err)

	_, err = ledger.MarkReceived(ctx, rd.Code, "1234567890")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = ledger.MarkReceived(ctx, "NOPE", "9990001111")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = ledger.MarkReceived(ctx, "  ", "9990001111")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestLedger_MarkReceivedTrimsMobile(t *testing.T) {
	store := newMemLedger(customer())
	seedCoins(t, store, "9990001111", 100)
	ledger := NewLedger(store, nil)
	ctx := context.Background()

	rd, err := ledger.Redeem(ctx, RedeemInput{Mobile: "9990001111", Product: "Mug", SpentCoin: 10})
	require.NoError(t, err)

	received, err := ledger.MarkReceived(ctx, rd.Code, " 9990001111\n")
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionReceived, received.Status)
}

// blockingNotifier holds every send until release is closed.
type blockingNotifier struct {
	release chan struct{}
}

func (n *blockingNotifier) Send(ctx context.Context, _ domain.Notification) error {
	select {
	case <-n.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestLedger_WaitContextIsBounded(t *testing.T) {
	store := newMemLedger(customer())
	notifier := &blockingNotifier{release: make(chan struct{})}
	ledger := NewLedger(store, notifier)

	_, err := ledger.Earn(context.Background(), EarnInput{Mobile: "9990001111", OrderAmount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = ledger.WaitContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	close(notifier.release)
	require.NoError(t, ledger.WaitContext(context.Background()))
}
