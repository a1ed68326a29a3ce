package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/listing"
	"loyalty_backend/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStore interface {
	listing.Source[domain.Order, domain.OrderFilter]
	Create(ctx context.Context, o *domain.Order) error
	SetEarnedCoin(ctx context.Context, id int64, coins int64) error
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, number, status string) (*domain.Order, error)
}

// CoinEarner is the part of the ledger orders depend on.
type CoinEarner interface {
	Earn(ctx context.Context, in EarnInput) (int64, error)
}

type OrderService struct {
	store     OrderStore
	ledger    CoinEarner
	newNumber func() string
	log       *slog.Logger
}

func NewOrderService(store OrderStore, ledger CoinEarner) *OrderService {
	return &OrderService{
		store:     store,
		ledger:    ledger,
		newNumber: newOrderNumber,
		log:       logger.With("component", "orders"),
	}
}

func newOrderNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD" + strings.ToUpper(id[:12])
}

type PlaceOrderInput struct {
	Address domain.Address  `json:"address"`
	Items   json.RawMessage `json:"items"`
	Payment json.RawMessage `json:"payment"`
	Amount  decimal.Decimal `json:"amount"`
}

// Place stores the checkout snapshot and then credits coins for it. A failed
// credit is logged and does not fail the order, which is already persisted.
func (s *OrderService) Place(ctx context.Context, buyer *domain.User, in PlaceOrderInput) (*domain.Order, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}
	if len(in.Items) > 0 && !json.Valid(in.Items) {
		return nil, fmt.Errorf("%w: items must be valid JSON", domain.ErrInvalidArgument)
	}
	if len(in.Payment) > 0 && !json.Valid(in.Payment) {
		return nil, fmt.Errorf("%w: payment must be valid JSON", domain.ErrInvalidArgument)
	}

	userID := buyer.ID
	o := &domain.Order{
		OrderNumber: s.newNumber(),
		UserID:      &userID,
		Name:        buyer.Name,
		Mobile:      buyer.Mobile,
		Email:       buyer.Email,
		Address:     in.Address,
		Items:       in.Items,
		Payment:     in.Payment,
		Amount:      in.Amount,
		Status:      domain.OrderStatusPlaced,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	log := s.log.With("order", o.OrderNumber, "mobile", o.Mobile)
	coins, err := s.ledger.Earn(ctx, EarnInput{Mobile: o.Mobile, OrderAmount: o.Amount, OrderRef: o.OrderNumber})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		log.Warn("order buyer has no ledger account, no coins credited")
	case err != nil:
		log.Error("coin credit failed", "error", err)
	case coins > 0:
		if err := s.store.SetEarnedCoin(ctx, o.ID, coins); err != nil {
			log.Error("record earned coins failed", "error", err)
		}
		o.EarnedCoin = coins
	}

	return o, nil
}

func (s *OrderService) Get(ctx context.Context, number string) (*domain.Order, error) {
	return s.store.GetByNumber(ctx, strings.TrimSpace(number))
}

func (s *OrderService) SetStatus(ctx context.Context, number, status string) (*domain.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", domain.ErrInvalidArgument)
	}
	return s.store.UpdateStatus(ctx, strings.TrimSpace(number), status)
}

func (s *OrderService) List(ctx context.Context, f domain.OrderFilter, page, pageSize int) (*listing.Result[domain.Order], error) {
	return listing.List[domain.Order, domain.OrderFilter](ctx, s.store, f, page, pageSize)
}
