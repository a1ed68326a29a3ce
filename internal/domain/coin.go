package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxEarnPerOrder caps the coins credited for a single purchase.
const MaxEarnPerOrder = 100

// earnRate is the percentage of the order amount credited as coins.
var earnRate = decimal.NewFromInt(2)

// EarnedCoins converts an order amount into coins: round(amount*2/100), capped at MaxEarnPerOrder.
func EarnedCoins(orderAmount decimal.Decimal) int64 {
	if !orderAmount.IsPositive() {
		return 0
	}
	coins := orderAmount.Mul(earnRate).Div(decimal.NewFromInt(100)).Round(0).IntPart()
	if coins > MaxEarnPerOrder {
		return MaxEarnPerOrder
	}
	return coins
}

// CoinTransaction is one append-only ledger row. Exactly one of EarnedCoin / SpentCoin is set.
type CoinTransaction struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"userId"`
	Mobile     string    `db:"mobile" json:"mobile"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	EarnedCoin int64     `db:"earned_coin" json:"earnedCoin"`
	SpentCoin  int64     `db:"spent_coin" json:"spentCoin"`
	OrderRef   *string   `db:"order_ref" json:"orderRef,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// NewCredit builds a credit row with the owner's identity snapshotted.
func NewCredit(u *User, coins int64, orderRef string) *CoinTransaction {
	tx := &CoinTransaction{UserID: u.ID, Mobile: u.Mobile, Name: u.Name, Email: u.Email, EarnedCoin: coins}
	if orderRef != "" {
		tx.OrderRef = &orderRef
	}
	return tx
}

// NewDebit builds a debit row with the owner's identity snapshotted.
func NewDebit(u *User, coins int64) *CoinTransaction {
	return &CoinTransaction{UserID: u.ID, Mobile: u.Mobile, Name: u.Name, Email: u.Email, SpentCoin: coins}
}

// CoinBalance is derived from the ledger on read, never stored.
type CoinBalance struct {
	Mobile  string `json:"mobile"`
	Earned  int64  `json:"earnedCoin"`
	Spent   int64  `json:"spentCoin"`
	Balance int64  `json:"balance"`
}

func NewCoinBalance(mobile string, earned, spent int64) CoinBalance {
	return CoinBalance{Mobile: mobile, Earned: earned, Spent: spent, Balance: earned - spent}
}

type CoinTransactionFilter struct {
	Mobile string
}

type RedemptionStatus string

const (
	RedemptionCreated  RedemptionStatus = "Created"
	RedemptionReceived RedemptionStatus = "Received"
)

// CanTransition reports whether a redemption may move from s to next.
// Created -> Received is the only edge; Received is terminal.
func (s RedemptionStatus) CanTransition(next RedemptionStatus) bool {
	return s == RedemptionCreated && next == RedemptionReceived
}

type Redemption struct {
	ID           int64            `db:"id" json:"id"`
	UserID       int64            `db:"user_id" json:"userId"`
	Mobile       string           `db:"mobile" json:"mobile"`
	Name         string           `db:"name" json:"name"`
	Email        string           `db:"email" json:"email"`
	Product      string           `db:"product" json:"product"`
	ProductValue decimal.Decimal  `db:"product_value" json:"productValue"`
	SpentCoin    int64            `db:"spent_coin" json:"spentCoin"`
	Code         string           `db:"code" json:"redemptionCode"`
	Status       RedemptionStatus `db:"status" json:"status"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
	ReceivedAt   *time.Time       `db:"received_at" json:"receivedAt,omitempty"`
}

type RedemptionFilter struct {
	Mobile string
	Status RedemptionStatus
}
