package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPlaced = "Placed"

type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Order is an immutable checkout snapshot; only Status changes after creation.
type Order struct {
	ID          int64           `db:"id" json:"id"`
	OrderNumber string          `db:"order_number" json:"orderNumber"`
	UserID      *int64          `db:"user_id" json:"userId,omitempty"`
	Name        string          `db:"name" json:"name"`
	Mobile      string          `db:"mobile" json:"mobile"`
	Email       string          `db:"email" json:"email"`
	Address     Address         `db:"address" json:"address"`
	Items       json.RawMessage `db:"items" json:"items"`
	Payment     json.RawMessage `db:"payment" json:"payment"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	EarnedCoin  int64           `db:"earned_coin" json:"earnedCoin"`
	Status      string          `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

type OrderFilter struct {
	Mobile string
	Status string
}
