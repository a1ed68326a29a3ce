package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type CatalogStatus string

const (
	CatalogActive   CatalogStatus = "Active"
	CatalogInactive CatalogStatus = "Inactive"
)

func (s CatalogStatus) Valid() bool {
	return s == CatalogActive || s == CatalogInactive
}

// CatalogKind separates the reward catalog (products) from the shop catalog (items).
// Both share one shape and one write path.
type CatalogKind string

const (
	KindProduct CatalogKind = "product"
	KindItem    CatalogKind = "item"
)

type CatalogEntry struct {
	ID          int64           `db:"id" json:"id"`
	Kind        CatalogKind     `db:"-" json:"kind"`
	Name        string          `db:"name" json:"name"`
	Slug        string          `db:"slug" json:"slug"`
	Description string          `db:"description" json:"description"`
	Category    string          `db:"category" json:"category"`
	Price       decimal.Decimal `db:"price" json:"price"`
	SalePrice   decimal.Decimal `db:"sale_price" json:"salePrice"`
	Discount    int64           `db:"discount" json:"discount"`
	Stock       int             `db:"stock" json:"stock"`
	Status      CatalogStatus   `db:"status" json:"status"`
	ImageURL    string          `db:"image_url" json:"image"`
	Gallery     []string        `db:"gallery" json:"gallery"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// Discount returns round((price - salePrice) / price * 100). A zero price has no discount.
func Discount(price, salePrice decimal.Decimal) int64 {
	if !price.IsPositive() {
		return 0
	}
	return price.Sub(salePrice).Div(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ApplyPricing validates prices and recomputes the derived discount.
// A zero sale price is a real price (a giveaway, 100% off); callers fill in
// the full price when no sale price was given.
func (e *CatalogEntry) ApplyPricing() error {
	if e.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidArgument)
	}
	if e.SalePrice.IsNegative() || e.SalePrice.GreaterThan(e.Price) {
		return fmt.Errorf("%w: salePrice must be between 0 and price", ErrInvalidArgument)
	}
	if e.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidArgument)
	}
	e.Discount = Discount(e.Price, e.SalePrice)
	return nil
}

type CatalogFilter struct {
	Category string
	Status   CatalogStatus
}
