package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscount(t *testing.T) {
	cases := []struct {
		price, sale string
		want        int64
	}{
		{"100", "75", 25},
		{"100", "100", 0},
		{"0", "0", 0},
		{"999", "666", 33},
		{"3", "2", 33},
		{"8", "7", 13}, // 12.5 rounds up
	}

	for _, tc := range cases {
		got := Discount(decimal.RequireFromString(tc.price), decimal.RequireFromString(tc.sale))
		assert.Equal(t, tc.want, got, "price=%s sale=%s", tc.price, tc.sale)
	}
}

func TestApplyPricing(t *testing.T) {
	e := &CatalogEntry{Price: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(75)}
	require.NoError(t, e.ApplyPricing())
	assert.Equal(t, int64(25), e.Discount)

	full := &CatalogEntry{Price: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(100)}
	require.NoError(t, full.ApplyPricing())
	assert.Equal(t, int64(0), full.Discount)

	free := &CatalogEntry{Price: decimal.NewFromInt(100)}
	require.NoError(t, free.ApplyPricing())
	assert.True(t, free.SalePrice.IsZero())
	assert.Equal(t, int64(100), free.Discount)
}

func TestApplyPricing_Invalid(t *testing.T) {
	cases := []*CatalogEntry{
		{Price: decimal.NewFromInt(-1)},
		{Price: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(120)},
		{Price: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(-5)},
		{Price: decimal.NewFromInt(100), Stock: -1},
	}
	for _, e := range cases {
		err := e.ApplyPricing()
		assert.True(t, errors.Is(err, ErrInvalidArgument), "entry %+v", e)
	}
}
