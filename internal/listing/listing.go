// Package listing serves paginated list endpoints over any count+find source.
package listing

import (
	"context"
	"errors"
	"fmt"

	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/pagination"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Source is the data-store side of a listing. Find owns the ordering of its rows.
type Source[T any, F any] interface {
	Count(ctx context.Context, filter F) (int, error)
	Find(ctx context.Context, filter F, offset, limit int) ([]T, error)
}

// Result is one page of records plus its pagination metadata.
type Result[T any] struct {
	Items    []T                 `json:"items"`
	PageInfo pagination.PageInfo `json:"pageInfo"`
}

// List counts matching records, computes the page window and fetches that window.
// The fetch uses the clamped page, so an out-of-range request returns the last page.
// Store failures surface as domain.ErrStorageUnavailable and are not retried.
func List[T any, F any](ctx context.Context, src Source[T, F], filter F, page, pageSize int) (*Result[T], error) {
	total, err := src.Count(ctx, filter)
	if err != nil {
		return nil, storageErr("count", err)
	}

	info, err := pagination.Paginate(total, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := []T{}
	if total > 0 {
		found, err := src.Find(ctx, filter, info.Offset(), info.PageSize)
		if err != nil {
			return nil, storageErr("find", err)
		}
		if found != nil {
			items = found
		}
	}

	return &Result[T]{Items: items, PageInfo: info}, nil
}

// NormalizePageSize applies the default and upper bound to a client-supplied limit.
func NormalizePageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func storageErr(op string, err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return fmt.Errorf("listing %s: %w", op, err)
	}
	return fmt.Errorf("%w: listing %s: %v", domain.ErrStorageUnavailable, op, err)
}
