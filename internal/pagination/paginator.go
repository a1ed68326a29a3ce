// Package pagination computes page windows for list endpoints.
package pagination

import (
	"fmt"

	"loyalty_backend/internal/domain"
)

// Links holds page numbers for navigation. Next and Prev are nil at the edges.
type Links struct {
	First int  `json:"first"`
	Last  int  `json:"last"`
	Next  *int `json:"next"`
	Prev  *int `json:"prev"`
}

// PageInfo describes one page of a listing. Item indexes are zero-based;
// LastItem is -1 when there are no items.
type PageInfo struct {
	TotalItems  int   `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	FirstItem   int   `json:"firstItem"`
	LastItem    int   `json:"lastItem"`
	Links       Links `json:"links"`
}

// Offset is the number of rows to skip to reach the current page.
func (p PageInfo) Offset() int {
	return p.FirstItem
}

// Paginate clamps requestedPage into [1, totalPages] and derives the item window.
// An empty listing still has one (empty) page.
func Paginate(totalItems, requestedPage, pageSize int) (PageInfo, error) {
	if pageSize <= 0 {
		return PageInfo{}, fmt.Errorf("%w: page size must be positive, got %d", domain.ErrInvalidArgument, pageSize)
	}
	if totalItems < 0 {
		return PageInfo{}, fmt.Errorf("%w: total items must not be negative, got %d", domain.ErrInvalidArgument, totalItems)
	}

	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	current := requestedPage
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	first := (current - 1) * pageSize
	last := min(first+pageSize-1, totalItems-1)

	links := Links{First: 1, Last: totalPages}
	if current < totalPages {
		next := current + 1
		links.Next = &next
	}
	if current > 1 {
		prev := current - 1
		links.Prev = &prev
	}

	return PageInfo{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: current,
		PageSize:    pageSize,
		FirstItem:   first,
		LastItem:    last,
		Links:       links,
	}, nil
}
