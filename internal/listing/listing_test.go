package listing

import (
	"context"
	"errors"
	"testing"

	"loyalty_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	rows       []int
	countErr   error
	findErr    error
	lastOffset int
	lastLimit  int
	findCalls  int
}

func (s *sliceSource) Count(_ context.Context, minValue int) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.filtered(minValue)), nil
}

func (s *sliceSource) Find(_ context.Context, minValue int, offset, limit int) ([]int, error) {
	s.findCalls++
	s.lastOffset, s.lastLimit = offset, limit
	if s.findErr != nil {
		return nil, s.findErr
	}
	rows := s.filtered(minValue)
	if offset >= len(rows) {
		return nil, nil
	}
	end := min(offset+limit, len(rows))
	return rows[offset:end], nil
}

func (s *sliceSource) filtered(minValue int) []int {
	var out []int
	for _, r := range s.rows {
		if r >= minValue {
			out = append(out, r)
		}
	}
	return out
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestList_ReturnsPageAndInfo(t *testing.T) {
	src := &sliceSource{rows: seq(23)}

	res, err := List[int, int](context.Background(), src, 0, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, res.Items)
	assert.Equal(t, 23, res.PageInfo.TotalItems)
	assert.Equal(t, 3, res.PageInfo.TotalPages)
	assert.Equal(t, 10, src.lastOffset)
	assert.Equal(t, 10, src.lastLimit)
}

func TestList_AppliesFilter(t *testing.T) {
	src := &sliceSource{rows: seq(23)}

	res, err := List[int, int](context.Background(), src, 21, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{21, 22, 23}, res.Items)
	assert.Equal(t, 1, res.PageInfo.TotalPages)
}

func TestList_OutOfRangePageServesLastPage(t *testing.T) {
	src := &sliceSource{rows: seq(23)}

	res, err := List[int, int](context.Background(), src, 0, 9, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, res.PageInfo.CurrentPage)
	assert.Equal(t, []int{21, 22, 23}, res.Items)
}

func TestList_EmptySkipsFind(t *testing.T) {
	src := &sliceSource{}

	res, err := List[int, int](context.Background(), src, 0, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, src.findCalls)
}

func TestList_StorageErrors(t *testing.T) {
	boom := errors.New("connection refused")

	_, err := List[int, int](context.Background(), &sliceSource{countErr: boom}, 0, 1, 10)
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))

	_, err = List[int, int](context.Background(), &sliceSource{rows: seq(3), findErr: boom}, 0, 1, 10)
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
}

func TestList_InvalidPageSize(t *testing.T) {
	_, err := List[int, int](context.Background(), &sliceSource{rows: seq(3)}, 0, 1, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizePageSize(0))
	assert.Equal(t, DefaultPageSize, NormalizePageSize(-3))
	assert.Equal(t, 25, NormalizePageSize(25))
	assert.Equal(t, MaxPageSize, NormalizePageSize(1000))
}
