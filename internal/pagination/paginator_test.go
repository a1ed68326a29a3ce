package pagination

import (
	"errors"
	"testing"

	"loyalty_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate_Basic(t *testing.T) {
	info, err := Paginate(35, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 4, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 10, info.FirstItem)
	assert.Equal(t, 19, info.LastItem)
	assert.Equal(t, 10, info.Offset())
	assert.Equal(t, 1, info.Links.First)
	assert.Equal(t, 4, info.Links.Last)
	require.NotNil(t, info.Links.Next)
	require.NotNil(t, info.Links.Prev)
	assert.Equal(t, 3, *info.Links.Next)
	assert.Equal(t, 1, *info.Links.Prev)
}

func TestPaginate_LastPartialPage(t *testing.T) {
	info, err := Paginate(35, 4, 10)
	require.NoError(t, err)

	assert.Equal(t, 30, info.FirstItem)
	assert.Equal(t, 34, info.LastItem)
	assert.Nil(t, info.Links.Next)
	require.NotNil(t, info.Links.Prev)
	assert.Equal(t, 3, *info.Links.Prev)
}

func TestPaginate_Empty(t *testing.T) {
	info, err := Paginate(0, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, info.TotalPages)
	assert.Equal(t, 1, info.CurrentPage)
	assert.Equal(t, 0, info.FirstItem)
	assert.Equal(t, -1, info.LastItem)
	assert.Nil(t, info.Links.Next)
	assert.Nil(t, info.Links.Prev)
}

func TestPaginate_ClampsRequestedPage(t *testing.T) {
	high, err := Paginate(25, 99, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, high.CurrentPage)

	low, err := Paginate(25, -4, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, low.CurrentPage)
}

func TestPaginate_InvalidArguments(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Paginate(10, 1, size)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "size=%d", size)
	}

	_, err := Paginate(-1, 1, 10)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestPaginate_WindowProperties(t *testing.T) {
	for total := 0; total <= 60; total++ {
		for size := 1; size <= 12; size++ {
			for page := -1; page <= 15; page++ {
				info, err := Paginate(total, page, size)
				require.NoError(t, err)

				maxPage := (total + size - 1) / size
				if maxPage == 0 {
					maxPage = 1
				}
				assert.GreaterOrEqual(t, info.CurrentPage, 1)
				assert.LessOrEqual(t, info.CurrentPage, maxPage)
				assert.LessOrEqual(t, info.LastItem-info.FirstItem+1, size)
				assert.Less(t, info.LastItem, total)
				if total > 0 {
					assert.GreaterOrEqual(t, info.LastItem, info.FirstItem)
				}
			}
		}
	}
}
