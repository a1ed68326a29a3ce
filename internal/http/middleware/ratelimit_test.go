package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMemoryCounter_WindowResets(t *testing.T) {
	now := time.Unix(1700000000, 0)
	m := NewMemoryCounter()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := m.Incr(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	now = now.Add(time.Minute)
	got, _ := m.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), got)

	other, _ := m.Incr(ctx, "other", time.Minute)
	assert.Equal(t, int64(1), other)
}

func TestMemoryCounter_EvictsExpiredWindows(t *testing.T) {
	now := time.Unix(1700000000, 0)
	m := NewMemoryCounter()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_, err := m.Incr(ctx, "ip-"+strconv.Itoa(i), time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, 1000, m.Len())

	// still inside the window: nothing is dropped
	now = now.Add(30 * time.Second)
	_, _ = m.Incr(ctx, "ip-0", time.Minute)
	assert.Equal(t, 1000, m.Len())

	now = now.Add(time.Minute)
	got, err := m.Incr(ctx, "fresh", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
	assert.Equal(t, 1, m.Len())
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	r := gin.New()
	r.GET("/ping", RateLimit(NewMemoryCounter(), "api", 2, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

type brokenCounter struct{}

func (brokenCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := gin.New()
	r.GET("/ping", RateLimit(brokenCounter{}, "api", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "counter-error", w.Header().Get("X-RateLimit-Error"))
	}
}

func TestUserRateLimit_IsPerUser(t *testing.T) {
	counter := NewMemoryCounter()
	r := gin.New()
	r.POST("/redeem", func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(ctxUserID, map[string]int64{"a": 1, "b": 2}[uid])
		}
		c.Next()
	}, UserRateLimit(counter, "coin", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := func(user string) int {
		rq := httptest.NewRequest(http.MethodPost, "/redeem", nil)
		if user != "" {
			rq.Header.Set("X-Test-User", user)
		}
		return serve(r, rq).Code
	}

	assert.Equal(t, http.StatusOK, req("a"))
	assert.Equal(t, http.StatusTooManyRequests, req("a"))
	assert.Equal(t, http.StatusOK, req("b"))
	assert.Equal(t, http.StatusUnauthorized, req(""))
}
