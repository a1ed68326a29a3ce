package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// Counter counts hits per key in fixed windows.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// ConnectRedis returns a pinged client, or an error when Redis is unreachable.
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisCounter implements a fixed window with INCR/EXPIRE, shared by all replicas.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first hit opens the window
		r.client.Expire(ctx, key, window)
	}
	return val, nil
}

type windowInfo struct {
	start  time.Time
	length time.Duration
	count  int64
}

func (w *windowInfo) expired(now time.Time) bool {
	return now.Sub(w.start) >= w.length
}

// MemoryCounter is the single-process fallback when Redis is not configured.
// Expired windows are swept at most once per window length so the map only
// holds keys seen recently.
type MemoryCounter struct {
	mu        sync.Mutex
	windows   map[string]*windowInfo
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: make(map[string]*windowInfo), now: time.Now}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= window {
		m.sweep(now)
	}

	w, ok := m.windows[key]
	if !ok || w.expired(now) {
		w = &windowInfo{start: now, length: window}
		m.windows[key] = w
	}
	w.count++
	return w.count, nil
}

func (m *MemoryCounter) sweep(now time.Time) {
	for key, w := range m.windows {
		if w.expired(now) {
			delete(m.windows, key)
		}
	}
	m.lastSweep = now
}

// Len reports how many windows are currently tracked.
func (m *MemoryCounter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// keyFunc identifies the caller being limited; false rejects the request as unauthenticated.
type keyFunc func(c *gin.Context) (string, bool)

func byIP(c *gin.Context) (string, bool) {
	return c.ClientIP(), true
}

func byUser(c *gin.Context) (string, bool) {
	uid, ok := UserID(c)
	if !ok {
		return "", false
	}
	return "u" + strconv.FormatInt(uid, 10), true
}

// RateLimit limits requests per client IP.
func RateLimit(counter Counter, scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return limit(counter, scope, maxRequests, window, byIP)
}

// UserRateLimit limits requests per authenticated user. JWT must run first.
func UserRateLimit(counter Counter, scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return limit(counter, scope, maxRequests, window, byUser)
}

func limit(counter Counter, scope string, maxRequests int, window time.Duration, ident keyFunc) gin.HandlerFunc {
	windowSecs := strconv.FormatInt(int64(window.Seconds()), 10)
	return func(c *gin.Context) {
		if counter == nil {
			c.Next()
			return
		}

		id, ok := ident(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "rl:" + scope + ":" + windowSecs + ":" + id
		val, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			// fail open
			c.Header("X-RateLimit-Error", "counter-error")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		endpoint := scope + ":" + c.FullPath()
		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(endpoint).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(endpoint).Inc()
		c.Next()
	}
}
