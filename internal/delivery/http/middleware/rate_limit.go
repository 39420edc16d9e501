package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for one rate limited route group
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyFunc   func(*gin.Context) string
	KeyPrefix string
	// Reject instead of falling back to memory when Redis errors
	FailClosed bool
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// Atomic increment with TTL on first set.
// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns [count, ttl].
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// RateLimiter counts requests in Redis when a client is given and in process
// memory otherwise (or when Redis fails and the config allows it).
type RateLimiter struct {
	redis  *goredis.Client
	secLog *security.SecurityLogger
	store  sync.Map
	now    func() time.Time
}

// NewRateLimiter starts a sweeper for the memory store that stops with ctx.
func NewRateLimiter(ctx context.Context, client *goredis.Client, secLog *security.SecurityLogger) *RateLimiter {
	rl := &RateLimiter{redis: client, secLog: secLog, now: time.Now}
	go rl.sweep(ctx, 5*time.Minute)
	return rl
}

func (rl *RateLimiter) sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := rl.now()
			rl.store.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rl.store.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}
}

// GlobalRateLimitConfig limits every request per client IP.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// SubmitRateLimitConfig limits answer submissions per authenticated user.
// Submissions trigger scoring, so Redis errors reject instead of failing open.
func SubmitRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:submit:",
		FailClosed: true,
		KeyFunc: func(c *gin.Context) string {
			if id := c.GetString(string(domain.KeyUserID)); id != "" {
				return id
			}
			return c.ClientIP()
		},
	}
}

func (rl *RateLimiter) Limit(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)

		var count int
		var resetAt time.Time
		if rl.redis != nil {
			var err error
			count, resetAt, err = rl.checkRedis(c.Request.Context(), fullKey, config)
			if err != nil {
				if config.FailClosed {
					rl.logRedisError(c, err)
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = rl.checkInMemory(fullKey, config)
			}
		} else {
			count, resetAt = rl.checkInMemory(fullKey, config)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			if rl.secLog != nil {
				rl.secLog.LogRateLimitTriggered(
					c.Request.Context(),
					c.ClientIP(),
					c.GetHeader("User-Agent"),
					c.GetString(RequestIDKey),
					c.FullPath(),
				)
			}

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(config.Limit-count, 0)))
		c.Next()
	}
}

func (rl *RateLimiter) checkRedis(ctx context.Context, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := rl.redis.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

func (rl *RateLimiter) checkInMemory(key string, config RateLimitConfig) (int, time.Time) {
	now := rl.now()
	entryI, _ := rl.store.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(config.Window)})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

func (rl *RateLimiter) logRedisError(c *gin.Context, err error) {
	if rl.secLog == nil {
		return
	}
	rl.secLog.Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   c.GetString(RequestIDKey),
		Details: map[string]interface{}{
			"error_type": "redis_error",
			"error":      err.Error(),
		},
	})
}
