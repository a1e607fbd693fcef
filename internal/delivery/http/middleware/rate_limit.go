package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/security"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Counter namespace, one per limited endpoint
	KeyPrefix string
	// Reject instead of falling back to memory when Redis errors
	FailClosed bool
}

// DefaultRateLimitConfig returns the global per-IP limit applied to every route
func DefaultRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return EndpointRateLimitConfig("rl:ip:", limit, window, false)
}

// EndpointRateLimitConfig limits one endpoint per client IP. Each endpoint
// gets its own prefix so contact, booking and newsletter count independently.
func EndpointRateLimitConfig(prefix string, limit int, window time.Duration, failClosed bool) RateLimitConfig {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  prefix,
		FailClosed: failClosed,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// RateLimiter counts requests in fixed windows, in Redis when a client is
// given and in process memory otherwise (or as the fail-open fallback).
type RateLimiter struct {
	client *goredis.Client
	logger *security.SecurityLogger
	now    func() time.Time

	entries sync.Map // key -> *rateLimitEntry
	sweepMu sync.Mutex
	sweepAt time.Time
}

func NewRateLimiter(client *goredis.Client, logger *security.SecurityLogger) *RateLimiter {
	return &RateLimiter{client: client, logger: logger, now: time.Now}
}

// SetClock replaces the time source of the in-memory counters
func (rl *RateLimiter) SetClock(now func() time.Time) { rl.now = now }

// Middleware enforces config on the routes it is attached to
func (rl *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)

		var (
			count   int
			resetAt time.Time
			err     error
		)
		if rl.client != nil {
			count, resetAt, err = rl.countRedis(c.Request.Context(), key, config.Window)
			if err != nil {
				rl.logRedisError(c, err)
				if config.FailClosed {
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = rl.countMemory(key, config.Window)
			}
		} else {
			count, resetAt = rl.countMemory(key, config.Window)
		}

		remaining := max(config.Limit-count, 0)
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := max(int(resetAt.Sub(rl.now()).Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			rl.logger.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), GetRequestID(c), c.FullPath())

			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) countRedis(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	result, err := rl.client.Eval(ctx, rateLimitLuaScript, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]any)
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

func (rl *RateLimiter) countMemory(key string, window time.Duration) (int, time.Time) {
	now := rl.now()
	rl.sweep(now)

	v, _ := rl.entries.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
	entry := v.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !now.Before(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++
	return entry.count, entry.resetAt
}

// sweep drops expired windows at most once a minute, inline with requests
func (rl *RateLimiter) sweep(now time.Time) {
	rl.sweepMu.Lock()
	if now.Before(rl.sweepAt) {
		rl.sweepMu.Unlock()
		return
	}
	rl.sweepAt = now.Add(time.Minute)
	rl.sweepMu.Unlock()

	rl.entries.Range(func(key, value any) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			rl.entries.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}

func (rl *RateLimiter) logRedisError(c *gin.Context, err error) {
	rl.logger.Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   GetRequestID(c),
		Details: map[string]any{
			"error_type": "redis_error",
			"error":      err.Error(),
		},
	})
}
