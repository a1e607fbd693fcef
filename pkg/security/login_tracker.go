package security

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failures before a block (default: 5)
	AttemptWindow time.Duration // failures older than this are forgotten (default: 15min)
	BlockDuration time.Duration // how long a block lasts (default: 15min)
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed logins per client and blocks clients that
// reach MaxAttempts. Counters live in Redis when a client is given,
// otherwise in process memory.
type LoginTracker struct {
	config LoginTrackerConfig
	client *goredis.Client
	logger *SecurityLogger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*loginEntry
}

type loginEntry struct {
	failures     int
	firstFailure time.Time
	blockedUntil time.Time
}

func NewLoginTracker(config LoginTrackerConfig, client *goredis.Client, logger *SecurityLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultLoginTrackerConfig().MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = DefaultLoginTrackerConfig().AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = DefaultLoginTrackerConfig().BlockDuration
	}
	return &LoginTracker{
		config:  config,
		client:  client,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*loginEntry),
	}
}

// SetClock replaces the time source of the in-memory counters
func (lt *LoginTracker) SetClock(now func() time.Time) {
	lt.mu.Lock()
	lt.now = now
	lt.mu.Unlock()
}

// Redis key patterns
const (
	failLoginPrefix    = "fail:login:client:"
	blockedLoginPrefix = "blocked:login:client:"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count after increment
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked reports whether client is locked out and for how much longer
func (lt *LoginTracker) IsBlocked(ctx context.Context, client string) (bool, time.Duration, error) {
	if lt.client != nil {
		ttl, err := lt.client.TTL(ctx, blockedLoginPrefix+client).Result()
		if err != nil {
			return false, 0, fmt.Errorf("failed to check block: %w", err)
		}
		// -2: no key, -1: key without expiry (never written by us)
		if ttl < 0 {
			return false, 0, nil
		}
		return true, ttl, nil
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	e, ok := lt.entries[client]
	if !ok {
		return false, 0, nil
	}
	if remaining := e.blockedUntil.Sub(lt.now()); remaining > 0 {
		return true, remaining, nil
	}
	return false, 0, nil
}

// RecordFailedAttempt counts one failure and reports whether the client is now blocked
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, client, email, userAgent, requestID string) (bool, int, error) {
	lt.logger.LogLoginFailed(ctx, email, client, userAgent, requestID, "invalid_credentials")

	if lt.client == nil {
		count, blocked := lt.recordMemory(client)
		if blocked {
			lt.logger.LogBlockCreated(ctx, "ip", client, client, requestID, int(lt.config.BlockDuration.Minutes()))
		}
		return blocked, count, nil
	}

	count, err := lt.incrementRedis(ctx, client)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	if count < lt.config.MaxAttempts {
		return false, count, nil
	}
	if err := lt.createBlock(ctx, client); err != nil {
		return true, count, fmt.Errorf("failed to create block: %w", err)
	}
	lt.logger.LogBlockCreated(ctx, "ip", client, client, requestID, int(lt.config.BlockDuration.Minutes()))
	return true, count, nil
}

func (lt *LoginTracker) incrementRedis(ctx context.Context, client string) (int, error) {
	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{failLoginPrefix + client}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

// recordMemory counts a failure and creates the block in one critical section,
// so a concurrent ClearAttempts cannot remove the entry in between.
func (lt *LoginTracker) recordMemory(client string) (int, bool) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := lt.now()
	lt.pruneLocked(now)

	e, ok := lt.entries[client]
	if !ok {
		e = &loginEntry{}
		lt.entries[client] = e
	}
	if e.failures == 0 || now.Sub(e.firstFailure) > lt.config.AttemptWindow {
		e.failures = 0
		e.firstFailure = now
	}
	e.failures++
	count := e.failures
	if count < lt.config.MaxAttempts {
		return count, false
	}
	e.blockedUntil = now.Add(lt.config.BlockDuration)
	e.failures = 0
	return count, true
}

// pruneLocked drops entries with no live window or block
func (lt *LoginTracker) pruneLocked(now time.Time) {
	for k, e := range lt.entries {
		if now.After(e.blockedUntil) && now.Sub(e.firstFailure) > lt.config.AttemptWindow {
			delete(lt.entries, k)
		}
	}
}

// createBlock is the Redis path; the memory path blocks inside recordMemory
func (lt *LoginTracker) createBlock(ctx context.Context, client string) error {
	pipe := lt.client.TxPipeline()
	pipe.Set(ctx, blockedLoginPrefix+client, "1", lt.config.BlockDuration)
	pipe.Del(ctx, failLoginPrefix+client)
	_, err := pipe.Exec(ctx)
	return err
}

// ClearAttempts resets the failure counter after a successful login
func (lt *LoginTracker) ClearAttempts(ctx context.Context, client string) error {
	if lt.client != nil {
		if err := lt.client.Del(ctx, failLoginPrefix+client).Err(); err != nil {
			return fmt.Errorf("failed to clear attempts: %w", err)
		}
		return nil
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	delete(lt.entries, client)
	return nil
}

// RemainingAttempts returns how many failures are left before a block
func (lt *LoginTracker) RemainingAttempts(ctx context.Context, client string) (int, error) {
	var count int
	if lt.client != nil {
		n, err := lt.client.Get(ctx, failLoginPrefix+client).Int()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return 0, fmt.Errorf("failed to get attempt count: %w", err)
		}
		count = n
	} else {
		lt.mu.Lock()
		if e, ok := lt.entries[client]; ok && lt.now().Sub(e.firstFailure) <= lt.config.AttemptWindow {
			count = e.failures
		}
		lt.mu.Unlock()
	}

	remaining := lt.config.MaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Logger exposes the security logger for callers that log related events
func (lt *LoginTracker) Logger() *SecurityLogger { return lt.logger }
