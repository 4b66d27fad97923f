package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lats/backend/internal/domain/closing"
	"github.com/redis/go-redis/v9"
)

// Failures count inside a window as long as the lockout. Reaching max locks
// the key for the lockout and starts a fresh count.

type attemptState struct {
	count       int
	windowEnds  time.Time
	lockedUntil time.Time
}

// InMemoryAttemptLimiter tracks passcode failures per process
type InMemoryAttemptLimiter struct {
	mu    sync.Mutex
	state map[string]*attemptState
	now   func() time.Time
}

// NewInMemoryAttemptLimiter creates an empty limiter
func NewInMemoryAttemptLimiter() *InMemoryAttemptLimiter {
	return &InMemoryAttemptLimiter{state: make(map[string]*attemptState), now: time.Now}
}

// Locked reports whether key is locked and the time left
func (l *InMemoryAttemptLimiter) Locked(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.state[key]
	if !ok {
		return false, 0, nil
	}
	if left := st.lockedUntil.Sub(l.now()); left > 0 {
		return true, left, nil
	}
	return false, 0, nil
}

// Fail records a failure and returns the count in the current window
func (l *InMemoryAttemptLimiter) Fail(_ context.Context, key string, max int, lockout time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	st, ok := l.state[key]
	if !ok {
		st = &attemptState{}
		l.state[key] = st
	}
	if !now.Before(st.windowEnds) {
		st.count = 0
		st.windowEnds = now.Add(lockout)
	}
	st.count++
	count := st.count
	if count >= max {
		st.lockedUntil = now.Add(lockout)
		st.count = 0
		st.windowEnds = time.Time{}
	}
	return count, nil
}

// Reset clears failures and any lock for key
func (l *InMemoryAttemptLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.state, key)
	l.mu.Unlock()
	return nil
}

// RedisAttemptLimiter shares passcode failures across instances
type RedisAttemptLimiter struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisAttemptLimiter wraps a shared client
func NewRedisAttemptLimiter(client *redis.Client) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client, keyPrefix: "lats:closing:attempts:"}
}

func (l *RedisAttemptLimiter) countKey(key string) string { return l.keyPrefix + key + ":count" }
func (l *RedisAttemptLimiter) lockKey(key string) string  { return l.keyPrefix + key + ":lock" }

// Locked reports whether key is locked and the time left
func (l *RedisAttemptLimiter) Locked(ctx context.Context, key string) (bool, time.Duration, error) {
	ttl, err := l.client.PTTL(ctx, l.lockKey(key)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read passcode lock: %w", err)
	}
	// PTTL reports -2 (missing) and -1 (no expiry) as raw negative values
	if ttl <= 0 {
		return false, 0, nil
	}
	return true, ttl, nil
}

// Fail records a failure and returns the count in the current window
func (l *RedisAttemptLimiter) Fail(ctx context.Context, key string, max int, lockout time.Duration) (int, error) {
	countKey := l.countKey(key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, countKey)
	pipe.ExpireNX(ctx, countKey, lockout)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to record passcode failure: %w", err)
	}

	count := int(incr.Val())
	if count >= max {
		lock := l.client.TxPipeline()
		lock.Set(ctx, l.lockKey(key), "1", lockout)
		lock.Del(ctx, countKey)
		if _, err := lock.Exec(ctx); err != nil {
			return count, fmt.Errorf("failed to lock passcode: %w", err)
		}
	}
	return count, nil
}

// Reset clears failures and any lock for key
func (l *RedisAttemptLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.countKey(key), l.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset passcode attempts: %w", err)
	}
	return nil
}

var (
	_ closing.AttemptLimiter = (*InMemoryAttemptLimiter)(nil)
	_ closing.AttemptLimiter = (*RedisAttemptLimiter)(nil)
)
