package lock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker provides a Redis-backed distributed lock. Reminder scans run on every
// worker instance, so the lock keeps a scheduled scan from being executed more
// than once per tick.
type Locker struct {
	R            *redis.Client
	RetryBackoff time.Duration
}

// WithLock executes fn while holding a lock for the provided key. The lock is
// released automatically even if fn returns an error. When the lock cannot be
// acquired before the context is cancelled an error is returned.
func (l Locker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	if err := l.validate(fn); err != nil {
		return err
	}
	ttl = normalizeTTL(ttl)
	token := uuid.NewString()
	retry := l.RetryBackoff
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}

	for {
		ok, err := l.R.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			defer l.release(context.Background(), key, token)
			return fn(ctx)
		}
		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Try runs fn only if the lock is free and reports whether it ran. A scan that
// loses the race simply skips its tick instead of queueing behind the holder.
func (l Locker) Try(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) (bool, error) {
	if err := l.validate(fn); err != nil {
		return false, err
	}
	ttl = normalizeTTL(ttl)
	token := uuid.NewString()

	ok, err := l.R.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return false, err
	}
	defer l.release(context.Background(), key, token)
	return true, fn(ctx)
}

func (l Locker) validate(fn func(context.Context) error) error {
	if l.R == nil {
		return errors.New("lock: redis client not configured")
	}
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	return nil
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 30 * time.Second
	}
	return ttl
}

func (l Locker) release(ctx context.Context, key, token string) {
	const script = `if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`
	if err := l.R.Eval(ctx, script, []string{key}, token).Err(); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unknown command") {
			_ = l.R.Del(ctx, key).Err()
		}
	}
}
