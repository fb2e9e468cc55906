package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	pkgredis "github.com/pantoflas21/CARROS-E-CIA-PRO/internal/redis"
)

// Lua script for an atomic fixed-window counter: the first increment in a
// window arms the expiry, later ones just count.
const fixedWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`

// RedisLimiter is a fixed-window limiter shared across instances.
// It fails open: a Redis error permits the attempt rather than locking
// everyone out.
type RedisLimiter struct {
	client    *pkgredis.Client
	max       int
	window    time.Duration
	keyPrefix string
}

// RedisLimiterConfig holds Redis limiter settings
type RedisLimiterConfig struct {
	Client      *pkgredis.Client
	MaxAttempts int
	Window      time.Duration
	KeyPrefix   string
}

// NewRedisLimiter creates a Redis-backed limiter
func NewRedisLimiter(cfg RedisLimiterConfig) *RedisLimiter {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisLimiter{
		client:    cfg.Client,
		max:       cfg.MaxAttempts,
		window:    cfg.Window,
		keyPrefix: prefix,
	}
}

// Allow implements Limiter
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	result := l.client.Eval(ctx, fixedWindowScript,
		[]string{l.keyPrefix + key},
		l.window.Milliseconds(),
	)
	if result.Err() != nil {
		return true, fmt.Errorf("rate limit eval failed: %w", result.Err())
	}

	count, err := toInt64(result.Val())
	if err != nil {
		return true, err
	}

	return count <= int64(l.max), nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("unexpected redis reply type %T", v)
}
