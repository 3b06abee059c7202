// Package throttle rate-limits login attempts per account using Redis.
package throttle

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginThrottle struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
}

func New(rdb *redis.Client, max int64, window time.Duration) *LoginThrottle {
	return &LoginThrottle{rdb: rdb, max: max, window: window}
}

// Allow counts an attempt for key and reports whether it is still within the
// window budget. Redis failures fail open; a broken throttle must not lock
// everyone out.
func (t *LoginThrottle) Allow(ctx context.Context, key string) bool {
	count, err := t.rdb.Incr(ctx, "login_attempts:"+key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		t.rdb.Expire(ctx, "login_attempts:"+key, t.window)
	}
	return count <= t.max
}

// Reset clears the attempt counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, key string) {
	t.rdb.Del(ctx, "login_attempts:"+key)
}
