package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/commune-social/commune/internal/shared"
)

// LoginLimiter counts failed login attempts per identity and client IP in
// redis. Once the threshold is reached within the window, further attempts
// are refused until the counter expires.
type LoginLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewLoginLimiter constructs a LoginLimiter.
func NewLoginLimiter(client *redis.Client, max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, max: max, window: window}
}

// Allow reports whether another login attempt may proceed. A limiter outage
// never locks out logins: redis errors count as allowed.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) error {
	if l == nil || l.client == nil {
		return nil
	}
	count, err := l.client.Get(ctx, l.key(email, ip)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil
	}
	if count >= l.max {
		return shared.ErrTooManyAttempts
	}
	return nil
}

// RecordFailure increments the failed-attempt counter. The window restarts on
// each failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email, ip string) {
	if l == nil || l.client == nil {
		return
	}
	key := l.key(email, ip)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	_, _ = pipe.Exec(ctx)
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) {
	if l == nil || l.client == nil {
		return
	}
	_ = l.client.Del(ctx, l.key(email, ip)).Err()
}

func (l *LoginLimiter) key(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", NormalizeEmail(email), ip)
}
