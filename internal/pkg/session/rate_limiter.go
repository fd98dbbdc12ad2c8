// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
)

// RateLimiter counts login attempts per (ip, phone). A nil client disables
// limiting, which is how the memory session backend runs.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// CheckLoginAttempt records an attempt and reports whether it is allowed,
// along with the attempts left in the window.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, phone string) (bool, int64, error) {
	if r == nil || r.client == nil {
		return true, maxLoginAttempts, nil
	}
	key := r.loginKey(ip, phone)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// first attempt opens the window
	if count == 1 {
		r.client.Expire(ctx, key, loginAttemptWindow)
	}

	remaining := maxLoginAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= maxLoginAttempts, remaining, nil
}

// ResetLoginAttempts resets the login attempt counter
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, phone string) error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Del(ctx, r.loginKey(ip, phone)).Err()
}

func (r *RateLimiter) loginKey(ip, phone string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", ip, phone)
}
