// internal/middleware/ratelimit.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	xerrors "jiudi-console/internal/pkg/errors"
	"jiudi-console/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	limiters sync.Map
	rate     int
	burst    int
	idle     time.Duration
	logger   *zap.Logger
}

type limiterEntry struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	seen    time.Time
}

// NewRateLimiter starts a limiter whose cleanup loop stops with ctx.
func NewRateLimiter(ctx context.Context, requestsPerSecond, burst int, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		rate:   requestsPerSecond,
		burst:  burst,
		idle:   10 * time.Minute,
		logger: logger,
	}
	go rl.cleanup(ctx, 5*time.Minute)
	return rl
}

func (rl *RateLimiter) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.limiters.Range(func(key, value interface{}) bool {
				entry := value.(*limiterEntry)
				entry.mu.Lock()
				stale := now.Sub(entry.seen) > rl.idle
				entry.mu.Unlock()
				if stale {
					rl.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	v, ok := rl.limiters.Load(key)
	if !ok {
		v, _ = rl.limiters.LoadOrStore(key, &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(rl.rate), rl.burst),
			seen:    time.Now(),
		})
	}
	entry := v.(*limiterEntry)
	entry.mu.Lock()
	entry.seen = time.Now()
	entry.mu.Unlock()
	return entry.limiter
}

// Middleware returns a Gin middleware handler for rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || strings.HasPrefix(path, "/static/") {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = "unknown"
		}

		if !rl.getLimiter(clientIP).Allow() {
			rl.logger.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("method", c.Request.Method),
				zap.String("path", path),
			)
			c.Header("Retry-After", "1")
			response.Error(c, http.StatusTooManyRequests, "too many requests", xerrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
