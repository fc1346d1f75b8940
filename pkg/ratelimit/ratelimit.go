package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stagepass/internal/shared/config"
	"stagepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Tier selects which request budget applies to a route.
type Tier string

const (
	TierDefault Tier = "default"
	TierBooking Tier = "booking"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime int64
}

// Limiter enforces a sliding window rate limit backed by redis.
type Limiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
}

func NewLimiter(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{client: client, cfg: cfg}
}

// Sliding window check kept atomic so concurrent requests cannot
// both slip under the limit.
const slidingWindowScript = `
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local window_seconds = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local current = redis.call('ZCARD', key)
if current >= limit then
	redis.call('EXPIRE', key, window_seconds)
	return {0, current}
end
redis.call('ZADD', key, now, now)
redis.call('EXPIRE', key, window_seconds)
return {1, current + 1}
`

func (l *Limiter) Allow(ctx context.Context, clientIP string, tier Tier) (*Result, error) {
	limit := l.limitFor(tier)
	if !l.cfg.Enabled {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: time.Now().Add(l.cfg.WindowDuration).Unix(),
		}, nil
	}

	now := time.Now()
	key := fmt.Sprintf("stagepass:ratelimit:%s:%s", clientIP, tier)
	windowStart := now.Add(-l.cfg.WindowDuration)

	raw, err := l.client.Eval(ctx, slidingWindowScript, []string{key},
		windowStart.UnixNano(), now.UnixNano(), limit,
		int(l.cfg.WindowDuration.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return nil, fmt.Errorf("rate limit check: unexpected reply %v", raw)
	}
	allowed, _ := values[0].(int64)
	count, _ := values[1].(int64)

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   allowed == 1,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(l.cfg.WindowDuration).Unix(),
	}, nil
}

func (l *Limiter) limitFor(tier Tier) int {
	if tier == TierBooking {
		return l.cfg.BookingRequests
	}
	return l.cfg.DefaultRequests
}

// Middleware applies the limiter to every request, with the stricter
// booking tier on the booking write path.
func Middleware(limiter *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		tier := tierFor(c.FullPath(), c.Request.Method)

		result, err := limiter.Allow(c.Request.Context(), c.ClientIP(), tier)
		if err != nil {
			// Redis being down should not take bookings with it.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func tierFor(path, method string) Tier {
	if method == http.MethodPost && strings.Contains(path, "/bookings") {
		return TierBooking
	}
	return TierDefault
}
