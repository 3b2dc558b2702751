package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements sliding window rate limiting using Redis, so that
// several API instances share one budget per client.
// ⭐ SSOT: 레이트 리밋은 여기서만
type RateLimiter struct {
	client *Client
	prefix string
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit requests per window for each key.
func NewRateLimiter(client *Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// WindowFor converts a steady rate with burst into an equivalent window:
// burst requests per burst/rps seconds.
func WindowFor(rps float64, burst int) time.Duration {
	if rps <= 0 || burst < 1 {
		return time.Second
	}
	return time.Duration(float64(burst) / rps * float64(time.Second))
}

var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)

	if count < limit then
		redis.call('ZADD', key, now, member)
		redis.call('PEXPIRE', key, window_ms)
		return {1, limit - count - 1}
	else
		return {0, 0}
	end
`)

// Allow checks if a request for key is allowed.
// Returns (allowed, remaining, error)
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	if !r.client.Enabled() {
		return true, r.limit, nil
	}

	now := time.Now()
	nowMs := now.UnixMilli()
	result, err := slidingWindow.Run(ctx, r.client.Redis(),
		[]string{fmt.Sprintf("%s:ratelimit:%s", r.prefix, key)},
		nowMs,
		nowMs-r.window.Milliseconds(),
		r.limit,
		r.window.Milliseconds(),
		now.UnixNano(),
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}

	allowed := result[0].(int64) == 1
	remaining := int(result[1].(int64))
	return allowed, remaining, nil
}
