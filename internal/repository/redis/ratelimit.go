package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter counts session actions in fixed one-minute windows. The
// counter key embeds the window start so a new minute starts at zero.
type RateLimiter struct {
	client *Client
	limit  int64
	now    func() time.Time
}

// NewRateLimiter allows requestsPerMinute plus burst actions per window
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  int64(requestsPerMinute + burst),
		now:    time.Now,
	}
}

func windowKey(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, windowStart.Unix())
}

// Allow counts one action for key.
// Returns (allowed, remaining, window end, error)
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := r.now().Truncate(time.Minute)
	windowEnd := windowStart.Add(time.Minute)
	fullKey := windowKey(key, windowStart)

	var incr *redis.IntCmd
	_, err := r.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.ExpireNX(ctx, fullKey, time.Minute)
		return nil
	})
	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incr.Val()
	remaining := max(r.limit-count, 0)
	return count <= r.limit, int(remaining), windowEnd, nil
}

// Limit returns the number of actions allowed per window
func (r *RateLimiter) Limit() int {
	return int(r.limit)
}
