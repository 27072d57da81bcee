package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowKey(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "ratelimit:abc:1735734600", windowKey("abc", start))
}

func TestRateLimiter_Limit(t *testing.T) {
	assert.Equal(t, 40, NewRateLimiter(nil, 30, 10).Limit())
}
