package redis

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter bounds login attempts with fixed-window counters:
// INCR plus EXPIRE on the first hit in the window.
type RateLimiter interface {
	// Allow consumes one attempt for key and reports whether it stayed
	// within limit for the window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func rateKey(key string) string {
	return "rl:" + key
}

func (c *Client) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := rateKey(key)
	count, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, k, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate window: %w", err)
		}
	}
	return count <= int64(limit), nil
}

// MemoryRateLimiter is the in-process fallback used when Redis is not
// configured.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int
	resetAt time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{windows: make(map[string]*window)}
}

func (l *MemoryRateLimiter) Allow(ctx context.Context, key string, limit int, d time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(d)}
		return limit >= 1, nil
	}
	w.count++
	return w.count <= limit, nil
}
