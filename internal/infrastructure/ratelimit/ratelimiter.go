package ratelimit

import "context"

// Config bounds a caller over two sliding windows, a short one to absorb
// bursts and a longer one to cap sustained traffic. A zero limit disables
// that window.
type Config struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

// RateLimiter answers whether a keyed caller may proceed right now.
type RateLimiter interface {
	Allow(ctx context.Context, key string, cfg Config) (bool, error)
}
