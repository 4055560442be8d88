package ratelimiter

// RateLimiter is the interface for rate limiting.
// Allow returns true if a request is allowed, and false otherwise.
type RateLimiter interface {
	Allow() bool
}

// KeyedLimiter limits each key independently, e.g. one bucket per sender.
type KeyedLimiter interface {
	AllowKey(key string) bool
}
