package ratelimiter

import (
	"sync"
	"time"
)

// sweepEvery 每隔多少次调用清理一次已回满的桶，避免 map 无限增长。
const sweepEvery = 1024

// KeyedTokenBucket keeps one TokenBucket per key.
type KeyedTokenBucket struct {
	rate     float64
	capacity int
	now      func() time.Time

	mu      sync.Mutex
	buckets map[string]*TokenBucket
	calls   int
}

// NewKeyedTokenBucket creates a limiter that gives every key its own bucket.
func NewKeyedTokenBucket(rate float64, capacity int) *KeyedTokenBucket {
	return &KeyedTokenBucket{
		rate:     rate,
		capacity: capacity,
		now:      time.Now,
		buckets:  make(map[string]*TokenBucket),
	}
}

// AllowKey takes a token from the bucket of key.
func (k *KeyedTokenBucket) AllowKey(key string) bool {
	k.mu.Lock()
	b, ok := k.buckets[key]
	if !ok {
		b = newTokenBucket(k.rate, k.capacity, k.now)
		k.buckets[key] = b
	}
	k.calls++
	if k.calls%sweepEvery == 0 {
		k.sweepLocked(key)
	}
	k.mu.Unlock()

	return b.Allow()
}

// Len returns the number of tracked keys.
func (k *KeyedTokenBucket) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

// sweepLocked drops buckets that refilled completely; they behave exactly like new ones.
func (k *KeyedTokenBucket) sweepLocked(keep string) {
	for key, b := range k.buckets {
		if key != keep && b.full() {
			delete(k.buckets, key)
		}
	}
}
