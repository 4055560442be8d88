package dedupe

import (
	"context"
	"time"

	"Saber/backend/go/pkg/util"
)

// DefaultMemoryCapacity bounds how many ids a MemoryGuard remembers.
const DefaultMemoryCapacity = 100000

// MemoryGuard is an in-process Guard for deployments without Redis.
// It forgets ids after ttl or when capacity is exceeded, oldest first.
type MemoryGuard struct {
	seen *util.LRUCache[string, struct{}]
}

// NewMemoryGuard creates a MemoryGuard.
func NewMemoryGuard(capacity int, ttl time.Duration) (*MemoryGuard, error) {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	seen, err := util.NewWithConfig[string, struct{}](util.CacheConfig{Capacity: capacity, TTL: ttl})
	if err != nil {
		return nil, err
	}
	return &MemoryGuard{seen: seen}, nil
}

// FirstSeen is always true for messages without an id.
func (g *MemoryGuard) FirstSeen(_ context.Context, id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	return g.seen.PutIfAbsent(id, struct{}{}), nil
}
