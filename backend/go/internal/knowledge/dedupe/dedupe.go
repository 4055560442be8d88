// Package dedupe drops inbound messages the transport delivers more than once.
package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// KeyPrefix namespaces message ids in Redis.
const KeyPrefix = "msg:"

// Guard remembers which message ids were already processed.
type Guard interface {
	// FirstSeen reports whether id has not been seen before and marks it as seen.
	FirstSeen(ctx context.Context, id string) (bool, error)
}

// setNX is the part of *redis.Client the guard needs.
type setNX interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisGuard marks ids with SETNX and lets them expire after ttl.
type RedisGuard struct {
	client setNX
	ttl    time.Duration
}

// NewRedisGuard creates a RedisGuard.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

// FirstSeen is always true for messages without an id.
func (g *RedisGuard) FirstSeen(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	ok, err := g.client.SetNX(ctx, KeyPrefix+id, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", id, err)
	}
	return ok, nil
}
