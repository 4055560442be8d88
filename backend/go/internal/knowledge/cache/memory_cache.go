package cache

import (
	"Saber/backend/go/internal/models"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryResponseCache is a ResponseCache held in process memory.
type MemoryResponseCache struct {
	mu         sync.RWMutex
	entries    []models.CachedResponse
	minOverlap float64
}

// NewMemoryResponseCache creates an empty cache. minOverlap <= 0 means DefaultMinOverlap.
func NewMemoryResponseCache(minOverlap float64) *MemoryResponseCache {
	if minOverlap <= 0 {
		minOverlap = DefaultMinOverlap
	}
	return &MemoryResponseCache{minOverlap: minOverlap}
}

// FindByKeywords returns the first entry in insertion order that meets the threshold.
func (c *MemoryResponseCache) FindByKeywords(_ context.Context, keywords []string) (*models.CachedResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.find(keywords), nil
}

func (c *MemoryResponseCache) find(keywords []string) *models.CachedResponse {
	kws := lookupKeywords(keywords)
	if len(kws) == 0 {
		return nil
	}
	return firstQualifying(c.entries, kws, MinMatches(len(kws), c.minOverlap))
}

// Save updates the matching entry or appends a new one.
func (c *MemoryResponseCache) Save(_ context.Context, response models.CachedResponse) error {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing := c.find(response.Keywords); existing != nil {
		for i := range c.entries {
			if c.entries[i].ID == existing.ID {
				c.entries[i].Keywords = lookupKeywords(response.Keywords)
				c.entries[i].AnswerText = response.AnswerText
				c.entries[i].Classification = response.Classification
				c.entries[i].LastUpdatedAt = now
			}
		}
		return nil
	}

	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	response.Keywords = lookupKeywords(response.Keywords)
	response.CreatedAt = now
	response.LastUpdatedAt = now
	c.entries = append(c.entries, response)
	return nil
}

// Len reports how many entries are cached.
func (c *MemoryResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ping always succeeds.
func (c *MemoryResponseCache) Ping(context.Context) error {
	return nil
}
