// Package cache finds previously generated answers by keyword overlap.
package cache

import (
	"Saber/backend/go/internal/models"
	"context"
	"errors"
	"math"
)

const (
	// MaxKeywords is how many input keywords take part in a lookup.
	MaxKeywords = 10
	// DefaultMinOverlap is the fraction of input keywords a cached entry must share.
	DefaultMinOverlap = 0.6
)

// ErrCache wraps failures of the underlying database.
var ErrCache = errors.New("response cache error")

// ResponseCache stores answers keyed by keyword sets.
type ResponseCache interface {
	// FindByKeywords returns nil, nil when no entry qualifies.
	FindByKeywords(ctx context.Context, keywords []string) (*models.CachedResponse, error)
	// Save updates the qualifying entry in place, or inserts a new one.
	Save(ctx context.Context, response models.CachedResponse) error
	Ping(ctx context.Context) error
}

// lookupKeywords keeps the first MaxKeywords distinct, non-empty keywords.
func lookupKeywords(keywords []string) []string {
	out := make([]string, 0, MaxKeywords)
	seen := make(map[string]bool)
	for _, k := range keywords {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}

// MinMatches is ceil(overlap * count). The epsilon keeps 0.6*5 at 3 rather than 4.
func MinMatches(count int, overlap float64) int {
	if count <= 0 {
		return 0
	}
	return int(math.Ceil(overlap*float64(count) - 1e-9))
}

// overlapCount counts how many of want appear in have.
func overlapCount(want, have []string) int {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	n := 0
	for _, w := range want {
		if _, ok := set[w]; ok {
			n++
		}
	}
	return n
}

// firstQualifying returns the first candidate sharing at least min keywords.
func firstQualifying(candidates []models.CachedResponse, keywords []string, min int) *models.CachedResponse {
	for i := range candidates {
		if overlapCount(keywords, candidates[i].Keywords) >= min {
			c := candidates[i]
			return &c
		}
	}
	return nil
}
