// Package store owns every read and write of facts and entities.
package store

import (
	"Saber/backend/go/internal/models"
	"context"
	"errors"
	"strings"
)

// ErrStore wraps failures of the underlying database.
var ErrStore = errors.New("store error")

// Collection names.
const (
	FactsCollection     = "facts"
	EntitiesCollection  = "entities"
	ResponsesCollection = "responses"
)

// FactStore is the fact and entity persistence contract.
type FactStore interface {
	// UpsertFact merges fact into the record with the same natural key, or inserts it.
	UpsertFact(ctx context.Context, fact models.Fact) (models.UpsertResult, error)
	// FindFact returns nil, nil when no fact matches.
	FindFact(ctx context.Context, kind, key, entity string) (*models.Fact, error)
	// FindRelationalFacts lists facts of kind about entity; a non-empty value filters by substring.
	FindRelationalFacts(ctx context.Context, kind, entity, value string) ([]models.Fact, error)
	FindFactsByType(ctx context.Context, kind string) ([]models.Fact, error)
	FindFactsByPartialValue(ctx context.Context, substring string) ([]models.Fact, error)
	// FindConceptProperties falls back to the concept's definition when it has no properties.
	FindConceptProperties(ctx context.Context, concept string) ([]models.Fact, error)
	// FindFactsByRelatedEntity lists facts with a relationship pointing at target.
	FindFactsByRelatedEntity(ctx context.Context, target string) ([]models.Fact, error)

	// UpsertEntity creates the entity or merges its aliases into the existing one.
	UpsertEntity(ctx context.Context, entity models.Entity) (models.UpsertResult, error)
	// FindEntity returns nil, nil when no entity has that normalized name.
	FindEntity(ctx context.Context, normalizedName string) (*models.Entity, error)

	Ping(ctx context.Context) error
}

// norm is the canonical form of kind, key, entity and concept.
func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeFact lower-cases and trims the natural-key fields in place.
func normalizeFact(f *models.Fact) {
	f.Kind = norm(f.Kind)
	f.Key = norm(f.Key)
	f.Entity = norm(f.Entity)
	f.Concept = norm(f.Concept)
}

// usesConcept reports whether concept is part of the natural key for kind.
func usesConcept(kind string) bool {
	return kind == models.FactKindProperty
}
