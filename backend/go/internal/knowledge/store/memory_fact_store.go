package store

import (
	"Saber/backend/go/internal/models"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryFactStore is a FactStore held in process memory. Iteration order is insertion order.
type MemoryFactStore struct {
	mu       sync.RWMutex
	facts    []models.Fact
	entities []models.Entity
	now      func() time.Time
}

// NewMemoryFactStore creates an empty MemoryFactStore.
func NewMemoryFactStore() *MemoryFactStore {
	return &MemoryFactStore{now: time.Now}
}

func (s *MemoryFactStore) indexOf(f models.Fact) int {
	for i, existing := range s.facts {
		if existing.Kind != f.Kind || existing.Key != f.Key || existing.Entity != f.Entity {
			continue
		}
		if usesConcept(f.Kind) && existing.Concept != f.Concept {
			continue
		}
		return i
	}
	return -1
}

// UpsertFact merges or inserts fact.
func (s *MemoryFactStore) UpsertFact(_ context.Context, fact models.Fact) (models.UpsertResult, error) {
	normalizeFact(&fact)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(fact); i >= 0 {
		existing := &s.facts[i]
		existing.Value = fact.Value
		if len(fact.Relationships) > 0 {
			existing.Relationships = append([]models.Relationship(nil), fact.Relationships...)
		}
		if fact.Category != "" {
			existing.Category = fact.Category
		}
		if fact.Context.Source != "" {
			existing.Context.Source = fact.Context.Source
		}
		existing.Context.Certainty = models.CertaintyHigh
		existing.Context.Timestamp = now
		existing.LastUpdatedAt = now
		return models.UpsertUpdated, nil
	}

	if fact.ID == "" {
		fact.ID = uuid.New().String()
	}
	fact.Context.Certainty = models.CertaintyHigh
	if fact.Context.Timestamp.IsZero() {
		fact.Context.Timestamp = now
	}
	fact.CreatedAt = now
	fact.LastUpdatedAt = now
	fact.Relationships = append([]models.Relationship(nil), fact.Relationships...)
	s.facts = append(s.facts, fact)
	return models.UpsertInserted, nil
}

// FindFact returns the first fact with kind, key and entity.
func (s *MemoryFactStore) FindFact(_ context.Context, kind, key, entity string) (*models.Fact, error) {
	kind, key, entity = norm(kind), norm(key), norm(entity)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.facts {
		if f.Kind == kind && f.Key == key && f.Entity == entity {
			out := f
			return &out, nil
		}
	}
	return nil, nil
}

// FindRelationalFacts lists facts of kind about entity.
func (s *MemoryFactStore) FindRelationalFacts(_ context.Context, kind, entity, value string) ([]models.Fact, error) {
	kind, entity = norm(kind), norm(entity)
	return s.filter(func(f models.Fact) bool {
		return f.Kind == kind && f.Entity == entity && (value == "" || containsFold(f.Value, value))
	}), nil
}

// FindFactsByType lists every fact of kind.
func (s *MemoryFactStore) FindFactsByType(_ context.Context, kind string) ([]models.Fact, error) {
	kind = norm(kind)
	return s.filter(func(f models.Fact) bool { return f.Kind == kind }), nil
}

// FindFactsByPartialValue lists facts whose value contains substring.
func (s *MemoryFactStore) FindFactsByPartialValue(_ context.Context, substring string) ([]models.Fact, error) {
	if substring == "" {
		return nil, nil
	}
	return s.filter(func(f models.Fact) bool { return containsFold(f.Value, substring) }), nil
}

// FindConceptProperties mirrors MongoFactStore.FindConceptProperties.
func (s *MemoryFactStore) FindConceptProperties(ctx context.Context, concept string) ([]models.Fact, error) {
	c := norm(concept)
	if c == "" {
		return nil, nil
	}
	facts := s.filter(func(f models.Fact) bool {
		if f.Kind == models.FactKindProperty && (f.Entity == c || (f.Entity == models.GeneralEntity && f.Concept == c)) {
			return true
		}
		for _, r := range f.Relationships {
			if r.Type == models.RelationshipPropertyOf && r.TargetEntity == c {
				return true
			}
		}
		return false
	})
	if len(facts) > 0 {
		return facts, nil
	}

	def, _ := s.FindFact(ctx, models.FactKindDefinition, c, models.GeneralEntity)
	if def == nil {
		return nil, nil
	}
	return []models.Fact{*def}, nil
}

// FindFactsByRelatedEntity lists facts with a relationship to target.
func (s *MemoryFactStore) FindFactsByRelatedEntity(_ context.Context, target string) ([]models.Fact, error) {
	target = norm(target)
	return s.filter(func(f models.Fact) bool {
		for _, r := range f.Relationships {
			if r.TargetEntity == target {
				return true
			}
		}
		return false
	}), nil
}

// UpsertEntity inserts the entity or unions its aliases into the existing one.
func (s *MemoryFactStore) UpsertEntity(_ context.Context, entity models.Entity) (models.UpsertResult, error) {
	name := norm(entity.NormalizedName)
	if name == "" {
		name = norm(entity.Name)
	}
	if name == "" {
		return "", ErrStore
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entities {
		existing := &s.entities[i]
		if existing.NormalizedName != name {
			continue
		}
		for _, alias := range entity.Aliases {
			if !contains(existing.Aliases, alias) {
				existing.Aliases = append(existing.Aliases, alias)
			}
		}
		existing.LastUpdatedAt = now
		return models.UpsertUpdated, nil
	}

	aliases := []string{}
	for _, alias := range entity.Aliases {
		if !contains(aliases, alias) {
			aliases = append(aliases, alias)
		}
	}
	s.entities = append(s.entities, models.Entity{
		ID:             uuid.New().String(),
		Name:           entity.Name,
		NormalizedName: name,
		Kind:           entity.Kind,
		Aliases:        aliases,
		CreatedAt:      now,
		LastUpdatedAt:  now,
	})
	return models.UpsertInserted, nil
}

// FindEntity retrieves an entity by normalized name.
func (s *MemoryFactStore) FindEntity(_ context.Context, normalizedName string) (*models.Entity, error) {
	name := norm(normalizedName)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entities {
		if e.NormalizedName == name {
			out := e
			out.Aliases = append([]string(nil), e.Aliases...)
			return &out, nil
		}
	}
	return nil, nil
}

// Ping always succeeds.
func (s *MemoryFactStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryFactStore) filter(match func(models.Fact) bool) []models.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Fact
	for _, f := range s.facts {
		if match(f) {
			out = append(out, f)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
