// Package translator turns the classifier's knowledge entries into canonical facts.
package translator

import (
	"Saber/backend/go/internal/models"
	"Saber/backend/go/pkg/logger"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMaxValueLength caps a fact value, in runes.
	DefaultMaxValueLength = 500

	genericRelation = "generic_relation"
	defaultCategory = "organization"
	defaultSource   = "classifier"
)

// Translator validates and maps knowledge entries.
type Translator struct {
	maxValueLength int
	now            func() time.Time
	log            *logger.Logger
}

// New creates a Translator. maxValueLength <= 0 means DefaultMaxValueLength.
func New(maxValueLength int, log *logger.Logger) *Translator {
	if maxValueLength <= 0 {
		maxValueLength = DefaultMaxValueLength
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Translator{maxValueLength: maxValueLength, now: time.Now, log: log}
}

// Translate returns the facts that survive validation, in entry order.
// Invalid entries are logged and dropped; they never fail the batch.
func (t *Translator) Translate(k models.Knowledge, userID string) []models.Fact {
	if !k.Store || len(k.Entries) == 0 {
		return nil
	}

	facts := make([]models.Fact, 0, len(k.Entries))
	seen := make(map[string]bool, len(k.Entries))
	for _, entry := range k.Entries {
		fact, err := t.translateEntry(entry, userID)
		if err != nil {
			t.log.WithPayload(map[string]interface{}{
				"entry_id": entry.ID,
				"kind":     entry.Kind,
				"reason":   err.Error(),
			}).Debug("discarded knowledge entry")
			continue
		}

		id := dedupeKey(fact)
		if seen[id] {
			t.log.WithField("natural_key", id).Debug("dropped duplicate fact in batch")
			continue
		}
		seen[id] = true
		facts = append(facts, fact)
	}
	return facts
}

func (t *Translator) translateEntry(entry models.KnowledgeEntry, userID string) (models.Fact, error) {
	if err := Validate(entry); err != nil {
		return models.Fact{}, err
	}

	fact, err := t.mapEntry(entry, userID)
	if err != nil {
		return models.Fact{}, err
	}
	if fact.Kind == "" || fact.Key == "" || fact.Entity == "" || fact.Value == "" {
		return models.Fact{}, fmt.Errorf("%w: incomplete fact %s/%s/%s", ErrValidation, fact.Kind, fact.Key, fact.Entity)
	}
	fact.Value = Truncate(fact.Value, t.maxValueLength)

	now := t.now()
	source := entry.Context.Source
	if source == "" {
		source = defaultSource
	}
	fact.Context = models.FactContext{Certainty: models.CertaintyHigh, Source: source, Timestamp: now}
	fact.CreatedAt = now
	fact.LastUpdatedAt = now
	return fact, nil
}

func (t *Translator) mapEntry(e models.KnowledgeEntry, userID string) (models.Fact, error) {
	subject := resolveEntity(e.Subject, userID)

	switch e.Kind {
	case models.EntryKindIdentity:
		return models.Fact{
			Kind:   models.FactKindName,
			Key:    models.FactKindName,
			Entity: subject,
			Value:  CleanValue(e.Predicate.Value),
		}, nil

	case models.EntryKindRelation:
		key := NormalizeKey(e.Predicate.Type)
		if key == "" {
			key = genericRelation
		}
		return models.Fact{
			Kind:   models.FactKindRelation,
			Key:    key,
			Entity: subject,
			Value:  CleanValue(e.Object.Value),
			Relationships: []models.Relationship{{
				Type:         key,
				TargetEntity: NormalizeKey(e.Object.Value),
				Description:  CleanValue(e.Predicate.Value),
			}},
		}, nil

	case models.EntryKindDefinition:
		return models.Fact{
			Kind:   models.FactKindDefinition,
			Key:    NormalizeKey(e.Subject.Value),
			Entity: models.GeneralEntity,
			Value:  CleanValue(e.Predicate.Value),
		}, nil

	case models.EntryKindProperty:
		value := CleanValue(e.Predicate.Value)
		if e.Object != nil && CleanValue(e.Object.Value) != "" {
			value = CleanValue(e.Object.Value)
		}
		fact := models.Fact{
			Kind:   models.FactKindProperty,
			Key:    NormalizeKey(e.Predicate.Type),
			Entity: subject,
			Value:  value,
		}
		if e.Subject.Type == models.SubjectConcept {
			concept := NormalizeKey(e.Subject.Value)
			fact.Entity = models.GeneralEntity
			fact.Concept = concept
			fact.Relationships = []models.Relationship{{
				Type:         models.RelationshipPropertyOf,
				TargetEntity: concept,
				Description:  fact.Key,
			}}
		}
		return fact, nil

	case models.EntryKindEntity:
		key := NormalizeKey(e.Predicate.Type)
		if key == "" {
			key = models.FactKindEntity
		}
		category := CleanValue(e.Subject.Category)
		if category == "" {
			category = defaultCategory
		}
		value := CleanValue(e.Predicate.Value)
		if value == "" {
			value = CleanValue(e.Subject.Value)
		}
		return models.Fact{
			Kind:     models.FactKindEntity,
			Key:      key,
			Entity:   NormalizeKey(e.Subject.Value),
			Value:    value,
			Category: category,
		}, nil
	}
	return models.Fact{}, errors.New("unreachable: kind passed validation")
}

// resolveEntity is the sender id for USER subjects and the normalized name otherwise.
func resolveEntity(s *models.EntrySubject, userID string) string {
	if s.Type == models.SubjectUser {
		return userID
	}
	return NormalizeKey(s.Value)
}

func dedupeKey(f models.Fact) string {
	return f.Kind + "\x00" + f.Key + "\x00" + f.Entity + "\x00" + f.Concept
}
