package store

import (
	"Saber/backend/go/internal/models"
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFactStore is a FactStore backed by MongoDB.
type MongoFactStore struct {
	db       *mongo.Database
	facts    *mongo.Collection
	entities *mongo.Collection
	now      func() time.Time
}

// NewMongoFactStore creates a new MongoFactStore.
func NewMongoFactStore(db *mongo.Database) *MongoFactStore {
	return &MongoFactStore{
		db:       db,
		facts:    db.Collection(FactsCollection),
		entities: db.Collection(EntitiesCollection),
		now:      time.Now,
	}
}

// naturalKey builds the filter that identifies a fact.
func naturalKey(f models.Fact) bson.M {
	filter := bson.M{"kind": f.Kind, "key": f.Key, "entity": f.Entity}
	if usesConcept(f.Kind) {
		if f.Concept != "" {
			filter["concept"] = f.Concept
		} else {
			filter["concept"] = bson.M{"$in": bson.A{nil, ""}}
		}
	}
	return filter
}

// UpsertFact finds by natural key, then updates or inserts. Two writers that
// both miss can still insert twice; there is no transaction around the pair.
func (s *MongoFactStore) UpsertFact(ctx context.Context, fact models.Fact) (models.UpsertResult, error) {
	normalizeFact(&fact)
	now := s.now()

	var existing models.Fact
	err := s.facts.FindOne(ctx, naturalKey(fact)).Decode(&existing)
	switch {
	case err == nil:
		set := bson.M{
			"value":             fact.Value,
			"lastUpdatedAt":     now,
			"context.certainty": models.CertaintyHigh,
			"context.timestamp": now,
		}
		if len(fact.Relationships) > 0 {
			set["relationships"] = fact.Relationships
		}
		if fact.Category != "" {
			set["category"] = fact.Category
		}
		if fact.Context.Source != "" {
			set["context.source"] = fact.Context.Source
		}
		if _, err := s.facts.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": set}); err != nil {
			return "", fmt.Errorf("%w: update fact: %v", ErrStore, err)
		}
		return models.UpsertUpdated, nil

	case errors.Is(err, mongo.ErrNoDocuments):
		if fact.ID == "" {
			fact.ID = uuid.New().String()
		}
		fact.Context.Certainty = models.CertaintyHigh
		if fact.Context.Timestamp.IsZero() {
			fact.Context.Timestamp = now
		}
		fact.CreatedAt = now
		fact.LastUpdatedAt = now
		if _, err := s.facts.InsertOne(ctx, fact); err != nil {
			return "", fmt.Errorf("%w: insert fact: %v", ErrStore, err)
		}
		return models.UpsertInserted, nil

	default:
		return "", fmt.Errorf("%w: find fact: %v", ErrStore, err)
	}
}

// FindFact retrieves a fact by its natural key without concept.
func (s *MongoFactStore) FindFact(ctx context.Context, kind, key, entity string) (*models.Fact, error) {
	var fact models.Fact
	err := s.facts.FindOne(ctx, bson.M{"kind": norm(kind), "key": norm(key), "entity": norm(entity)}).Decode(&fact)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find fact: %v", ErrStore, err)
	}
	return &fact, nil
}

// FindRelationalFacts lists facts of kind about entity.
func (s *MongoFactStore) FindRelationalFacts(ctx context.Context, kind, entity, value string) ([]models.Fact, error) {
	filter := bson.M{"kind": norm(kind), "entity": norm(entity)}
	if value != "" {
		filter["value"] = containsPattern(value)
	}
	return s.find(ctx, filter)
}

// FindFactsByType lists every fact of kind.
func (s *MongoFactStore) FindFactsByType(ctx context.Context, kind string) ([]models.Fact, error) {
	return s.find(ctx, bson.M{"kind": norm(kind)})
}

// FindFactsByPartialValue lists facts whose value contains substring, ignoring case.
func (s *MongoFactStore) FindFactsByPartialValue(ctx context.Context, substring string) ([]models.Fact, error) {
	if substring == "" {
		return nil, nil
	}
	return s.find(ctx, bson.M{"value": containsPattern(substring)})
}

// FindConceptProperties unions the three shapes a concept property can take.
func (s *MongoFactStore) FindConceptProperties(ctx context.Context, concept string) ([]models.Fact, error) {
	c := norm(concept)
	if c == "" {
		return nil, nil
	}
	facts, err := s.find(ctx, bson.M{"$or": bson.A{
		bson.M{"kind": models.FactKindProperty, "entity": c},
		bson.M{"kind": models.FactKindProperty, "entity": models.GeneralEntity, "concept": c},
		bson.M{"relationships": bson.M{"$elemMatch": bson.M{"type": models.RelationshipPropertyOf, "entity": c}}},
	}})
	if err != nil || len(facts) > 0 {
		return facts, err
	}

	def, err := s.FindFact(ctx, models.FactKindDefinition, c, models.GeneralEntity)
	if err != nil || def == nil {
		return nil, err
	}
	return []models.Fact{*def}, nil
}

// FindFactsByRelatedEntity lists facts with a relationship to target.
func (s *MongoFactStore) FindFactsByRelatedEntity(ctx context.Context, target string) ([]models.Fact, error) {
	return s.find(ctx, bson.M{"relationships.entity": norm(target)})
}

// UpsertEntity inserts the entity or adds its aliases to the existing set.
func (s *MongoFactStore) UpsertEntity(ctx context.Context, entity models.Entity) (models.UpsertResult, error) {
	name := norm(entity.NormalizedName)
	if name == "" {
		name = norm(entity.Name)
	}
	if name == "" {
		return "", fmt.Errorf("%w: entity without name", ErrStore)
	}
	aliases := entity.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	now := s.now()

	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       uuid.New().String(),
			"name":      entity.Name,
			"kind":      entity.Kind,
			"createdAt": now,
		},
		"$set":      bson.M{"lastUpdatedAt": now},
		"$addToSet": bson.M{"aliases": bson.M{"$each": aliases}},
	}
	res, err := s.entities.UpdateOne(ctx, bson.M{"normalizedName": name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("%w: upsert entity: %v", ErrStore, err)
	}
	if res.UpsertedCount > 0 {
		return models.UpsertInserted, nil
	}
	return models.UpsertUpdated, nil
}

// FindEntity retrieves an entity by normalized name.
func (s *MongoFactStore) FindEntity(ctx context.Context, normalizedName string) (*models.Entity, error) {
	var entity models.Entity
	err := s.entities.FindOne(ctx, bson.M{"normalizedName": norm(normalizedName)}).Decode(&entity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find entity: %v", ErrStore, err)
	}
	return &entity, nil
}

// Ping checks the database connection.
func (s *MongoFactStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *MongoFactStore) find(ctx context.Context, filter bson.M) ([]models.Fact, error) {
	cursor, err := s.facts.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: find facts: %v", ErrStore, err)
	}
	defer cursor.Close(ctx)

	var facts []models.Fact
	if err = cursor.All(ctx, &facts); err != nil {
		return nil, fmt.Errorf("%w: decode facts: %v", ErrStore, err)
	}
	return facts, nil
}

func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
