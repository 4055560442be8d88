package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the secondary indexes of the facts, entities and responses collections.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	plan := map[string][]mongo.IndexModel{
		FactsCollection: {
			{Keys: bson.D{{Key: "kind", Value: 1}}},
			{Keys: bson.D{{Key: "key", Value: 1}}},
			{Keys: bson.D{{Key: "entity", Value: 1}}},
			{Keys: bson.D{{Key: "relationships.entity", Value: 1}}},
			{Keys: bson.D{{Key: "value", Value: "text"}}},
		},
		EntitiesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "aliases", Value: 1}}},
			{Keys: bson.D{{Key: "normalizedName", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ResponsesCollection: {
			{Keys: bson.D{{Key: "keywords", Value: 1}}},
		},
	}

	for _, name := range []string{FactsCollection, EntitiesCollection, ResponsesCollection} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, plan[name]); err != nil {
			return fmt.Errorf("%w: create indexes on %s: %v", ErrStore, name, err)
		}
	}
	return nil
}
