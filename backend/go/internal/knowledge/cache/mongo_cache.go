package cache

import (
	"Saber/backend/go/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is where cached responses live.
const CollectionName = "responses"

// MongoResponseCache is a ResponseCache backed by MongoDB.
type MongoResponseCache struct {
	db         *mongo.Database
	collection *mongo.Collection
	minOverlap float64
	now        func() time.Time
}

// NewMongoResponseCache creates a new MongoResponseCache. minOverlap <= 0 means DefaultMinOverlap.
func NewMongoResponseCache(db *mongo.Database, minOverlap float64) *MongoResponseCache {
	if minOverlap <= 0 {
		minOverlap = DefaultMinOverlap
	}
	return &MongoResponseCache{
		db:         db,
		collection: db.Collection(CollectionName),
		minOverlap: minOverlap,
		now:        time.Now,
	}
}

// FindByKeywords queries entries sharing any keyword, then applies the overlap threshold.
func (c *MongoResponseCache) FindByKeywords(ctx context.Context, keywords []string) (*models.CachedResponse, error) {
	kws := lookupKeywords(keywords)
	if len(kws) == 0 {
		return nil, nil
	}

	cursor, err := c.collection.Find(ctx, bson.M{"keywords": bson.M{"$in": kws}})
	if err != nil {
		return nil, fmt.Errorf("%w: find responses: %v", ErrCache, err)
	}
	defer cursor.Close(ctx)

	var candidates []models.CachedResponse
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, fmt.Errorf("%w: decode responses: %v", ErrCache, err)
	}
	return firstQualifying(candidates, kws, MinMatches(len(kws), c.minOverlap)), nil
}

// Save updates the matching entry or inserts a new one.
func (c *MongoResponseCache) Save(ctx context.Context, response models.CachedResponse) error {
	now := c.now()
	existing, err := c.FindByKeywords(ctx, response.Keywords)
	if err != nil {
		return err
	}

	if existing != nil {
		_, err := c.collection.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": bson.M{
			"keywords":       lookupKeywords(response.Keywords),
			"answerText":     response.AnswerText,
			"classification": response.Classification,
			"lastUpdatedAt":  now,
		}})
		if err != nil {
			return fmt.Errorf("%w: update response: %v", ErrCache, err)
		}
		return nil
	}

	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	response.Keywords = lookupKeywords(response.Keywords)
	response.CreatedAt = now
	response.LastUpdatedAt = now
	if _, err := c.collection.InsertOne(ctx, response); err != nil {
		return fmt.Errorf("%w: insert response: %v", ErrCache, err)
	}
	return nil
}

// Ping checks the database connection.
func (c *MongoResponseCache) Ping(ctx context.Context) error {
	return c.db.Client().Ping(ctx, nil)
}
