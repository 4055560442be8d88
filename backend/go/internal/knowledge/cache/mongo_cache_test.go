package cache

import (
	"Saber/backend/go/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const responsesNS = "saber.responses"

func cached(id, answer string, keywords ...string) bson.D {
	kws := bson.A{}
	for _, k := range keywords {
		kws = append(kws, k)
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "keywords", Value: kws},
		{Key: "answerText", Value: answer},
		{Key: "classification", Value: "global"},
	}
}

func TestMongoFindByKeywords(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("first candidate over the threshold wins", func(mt *mtest.T) {
		c := NewMongoResponseCache(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, responsesNS, mtest.FirstBatch,
			cached("r1", "pouco", "nome", "telefone", "email"),
			cached("r2", "cadastro", "nome", "usuario", "cadastro"),
		))

		hit, err := c.FindByKeywords(context.Background(), []string{"nome", "usuario", "endereco"})
		require.NoError(t, err)
		require.NotNil(t, hit)
		assert.Equal(t, "r2", hit.ID)
	})

	mt.Run("candidates below the threshold miss", func(mt *mtest.T) {
		c := NewMongoResponseCache(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, responsesNS, mtest.FirstBatch,
			cached("r2", "cadastro", "nome", "usuario", "cadastro"),
		))

		hit, err := c.FindByKeywords(context.Background(), []string{"nome", "endereco"})
		require.NoError(t, err)
		assert.Nil(t, hit)
	})

	mt.Run("driver error", func(mt *mtest.T) {
		c := NewMongoResponseCache(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad", Name: "BadValue"}))

		_, err := c.FindByKeywords(context.Background(), []string{"nome"})
		assert.ErrorIs(t, err, ErrCache)
	})
}

func TestMongoSave(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts new entry", func(mt *mtest.T) {
		c := NewMongoResponseCache(mt.DB, 0)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, responsesNS, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		err := c.Save(context.Background(), models.CachedResponse{Keywords: []string{"java"}, AnswerText: "Java é uma linguagem."})
		require.NoError(t, err)
	})

	mt.Run("updates matching entry", func(mt *mtest.T) {
		c := NewMongoResponseCache(mt.DB, 0)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, responsesNS, mtest.FirstBatch, cached("r1", "antigo", "java")),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		err := c.Save(context.Background(), models.CachedResponse{Keywords: []string{"java"}, AnswerText: "novo"})
		require.NoError(t, err)
	})
}
