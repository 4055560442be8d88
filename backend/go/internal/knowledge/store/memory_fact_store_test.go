package store

import (
	"Saber/backend/go/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUpsertFactIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFactStore()
	fact := models.Fact{Kind: "Name", Key: " name ", Entity: "User-1", Value: "Ana",
		Context: models.FactContext{Certainty: models.CertaintyHigh}}

	res, err := s.UpsertFact(ctx, fact)
	require.NoError(t, err)
	assert.Equal(t, models.UpsertInserted, res)

	res, err = s.UpsertFact(ctx, fact)
	require.NoError(t, err)
	assert.Equal(t, models.UpsertUpdated, res)

	all, err := s.FindFactsByType(ctx, models.FactKindName)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ana", all[0].Value)
	assert.Equal(t, "user-1", all[0].Entity)
	assert.NotEmpty(t, all[0].ID)
}

func TestMemoryUpsertFactUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFactStore()

	_, err := s.UpsertFact(ctx, models.Fact{Kind: "relation", Key: "amigo", Entity: "u1", Value: "Maria",
		Relationships: []models.Relationship{{Type: "amigo", TargetEntity: "maria"}}})
	require.NoError(t, err)

	res, err := s.UpsertFact(ctx, models.Fact{Kind: "relation", Key: "amigo", Entity: "u1", Value: "Pedro",
		Context: models.FactContext{Certainty: models.CertaintyLow}})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertUpdated, res)

	f, err := s.FindFact(ctx, "relation", "amigo", "u1")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "Pedro", f.Value)
	assert.Equal(t, models.CertaintyHigh, f.Context.Certainty)
	assert.Equal(t, []models.Relationship{{Type: "amigo", TargetEntity: "maria"}}, f.Relationships, "relationships kept when none supplied")
}

func TestMemoryConceptIsPartOfPropertyKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFactStore()

	for _, concept := range []string{"maçã", "banana"} {
		res, err := s.UpsertFact(ctx, models.Fact{Kind: "property", Key: "cor", Entity: models.GeneralEntity, Concept: concept, Value: concept + " colorida"})
		require.NoError(t, err)
		assert.Equal(t, models.UpsertInserted, res)
	}

	props, err := s.FindConceptProperties(ctx, "Maçã")
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "maçã colorida", props[0].Value)
}

func TestMemoryFindFactMissing(t *testing.T) {
	f, err := NewMemoryFactStore().FindFact(context.Background(), "name", "name", "nobody")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestMemoryFindConceptProperties(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFactStore()
	_, _ = s.UpsertFact(ctx, models.Fact{Kind: "property", Key: "criador", Entity: "python", Value: "Guido"})
	_, _ = s.UpsertFact(ctx, models.Fact{Kind: "property", Key: "tipagem", Entity: models.GeneralEntity, Concept: "python", Value: "dinâmica"})
	_, _ = s.UpsertFact(ctx, models.Fact{Kind: "relation", Key: "usa", Entity: "u1", Value: "pip",
		Relationships: []models.Relationship{{Type: models.RelationshipPropertyOf, TargetEntity: "python"}}})
	_, _ = s.UpsertFact(ctx, models.Fact{Kind: "definition", Key: "go", Entity: models.GeneralEntity, Value: "uma linguagem compilada"})

	props, err := s.FindConceptProperties(ctx, "python")
	require.NoError(t, err)
	assert.Len(t, props, 3)

	t.Run("falls back to definition", func(t *testing.T) {
		props, err := s.FindConceptProperties(ctx, "Go")
		require.NoError(t, err)
		require.Len(t, props, 1)
		assert.Equal(t, models.FactKindDefinition, props[0].Kind)
	})

	t.Run("unknown concept", func(t *testing.T) {
		props, err := s.FindConceptProperties(ctx, "rust")
		require.NoError(t, err)
		assert.Empty(t, props)
	})
}

func TestMemoryLookups(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFactStore()
	_, _ = s.UpsertFact(ctx, models.Fact{Kind: "relation", Key: "amigo", Entity: "u1", Value: "Maria Clara",
		Relationships: []models.Relationship{{Type: "amigo", TargetEntity: "maria clara"}}})
	_, _ = s.UpsertFact(ctx, models.Fact{Kind: "relation", Key: "irmão", Entity: "u1", Value: "Pedro",
		Relationships: []models.Relationship{{Type: "irmão", TargetEntity: "pedro"}}})
	_, _ = s.UpsertFact(ctx, models.Fact{Kind: "relation", Key: "amigo", Entity: "u2", Value: "Maria"})

	rel, err := s.FindRelationalFacts(ctx, "relation", "u1", "")
	require.NoError(t, err)
	assert.Len(t, rel, 2)

	rel, err = s.FindRelationalFacts(ctx, "relation", "u1", "maria")
	require.NoError(t, err)
	require.Len(t, rel, 1)
	assert.Equal(t, "Maria Clara", rel[0].Value)

	partial, err := s.FindFactsByPartialValue(ctx, "MARIA")
	require.NoError(t, err)
	assert.Len(t, partial, 2)

	related, err := s.FindFactsByRelatedEntity(ctx, "Pedro")
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "irmão", related[0].Key)
}

func TestMemoryUpsertEntityMergesAliases(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFactStore()

	res, err := s.UpsertEntity(ctx, models.Entity{Name: "Maria", NormalizedName: "maria", Kind: models.EntityKindThirdParty, Aliases: []string{"Maria"}})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertInserted, res)

	res, err = s.UpsertEntity(ctx, models.Entity{Name: "Mari", NormalizedName: "maria", Aliases: []string{"Mari", "Maria"}})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertUpdated, res)

	e, err := s.FindEntity(ctx, "Maria")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Maria", e.Name)
	assert.Equal(t, []string{"Maria", "Mari"}, e.Aliases)

	_, err = s.UpsertEntity(ctx, models.Entity{})
	assert.ErrorIs(t, err, ErrStore)
}

func TestEdgesFor(t *testing.T) {
	edges := EdgesFor(models.Fact{
		Kind: "property", Key: "cor", Entity: models.GeneralEntity, Concept: "maçã",
		Relationships: []models.Relationship{
			{Type: models.RelationshipPropertyOf, TargetEntity: "maçã"},
			{Type: "parecida_com", TargetEntity: "Pera", Description: "fruta parecida"},
		},
	})
	require.Len(t, edges, 1)
	assert.Equal(t, Edge{Source: "maçã", Target: "pera", Type: "parecida_com", Description: "fruta parecida", FactKind: "property"}, edges[0])
}
