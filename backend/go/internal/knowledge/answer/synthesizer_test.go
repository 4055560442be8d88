package answer

import (
	"Saber/backend/go/internal/knowledge/query"
	"Saber/backend/go/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fact(kind, key, value string) models.Fact {
	return models.Fact{Kind: kind, Key: key, Entity: "u1", Value: value}
}

func TestSynthesizeSingleFact(t *testing.T) {
	self := &query.Descriptor{Kind: models.EntryKindIdentity, Target: query.TargetSelf}
	concept := &query.Descriptor{Kind: models.EntryKindDefinition, Target: query.TargetConcept, Concept: "api"}

	text, ok := Synthesize(self, []models.Fact{fact(models.FactKindName, "name", "Ana")})
	assert.True(t, ok)
	assert.Equal(t, "Seu nome é Ana.", text)

	text, ok = Synthesize(concept, []models.Fact{fact(models.FactKindDefinition, "api", "interface de programação")})
	assert.True(t, ok)
	assert.Equal(t, "API significa interface de programação.", text)

	text, ok = Synthesize(self, []models.Fact{fact(models.FactKindProperty, "cor favorita", "azul")})
	assert.True(t, ok)
	assert.Equal(t, "cor favorita: azul", text)
}

func TestSynthesizeNothing(t *testing.T) {
	_, ok := Synthesize(&query.Descriptor{Kind: models.EntryKindIdentity, Target: query.TargetSelf}, nil)
	assert.False(t, ok)

	_, ok = Synthesize(nil, []models.Fact{fact(models.FactKindName, "name", "Ana")})
	assert.False(t, ok)

	_, ok = Synthesize(&query.Descriptor{Kind: models.EntryKindIdentity, Target: query.TargetSelf}, []models.Fact{
		fact(models.FactKindName, "name", "Ana"),
		fact(models.FactKindName, "name", "Bia"),
	})
	assert.False(t, ok)
}

func TestSynthesizeSelfRelations(t *testing.T) {
	q := &query.Descriptor{Kind: models.EntryKindRelation, Target: query.TargetSelf}

	text, ok := Synthesize(q, []models.Fact{
		fact(models.FactKindRelation, "amigo", "Maria"),
		fact(models.FactKindRelation, "amigo", "Pedro"),
		fact(models.FactKindRelation, "amigo", "João"),
	})
	assert.True(t, ok)
	assert.Equal(t, "Seus amigos são: Maria, Pedro e João", text)

	text, ok = Synthesize(q, []models.Fact{
		fact(models.FactKindRelation, "irmãos", "Lia"),
		fact(models.FactKindRelation, "irmãos", "Rui"),
	})
	assert.True(t, ok)
	assert.Equal(t, "Seus irmãos: Lia e Rui", text)

	text, ok = Synthesize(q, []models.Fact{
		fact(models.FactKindRelation, "amigo", "Maria"),
		fact(models.FactKindRelation, "chefe", "Carla"),
	})
	assert.True(t, ok)
	assert.Equal(t, "Suas relações:\n- amigo: Maria\n- chefe: Carla", text)
}

func TestSynthesizeThirdParty(t *testing.T) {
	q := &query.Descriptor{Kind: models.EntryKindRelation, Target: query.TargetThirdParty, Name: "Maria"}

	text, ok := Synthesize(q, []models.Fact{
		fact(models.FactKindRelation, "amigo", "Maria Clara"),
		fact(models.FactKindRelation, "chefe", "maria"),
	})
	assert.True(t, ok)
	assert.Equal(t, "maria é seu/sua chefe.", text, "exact match wins over substring")

	text, ok = Synthesize(q, []models.Fact{
		fact(models.FactKindRelation, "amigo", "Maria Clara"),
		fact(models.FactKindRelation, "prima", "Ana Maria"),
	})
	assert.True(t, ok)
	assert.Equal(t, "Sobre Maria:\n- amigo: Maria Clara\n- prima: Ana Maria", text)

	_, ok = Synthesize(q, []models.Fact{
		fact(models.FactKindRelation, "amigo", "Pedro"),
		fact(models.FactKindRelation, "chefe", "Carla"),
	})
	assert.False(t, ok)
}

func TestSynthesizeConceptProperties(t *testing.T) {
	facts := []models.Fact{
		{Kind: models.FactKindProperty, Key: "cores", Entity: models.GeneralEntity, Concept: "maçã", Value: "vermelha"},
		{Kind: models.FactKindProperty, Key: "cores", Entity: models.GeneralEntity, Concept: "maçã", Value: "verde"},
		{Kind: models.FactKindProperty, Key: "sabor", Entity: models.GeneralEntity, Concept: "maçã", Value: "doce"},
	}

	text, ok := Synthesize(&query.Descriptor{Kind: models.EntryKindProperty, Target: query.TargetConcept, Concept: "maçã", Property: "cores"}, facts)
	assert.True(t, ok)
	assert.Equal(t, "As cores de Maçã são: vermelha e verde", text)

	text, ok = Synthesize(&query.Descriptor{Kind: models.EntryKindProperty, Target: query.TargetConcept, Concept: "maçã", Property: "peso"}, facts)
	assert.True(t, ok)
	assert.Equal(t, "Sobre Maçã:\n- cores: vermelha\n- cores: verde\n- sabor: doce", text)
}

func TestJoinPT(t *testing.T) {
	assert.Equal(t, "", JoinPT(nil))
	assert.Equal(t, "A", JoinPT([]string{"A"}))
	assert.Equal(t, "A e B", JoinPT([]string{"A", "B"}))
	assert.Equal(t, "A, B e C", JoinPT([]string{"A", "B", "C"}))
}
