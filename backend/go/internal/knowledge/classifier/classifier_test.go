package classifier

import (
	"Saber/backend/go/internal/models"
	"Saber/backend/go/pkg/circuitbreaker"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	text  string
	err   error
	calls int
	last  *models.GenerateContentRequest
}

func (f *fakeLLM) GenerateContent(_ context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.GenerateContentResponse{
		Content: []models.Content{{Role: models.SpeakerModel, Parts: []*models.Part{{Text: f.text}}}},
	}, nil
}

const questionJSON = `{
  "keywords": ["nome"],
  "answerText": "Não sei seu nome ainda.",
  "classification": "personal",
  "taxonomicAnalysis": {"interactionType": "question", "primarySubject": "USER", "knowledgeCategory": "identity", "certaintyLevel": "ALTA"},
  "knowledge": {"store": false, "entries": []}
}`

const emptyLearningJSON = `{
  "keywords": ["nome", "ana"],
  "answerText": "Ok!",
  "classification": "personal",
  "taxonomicAnalysis": {"interactionType": "command"},
  "knowledge": {"store": false, "entries": []}
}`

const uncertainLearningJSON = `{
  "keywords": ["java"],
  "answerText": "Entendido.",
  "classification": "global",
  "taxonomicAnalysis": {"interactionType": "command"},
  "knowledge": {"store": false, "entries": [
    {"id": "1", "kind": "definition", "subject": {"type": "CONCEPT", "value": "Java"},
     "predicate": {"type": "definition", "value": "uma linguagem"}, "context": {"certainty": "MÉDIA"}}
  ]}
}`

func TestParse(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		res, err := Parse(questionJSON)
		require.NoError(t, err)
		assert.Equal(t, []string{"nome"}, res.Keywords)
		assert.Equal(t, models.InteractionQuestion, res.TaxonomicAnalysis.InteractionType)
	})

	t.Run("fenced json with prose", func(t *testing.T) {
		res, err := Parse("Aqui está:\n```json\n" + questionJSON + "\n```")
		require.NoError(t, err)
		assert.Equal(t, "personal", res.Classification)
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := Parse(`{"keywords": [], "answerText": "oi", "classification": "global"}`)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := Parse("desculpe, não entendi")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestClassify(t *testing.T) {
	cfg := Config{LearnPrefix: "/aprender ", TrustLearningCommands: true}

	t.Run("prompt carries sender context", func(t *testing.T) {
		model := &fakeLLM{text: questionJSON}
		c := New(model, cfg, nil)

		_, err := c.Classify(context.Background(), "qual é meu nome", Sender{ID: "5511", Name: "Ana"})
		require.NoError(t, err)

		require.Len(t, model.last.Content, 2)
		assert.Equal(t, models.SpeakerSystem, model.last.Content[0].Role)
		user := model.last.Content[1].Parts[0].Text
		assert.Contains(t, user, "nome: Ana")
		assert.Contains(t, user, "id: 5511")
		assert.NotContains(t, user, learningDirective)
		assert.True(t, model.last.JSONOutput)
	})

	t.Run("learning command adds directive", func(t *testing.T) {
		model := &fakeLLM{text: emptyLearningJSON}
		c := New(model, cfg, nil)

		_, err := c.Classify(context.Background(), "/aprender meu nome é Ana", Sender{ID: "5511"})
		require.NoError(t, err)
		assert.Contains(t, model.last.Content[1].Parts[0].Text, learningDirective)
	})

	t.Run("service failure", func(t *testing.T) {
		c := New(&fakeLLM{err: errors.New("connection refused")}, cfg, nil)
		_, err := c.Classify(context.Background(), "oi", Sender{})
		assert.ErrorIs(t, err, ErrServiceError)
	})

	t.Run("malformed answer", func(t *testing.T) {
		c := New(&fakeLLM{text: `{"answerText": "oi"}`}, cfg, nil)
		_, err := c.Classify(context.Background(), "oi", Sender{})
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("empty learning command uses fallback", func(t *testing.T) {
		c := New(&fakeLLM{text: emptyLearningJSON}, cfg, nil)
		res, err := c.Classify(context.Background(), "/aprender meu nome é Ana", Sender{ID: "5511"})
		require.NoError(t, err)

		assert.True(t, res.Knowledge.Store)
		require.Len(t, res.Knowledge.Entries, 1)
		entry := res.Knowledge.Entries[0]
		assert.Equal(t, models.EntryKindIdentity, entry.Kind)
		assert.Equal(t, models.SubjectUser, entry.Subject.Type)
		assert.Equal(t, "Ana", entry.Predicate.Value)
		assert.Equal(t, models.CertaintyHigh, entry.Context.Certainty)
	})

	t.Run("trusted learning command forces certainty", func(t *testing.T) {
		c := New(&fakeLLM{text: uncertainLearningJSON}, cfg, nil)
		res, err := c.Classify(context.Background(), "/aprender Java é uma linguagem", Sender{})
		require.NoError(t, err)

		assert.True(t, res.Knowledge.Store)
		assert.Equal(t, models.CertaintyHigh, res.Knowledge.Entries[0].Context.Certainty)
	})

	t.Run("untrusted learning command keeps certainty", func(t *testing.T) {
		c := New(&fakeLLM{text: uncertainLearningJSON}, Config{LearnPrefix: "/aprender "}, nil)
		res, err := c.Classify(context.Background(), "/aprender Java é uma linguagem", Sender{})
		require.NoError(t, err)

		assert.False(t, res.Knowledge.Store)
		assert.Equal(t, models.CertaintyMedium, res.Knowledge.Entries[0].Context.Certainty)
	})

	t.Run("open breaker fails fast", func(t *testing.T) {
		model := &fakeLLM{err: errors.New("timeout")}
		c := New(model, Config{Breaker: circuitbreaker.New(1, 1, time.Minute)}, nil)

		_, err := c.Classify(context.Background(), "oi", Sender{})
		require.ErrorIs(t, err, ErrServiceError)
		_, err = c.Classify(context.Background(), "oi", Sender{})
		require.ErrorIs(t, err, ErrServiceError)
		assert.ErrorContains(t, err, circuitbreaker.ErrCircuitOpen.Error())
		assert.Equal(t, 1, model.calls)
	})
}

func TestIsLearningCommand(t *testing.T) {
	assert.True(t, IsLearningCommand("/aprender meu nome é Ana", "/aprender "))
	assert.True(t, IsLearningCommand("  /aprender x", "/aprender "))
	assert.False(t, IsLearningCommand("aprender x", "/aprender "))
	assert.False(t, IsLearningCommand("/aprender", "/aprender "))
	assert.Equal(t, "meu nome é Ana", CommandBody("/aprender  meu nome é Ana ", "/aprender "))
}
