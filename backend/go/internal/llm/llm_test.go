package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Saber/backend/go/internal/config"
	"Saber/backend/go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request() *models.GenerateContentRequest {
	return &models.GenerateContentRequest{
		Content: []models.Content{
			{Role: models.SpeakerSystem, Parts: []*models.Part{{Text: "classifique"}}},
			{Role: models.SpeakerUser, Parts: []*models.Part{{Text: "meu nome é Ana"}}},
		},
		JSONOutput: true,
	}
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem(request())
	assert.Equal(t, "classifique", system)
	require.Len(t, rest, 1)
	assert.Equal(t, models.SpeakerUser, rest[0].Role)
}

func TestNewLLMRejectsUnknownProvider(t *testing.T) {
	_, err := NewLLM(context.Background(), config.LLMConfig{Provider: "huggingface"})
	assert.ErrorContains(t, err, "unsupported LLM provider")
}

func TestOpenAIGenerateContent(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"test-model",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"ok\":true}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	model, err := NewLLM(context.Background(), config.LLMConfig{Provider: "openai", Model: "test-model", APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := model.GenerateContent(context.Background(), request())
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)
	assert.Equal(t, `{"ok":true}`, resp.Content[0].Parts[0].Text)
	assert.Equal(t, "test-model", resp.ModelVersion)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "meu nome é Ana", got.Messages[1].Content)
}

func TestOllamaGenerateContent(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"model":"llama3","response":"{\"ok\":true}","done":true}` + "\n"))
	}))
	defer srv.Close()

	model, err := NewOllama("llama3", srv.URL)
	require.NoError(t, err)

	resp, err := model.GenerateContent(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content[0].Parts[0].Text)
	assert.Equal(t, "llama3", resp.ModelVersion)

	assert.Equal(t, "classifique", got["system"])
	assert.Equal(t, "meu nome é Ana", got["prompt"])
	assert.Equal(t, false, got["stream"])
}

func TestOllamaSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	model, err := NewOllama("missing", srv.URL)
	require.NoError(t, err)
	_, err = model.GenerateContent(context.Background(), request())
	assert.ErrorContains(t, err, "model not found")
}
