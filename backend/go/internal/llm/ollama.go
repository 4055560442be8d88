package llm

import (
	"Saber/backend/go/internal/models"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	olla "github.com/ollama/ollama/api"
)

// Ollama 是一个用于 Ollama API 的 LLM 客户端。
type Ollama struct {
	client *olla.Client // Ollama 客户端实例。
	model  string       // 要使用的模型名称。
}

// NewOllama 创建一个新的 Ollama 客户端。baseURL 为空时默认为 "http://localhost:11434"。
func NewOllama(model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	hc := &http.Client{
		Timeout: 120 * time.Second,
	}
	return &Ollama{client: olla.NewClient(parsedURL, hc), model: model}, nil
}

// GenerateContent 使用 Ollama API 生成内容。
func (o *Ollama) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	system, rest := splitSystem(req)

	var result *olla.GenerateResponse
	stream := false
	err := o.client.Generate(ctx, &olla.GenerateRequest{
		Model:  o.model,
		System: system,
		Prompt: toOllamaPrompt(rest),
		Stream: &stream,
	}, func(resp olla.GenerateResponse) error {
		result = &resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with ollama: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("ollama returned no response")
	}

	return &models.GenerateContentResponse{
		Content: []models.Content{
			{
				Parts: []*models.Part{{Text: result.Response}},
				Role:  models.SpeakerModel,
			},
		},
		ModelVersion: result.Model,
	}, nil
}

// toOllamaPrompt 将所有文本部分拼接成一个提示字符串。
func toOllamaPrompt(content []models.Content) string {
	var sb strings.Builder
	for _, c := range content {
		for _, part := range c.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
