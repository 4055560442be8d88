package llm

import (
	"Saber/backend/go/internal/models"
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini 是一个实现了 LLM 接口的结构体，用于与 Gemini API 交互。
// 每次调用都是独立的单轮请求，不保留会话历史。
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini 创建一个新的 Gemini 客户端。
func NewGemini(ctx context.Context, model, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// GenerateContent 向 Gemini API 发送请求并返回响应。
func (g *Gemini) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	system, rest := splitSystem(req)

	generativeModel := g.client.GenerativeModel(g.model)
	if system != "" {
		generativeModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if req.JSONOutput {
		generativeModel.ResponseMIMEType = "application/json"
	}

	resp, err := generativeModel.GenerateContent(ctx, toGenaiParts(rest)...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with gemini: %w", err)
	}
	return fromGenaiResponse(resp), nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// toGenaiParts 将内部 Content 结构体转换为 GenAI Part 切片。
func toGenaiParts(content []models.Content) []genai.Part {
	var parts []genai.Part
	for _, c := range content {
		for _, p := range c.Parts {
			if p != nil && p.Text != "" {
				parts = append(parts, genai.Text(p.Text))
			}
		}
	}
	return parts
}

// fromGenaiResponse 将 GenAI 响应转换为内部 GenerateContentResponse 结构体。
func fromGenaiResponse(resp *genai.GenerateContentResponse) *models.GenerateContentResponse {
	if resp == nil {
		return nil
	}
	var content []models.Content
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		var parts []*models.Part
		for _, p := range cand.Content.Parts {
			if text, ok := p.(genai.Text); ok {
				parts = append(parts, &models.Part{Text: string(text)})
			}
		}
		content = append(content, models.Content{Parts: parts, Role: models.SpeakerModel})
	}
	return &models.GenerateContentResponse{Content: content}
}
